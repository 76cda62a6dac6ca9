package filter

import (
	"bytes"
	"compress/zlib"
	"math/rand"
	"testing"
)

func TestASCII85RoundTrip(t *testing.T) {
	input := []byte("the quick brown fox jumps over the lazy dog 0123456789")
	enc := ascii85Encode(input)
	dec, err := Decode(ASCII85, Params{}, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, input) {
		t.Errorf("round-trip mismatch: got %q", dec)
	}
}

func TestASCIIHexRoundTrip(t *testing.T) {
	input := []byte{0x00, 0x1f, 0xff, 0xab, 0x10}
	enc, err := Encode(ASCIIHex, Params{}, input)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := Decode(ASCIIHex, Params{}, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, input) {
		t.Errorf("round-trip mismatch: got %x want %x", dec, input)
	}
}

func TestASCIIHexOddDigitCount(t *testing.T) {
	dec, err := asciiHexDecode([]byte("41424>"))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x41, 0x42, 0x40}
	if !bytes.Equal(dec, want) {
		t.Errorf("expected %x, got %x", want, dec)
	}
}

func TestRunLengthRoundTrip(t *testing.T) {
	input := []byte("aaaaabbbbbbbbbccccccccccccccccccccd")
	enc := runLengthEncode(input)
	dec, err := Decode(RunLength, Params{}, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, input) {
		t.Errorf("round-trip mismatch: got %q want %q", dec, input)
	}
}

func TestRunLengthMixedRuns(t *testing.T) {
	// 3 literal bytes, then a 4-byte repeat of 'z', then EOD
	encoded := []byte{0x02, 'a', 'b', 'c', 257 - 4, 'z', runLengthEOD}
	dec, err := runLengthDecode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("abczzzz")
	if !bytes.Equal(dec, want) {
		t.Errorf("expected %q, got %q", want, dec)
	}
}

func TestRunLengthMissingEODFails(t *testing.T) {
	if _, err := runLengthDecode([]byte{0x00, 'a'}); err == nil {
		t.Error("expected error for missing EOD marker")
	}
}

func TestFlateRoundTripNoPredictor(t *testing.T) {
	input := make([]byte, 500)
	rand.New(rand.NewSource(1)).Read(input)
	enc, err := Encode(Flate, Params{}, input)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := Decode(Flate, Params{}, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, input) {
		t.Error("round-trip mismatch")
	}
}

func TestFlatePNGPredictorRoundTrip(t *testing.T) {
	params := Params{Predictor: 15, Colors: 1, BitsPerComponent: 8, Columns: 10}
	input := make([]byte, 40) // 4 rows of 10 bytes
	for i := range input {
		input[i] = byte(i * 7)
	}
	applied, err := applyPredictor(params, input)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(applied)
	w.Close()

	dec, err := Decode(Flate, params, buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, input) {
		t.Errorf("predictor round-trip mismatch: got %v want %v", dec, input)
	}
}

func TestUnsupportedFilterErrors(t *testing.T) {
	if _, err := Decode("/BogusDecode", Params{}, nil); err == nil {
		t.Error("expected error for unsupported filter")
	}
}

func TestDecodeChain(t *testing.T) {
	input := []byte("some stream content, repeated to compress well, repeated to compress well")
	flated, err := Encode(Flate, Params{}, input)
	if err != nil {
		t.Fatal(err)
	}
	ascii := ascii85Encode(flated)

	dec, err := DecodeChain([]string{ASCII85, Flate}, nil, ascii)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, input) {
		t.Errorf("chain round-trip mismatch: got %q", dec)
	}
}

package object

// StreamData carries a stream's still-encoded payload plus the filter
// chain (and per-filter decode parameters) that produced it. This core
// transports stream bytes; it does not interpret decoded content beyond
// the generic filter chain of internal/filter.
type StreamData struct {
	Raw    []byte       // bytes as they appear on the wire, still filtered
	Filter []Name       // single-entry or ordered chain, mirrors the dict's /Filter
	Parms  []*Dictionary // same length as Filter, nil entries allowed; /DecodeParms
}

// Clone returns a deep copy of the stream payload.
func (s *StreamData) Clone() *StreamData {
	if s == nil {
		return nil
	}
	out := &StreamData{
		Raw:    append([]byte(nil), s.Raw...),
		Filter: append([]Name(nil), s.Filter...),
		Parms:  make([]*Dictionary, len(s.Parms)),
	}
	for i, p := range s.Parms {
		if p != nil {
			out.Parms[i] = p.Clone()
		}
	}
	return out
}

// IndirectObject is an owned PDF object bound to an (ObjID, Gen) pair.
//
// Invariants: ObjID >= 1; if Stream is non-nil, Content must be a
// *Dictionary (the stream's dictionary).
type IndirectObject struct {
	ObjID   uint32
	Gen     uint16
	Content Value
	Stream  *StreamData // nil for non-stream objects
}

// Reference returns the (ObjID, Gen) key identifying this object.
func (o IndirectObject) Reference() Reference {
	return Reference{ObjID: o.ObjID, Gen: o.Gen}
}

// Dict returns the object's content as a dictionary, which is always the
// case for stream objects and is common (but not required) for others.
func (o IndirectObject) Dict() (*Dictionary, bool) {
	d, ok := o.Content.(*Dictionary)
	return d, ok
}

// Clone returns a deep copy of the object.
func (o IndirectObject) Clone() IndirectObject {
	return IndirectObject{
		ObjID:   o.ObjID,
		Gen:     o.Gen,
		Content: CloneValue(o.Content),
		Stream:  o.Stream.Clone(),
	}
}

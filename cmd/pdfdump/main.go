// pdfdump reads a PDF file and prints a summary of its object graph:
// trailer fields, object count, and the page list.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/benoitkugler/pdfcore/document"
	"github.com/benoitkugler/pdfcore/reader"
)

func main() {
	objects := flag.Bool("objects", false, "also list every indirect object number and its type")
	flag.Parse()
	input := flag.Arg(0)
	if input == "" {
		log.Fatal("usage: pdfdump [-objects] <file.pdf>")
	}

	data, err := os.ReadFile(input)
	if err != nil {
		log.Fatalf("reading %s: %s", input, err)
	}

	doc, err := reader.Read(data)
	if err != nil {
		log.Fatalf("parsing %s: %s", input, err)
	}

	fmt.Printf("%s: %d objects\n", input, len(doc.Objects))
	for _, k := range doc.Trailer.Keys() {
		v, _ := doc.Trailer.Get(k)
		fmt.Printf("  %s = %v\n", k, v)
	}

	pages, err := doc.Pages()
	if err != nil {
		fmt.Printf("  pages: unavailable (%s)\n", err)
	} else {
		fmt.Printf("  pages: %d\n", len(pages))
	}

	if *objects {
		dumpObjects(doc)
	}
}

func dumpObjects(doc *document.Document) {
	nums := make([]uint32, 0, len(doc.Objects))
	for n := range doc.Objects {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	for _, n := range nums {
		obj := doc.Objects[n]
		kind := fmt.Sprintf("%T", obj.Content)
		if obj.Stream != nil {
			kind = "stream"
		}
		fmt.Printf("  %d %d obj: %s\n", obj.ObjID, obj.Gen, kind)
	}
}

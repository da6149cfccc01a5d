// Package reader implements a minimal PDF structure reader used to validate
// stamp templates and report their page geometry before import.
//
// It parses the cross-reference information (classic tables and
// cross-reference streams, including compressed object streams) and the page
// tree, exposing the page count and each page's media box. Content streams,
// fonts and interactive features are outside its scope, and encrypted
// documents are rejected: a stamp template is expected to be a plain,
// readable PDF.
package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEncrypted is returned for password-protected templates.
var ErrEncrypted = errors.New("reader: document is encrypted")

// Document is a parsed PDF template.
type Document struct {
	Version string // from the %PDF- header, e.g. "1.7"

	data    []byte
	xref    xrefTable
	trailer dict
	pages   []Page
}

// Rectangle is a PDF rectangle [llx lly urx ury] in points.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rectangle) Width() float64 { return r.URX - r.LLX }

// Height returns the vertical extent of the rectangle.
func (r Rectangle) Height() float64 { return r.URY - r.LLY }

// Page describes one page of the template.
type Page struct {
	Number   int // 1-based
	MediaBox Rectangle
	Rotate   int // degrees, multiple of 90
}

// Open parses the PDF file at filename.
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reader: opening %s: %w", filename, err)
	}
	return parse(data)
}

// ReadFrom parses a PDF document from r. The content is read entirely into
// memory for random access.
func ReadFrom(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reader: reading input: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Document, error) {
	doc := &Document{data: data}

	version, ok := parseVersion(data)
	if !ok {
		return nil, fmt.Errorf("reader: missing %%PDF- header")
	}
	doc.Version = version

	start, err := findStartXRef(data)
	if err != nil {
		return nil, err
	}
	xref, trailer, err := parseXRef(data, start, make(map[int64]bool))
	if err != nil {
		return nil, err
	}
	doc.xref = xref
	doc.trailer = trailer

	if _, ok := trailer["Encrypt"]; ok {
		return nil, ErrEncrypted
	}

	if err := doc.buildPages(); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseVersion extracts the version from the "%PDF-1.x" header.
func parseVersion(data []byte) (string, bool) {
	head := string(data[:min(20, len(data))])
	idx := strings.Index(head, "%PDF-")
	if idx < 0 {
		return "", false
	}
	end := idx + 5
	for end < len(head) && head[end] != '\r' && head[end] != '\n' {
		end++
	}
	return head[idx+5 : end], true
}

// NumPages returns the page count.
func (d *Document) NumPages() int { return len(d.pages) }

// Page returns the page at the given 1-based index.
func (d *Document) Page(n int) (Page, error) {
	if n < 1 || n > len(d.pages) {
		return Page{}, fmt.Errorf("reader: page %d out of range 1..%d", n, len(d.pages))
	}
	return d.pages[n-1], nil
}

// Pages returns all pages in document order.
func (d *Document) Pages() []Page {
	out := make([]Page, len(d.pages))
	copy(out, d.pages)
	return out
}

// resolve follows references until a direct object is reached.
func (d *Document) resolve(obj object) (object, error) {
	for i := 0; i < 32; i++ {
		r, ok := obj.(ref)
		if !ok {
			return obj, nil
		}
		direct, err := d.loadObject(r.num)
		if err != nil {
			return nil, err
		}
		obj = direct
	}
	return nil, fmt.Errorf("reader: reference chain too deep")
}

// loadObject fetches object num via the xref table, transparently unpacking
// objects stored inside object streams.
func (d *Document) loadObject(num int) (object, error) {
	entry, ok := d.xref[num]
	if !ok || !entry.inUse {
		return nil, nil // free or missing objects read as null
	}

	if entry.compressed {
		return d.loadFromObjectStream(entry.containerNum, entry.containerIdx, num)
	}

	if entry.offset < 0 || entry.offset >= int64(len(d.data)) {
		return nil, fmt.Errorf("reader: object %d offset %d out of bounds", num, entry.offset)
	}
	lex := newLexer(d.data[entry.offset:])
	obj, err := lex.indirectObject()
	if err != nil {
		return nil, fmt.Errorf("reader: object %d: %w", num, err)
	}
	return obj, nil
}

// loadFromObjectStream extracts object num from the object stream stored in
// object containerNum.
func (d *Document) loadFromObjectStream(containerNum, idx, num int) (object, error) {
	container, err := d.loadObject(containerNum)
	if err != nil {
		return nil, err
	}
	s, ok := container.(stream)
	if !ok {
		return nil, fmt.Errorf("reader: object stream %d is not a stream", containerNum)
	}
	decoded, err := decodeStream(s)
	if err != nil {
		return nil, fmt.Errorf("reader: object stream %d: %w", containerNum, err)
	}

	count, _ := s.dict.getInt("N")
	first, _ := s.dict.getInt("First")
	if idx < 0 || int64(idx) >= count {
		return nil, fmt.Errorf("reader: object %d: index %d outside object stream %d", num, idx, containerNum)
	}

	// The stream opens with count pairs of "objnum offset" integers.
	lex := newLexer(decoded)
	var offset int64 = -1
	for i := int64(0); i < count; i++ {
		objNum, err := lex.integer()
		if err != nil {
			return nil, fmt.Errorf("reader: object stream %d header: %w", containerNum, err)
		}
		objOff, err := lex.integer()
		if err != nil {
			return nil, fmt.Errorf("reader: object stream %d header: %w", containerNum, err)
		}
		if i == int64(idx) {
			if objNum != int64(num) {
				return nil, fmt.Errorf("reader: object stream %d slot %d holds object %d, want %d",
					containerNum, idx, objNum, num)
			}
			offset = first + objOff
		}
	}
	if offset < 0 || offset >= int64(len(decoded)) {
		return nil, fmt.Errorf("reader: object %d offset outside object stream %d", num, containerNum)
	}

	lex = newLexer(decoded[offset:])
	return lex.object()
}

// buildPages walks trailer -> catalog -> page tree and flattens the leaves.
func (d *Document) buildPages() error {
	root, err := d.resolve(d.trailer["Root"])
	if err != nil {
		return fmt.Errorf("reader: resolving /Root: %w", err)
	}
	catalog, ok := root.(dict)
	if !ok {
		return fmt.Errorf("reader: /Root is not a dictionary")
	}

	pagesObj, err := d.resolve(catalog["Pages"])
	if err != nil {
		return fmt.Errorf("reader: resolving /Pages: %w", err)
	}
	tree, ok := pagesObj.(dict)
	if !ok {
		return fmt.Errorf("reader: /Pages is not a dictionary")
	}

	d.pages = nil
	if err := d.walkPageTree(tree, dict{}, 0); err != nil {
		return err
	}
	if len(d.pages) == 0 {
		return fmt.Errorf("reader: document has no pages")
	}
	return nil
}

// walkPageTree recurses through /Pages nodes, carrying inheritable
// attributes down to the /Page leaves. depth guards against cyclic trees.
func (d *Document) walkPageTree(node, inherited dict, depth int) error {
	if depth > 64 {
		return fmt.Errorf("reader: page tree too deep")
	}

	merged := dict{}
	for k, v := range inherited {
		merged[k] = v
	}
	for _, key := range []name{"MediaBox", "Rotate"} {
		if v, ok := node[key]; ok {
			merged[key] = v
		}
	}

	if node.getName("Type") == "Page" {
		page := Page{Number: len(d.pages) + 1}

		if mb, ok := merged["MediaBox"]; ok {
			resolved, err := d.resolve(mb)
			if err != nil {
				return fmt.Errorf("reader: page %d media box: %w", page.Number, err)
			}
			rect, err := parseRectangle(resolved)
			if err != nil {
				return fmt.Errorf("reader: page %d: %w", page.Number, err)
			}
			page.MediaBox = rect
		}
		if rot, ok := merged["Rotate"]; ok {
			if resolved, err := d.resolve(rot); err == nil {
				if v, ok := resolved.(int64); ok {
					page.Rotate = int(v)
				}
			}
		}

		d.pages = append(d.pages, page)
		return nil
	}

	kidsObj, err := d.resolve(node["Kids"])
	if err != nil {
		return fmt.Errorf("reader: resolving /Kids: %w", err)
	}
	kids, ok := kidsObj.(array)
	if !ok {
		return fmt.Errorf("reader: /Kids is not an array")
	}
	for _, kid := range kids {
		kidObj, err := d.resolve(kid)
		if err != nil {
			return fmt.Errorf("reader: resolving page tree kid: %w", err)
		}
		kidDict, ok := kidObj.(dict)
		if !ok {
			continue
		}
		if err := d.walkPageTree(kidDict, merged, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// parseRectangle converts a 4-element numeric array.
func parseRectangle(obj object) (Rectangle, error) {
	arr, ok := obj.(array)
	if !ok || len(arr) != 4 {
		return Rectangle{}, fmt.Errorf("rectangle must be a 4-element array")
	}
	vals := make([]float64, 4)
	for i, v := range arr {
		switch n := v.(type) {
		case int64:
			vals[i] = float64(n)
		case float64:
			vals[i] = n
		default:
			return Rectangle{}, fmt.Errorf("rectangle element %d is not numeric", i)
		}
	}
	return Rectangle{LLX: vals[0], LLY: vals[1], URX: vals[2], URY: vals[3]}, nil
}

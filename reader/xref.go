package reader

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// xrefEntry locates one object: either directly by byte offset, or inside a
// compressed object stream.
type xrefEntry struct {
	inUse        bool
	offset       int64 // byte offset for direct objects
	compressed   bool
	containerNum int // object number of the holding object stream
	containerIdx int // index within that stream
}

type xrefTable map[int]xrefEntry

// findStartXRef locates the byte offset announced by the trailing
// "startxref" keyword.
func findStartXRef(data []byte) (int64, error) {
	tail := data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("reader: startxref not found")
	}
	lex := newLexer(tail[idx+len("startxref"):])
	offset, err := lex.integer()
	if err != nil {
		return 0, fmt.Errorf("reader: startxref offset: %w", err)
	}
	return offset, nil
}

// parseXRef parses the cross-reference section at offset, following /Prev
// chains for incrementally updated files. Earlier sections win on conflicts,
// since the chain runs newest to oldest. seen guards against cycles.
func parseXRef(data []byte, offset int64, seen map[int64]bool) (xrefTable, dict, error) {
	if offset < 0 || offset >= int64(len(data)) {
		return nil, nil, fmt.Errorf("reader: xref offset %d out of bounds", offset)
	}
	if seen[offset] {
		return nil, nil, fmt.Errorf("reader: cyclic xref chain at offset %d", offset)
	}
	seen[offset] = true

	lex := newLexer(data[offset:])
	lex.skipSpace()

	var table xrefTable
	var trailer dict
	var err error
	if bytes.HasPrefix(lex.data[lex.pos:], []byte("xref")) {
		table, trailer, err = parseXRefSection(lex)
	} else {
		table, trailer, err = parseXRefStream(lex)
	}
	if err != nil {
		return nil, nil, err
	}

	if prev, ok := trailer.getInt("Prev"); ok {
		prevTable, _, err := parseXRef(data, prev, seen)
		if err != nil {
			return nil, nil, fmt.Errorf("reader: previous xref: %w", err)
		}
		for num, entry := range prevTable {
			if _, exists := table[num]; !exists {
				table[num] = entry
			}
		}
	}
	return table, trailer, nil
}

// parseXRefSection reads a classic "xref ... trailer" table.
func parseXRefSection(lex *lexer) (xrefTable, dict, error) {
	if tok := lex.token(); tok != "xref" {
		return nil, nil, fmt.Errorf("reader: expected 'xref', got %q", tok)
	}

	table := xrefTable{}
	for {
		lex.skipSpace()
		save := lex.pos
		if tok := lex.token(); tok == "trailer" {
			break
		}
		lex.pos = save

		start, err := lex.integer()
		if err != nil {
			return nil, nil, fmt.Errorf("reader: xref subsection start: %w", err)
		}
		count, err := lex.integer()
		if err != nil {
			return nil, nil, fmt.Errorf("reader: xref subsection count: %w", err)
		}

		for i := int64(0); i < count; i++ {
			off, err := lex.integer()
			if err != nil {
				return nil, nil, fmt.Errorf("reader: xref entry offset: %w", err)
			}
			if _, err := lex.integer(); err != nil {
				return nil, nil, fmt.Errorf("reader: xref entry generation: %w", err)
			}
			kind := lex.token()

			num := int(start + i)
			if _, exists := table[num]; !exists {
				table[num] = xrefEntry{inUse: kind == "n", offset: off}
			}
		}
	}

	obj, err := lex.object()
	if err != nil {
		return nil, nil, fmt.Errorf("reader: trailer: %w", err)
	}
	trailer, ok := obj.(dict)
	if !ok {
		return nil, nil, fmt.Errorf("reader: trailer is not a dictionary")
	}
	return table, trailer, nil
}

// parseXRefStream reads a PDF 1.5+ cross-reference stream. The stream
// dictionary doubles as the trailer.
func parseXRefStream(lex *lexer) (xrefTable, dict, error) {
	obj, err := lex.indirectObject()
	if err != nil {
		return nil, nil, fmt.Errorf("reader: xref stream: %w", err)
	}
	s, ok := obj.(stream)
	if !ok {
		return nil, nil, fmt.Errorf("reader: xref section is neither a table nor a stream")
	}
	decoded, err := decodeStream(s)
	if err != nil {
		return nil, nil, fmt.Errorf("reader: decoding xref stream: %w", err)
	}

	wArr := s.dict.getArray("W")
	if len(wArr) != 3 {
		return nil, nil, fmt.Errorf("reader: xref stream /W must have 3 elements")
	}
	widths := make([]int, 3)
	for i, w := range wArr {
		v, ok := w.(int64)
		if !ok || v < 0 {
			return nil, nil, fmt.Errorf("reader: xref stream /W element %d invalid", i)
		}
		widths[i] = int(v)
	}
	entrySize := widths[0] + widths[1] + widths[2]
	if entrySize == 0 {
		return nil, nil, fmt.Errorf("reader: xref stream /W is all zero")
	}

	var indices []int64
	if idx := s.dict.getArray("Index"); idx != nil {
		for _, v := range idx {
			n, ok := v.(int64)
			if !ok {
				return nil, nil, fmt.Errorf("reader: xref stream /Index element invalid")
			}
			indices = append(indices, n)
		}
	} else {
		size, _ := s.dict.getInt("Size")
		indices = []int64{0, size}
	}

	table := xrefTable{}
	pos := 0
	for i := 0; i+1 < len(indices); i += 2 {
		start, count := indices[i], indices[i+1]
		for j := int64(0); j < count; j++ {
			if pos+entrySize > len(decoded) {
				return table, s.dict, nil // truncated stream, keep what we have
			}
			var fields [3]int64
			for f := 0; f < 3; f++ {
				for k := 0; k < widths[f]; k++ {
					fields[f] = fields[f]<<8 | int64(decoded[pos])
					pos++
				}
			}

			kind := fields[0]
			if widths[0] == 0 {
				kind = 1
			}
			num := int(start + j)
			if _, exists := table[num]; exists {
				continue
			}
			switch kind {
			case 0:
				table[num] = xrefEntry{inUse: false}
			case 1:
				table[num] = xrefEntry{inUse: true, offset: fields[1]}
			case 2:
				table[num] = xrefEntry{
					inUse:        true,
					compressed:   true,
					containerNum: int(fields[1]),
					containerIdx: int(fields[2]),
				}
			}
		}
	}
	return table, s.dict, nil
}

// decodeStream applies the stream's filter chain. Only FlateDecode (with
// optional PNG predictors) is supported; that covers cross-reference and
// object streams in practice.
func decodeStream(s stream) ([]byte, error) {
	filter := s.dict["Filter"]
	if filter == nil {
		return s.data, nil
	}

	var filters []name
	switch f := filter.(type) {
	case name:
		filters = []name{f}
	case array:
		for _, item := range f {
			n, ok := item.(name)
			if !ok {
				return nil, fmt.Errorf("filter array contains %T", item)
			}
			filters = append(filters, n)
		}
	default:
		return nil, fmt.Errorf("unexpected filter type %T", filter)
	}

	data := s.data
	for _, f := range filters {
		if f != "FlateDecode" {
			return nil, fmt.Errorf("unsupported filter /%s", f)
		}
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("flate: %w", err)
		}
		inflated, err := io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, fmt.Errorf("flate: %w", err)
		}
		data = inflated
	}

	if parms, ok := s.dict["DecodeParms"].(dict); ok {
		pred, _ := parms.getInt("Predictor")
		if pred >= 10 {
			columns, ok := parms.getInt("Columns")
			if !ok {
				columns = 1
			}
			colors, ok := parms.getInt("Colors")
			if !ok {
				colors = 1
			}
			bpc, ok := parms.getInt("BitsPerComponent")
			if !ok {
				bpc = 8
			}
			var err error
			data, err = undoPNGPredictor(data, int(columns), int(colors), int(bpc))
			if err != nil {
				return nil, err
			}
		}
	}
	return data, nil
}

// undoPNGPredictor reverses the per-row PNG filters applied before
// compression (predictors 10-15).
func undoPNGPredictor(data []byte, columns, colors, bpc int) ([]byte, error) {
	bpp := (colors*bpc + 7) / 8
	rowLen := (columns*colors*bpc + 7) / 8
	if rowLen <= 0 {
		return nil, fmt.Errorf("predictor: invalid row length")
	}
	stride := rowLen + 1 // each row is prefixed with a filter byte

	out := make([]byte, 0, len(data)/stride*rowLen)
	prev := make([]byte, rowLen)

	for pos := 0; pos+stride <= len(data); pos += stride {
		ft := data[pos]
		row := make([]byte, rowLen)
		copy(row, data[pos+1:pos+stride])

		switch ft {
		case 0: // None
		case 1: // Sub
			for i := bpp; i < rowLen; i++ {
				row[i] += row[i-bpp]
			}
		case 2: // Up
			for i := 0; i < rowLen; i++ {
				row[i] += prev[i]
			}
		case 3: // Average
			for i := 0; i < rowLen; i++ {
				var left int
				if i >= bpp {
					left = int(row[i-bpp])
				}
				row[i] += byte((left + int(prev[i])) / 2)
			}
		case 4: // Paeth
			for i := 0; i < rowLen; i++ {
				var left, upLeft int
				if i >= bpp {
					left = int(row[i-bpp])
					upLeft = int(prev[i-bpp])
				}
				row[i] += paeth(left, int(prev[i]), upLeft)
			}
		default:
			return nil, fmt.Errorf("predictor: unknown row filter %d", ft)
		}

		out = append(out, row...)
		prev = row
	}
	return out, nil
}

func paeth(a, b, c int) byte {
	p := a + b - c
	pa, pb, pc := abs(p-a), abs(p-b), abs(p-c)
	switch {
	case pa <= pb && pa <= pc:
		return byte(a)
	case pb <= pc:
		return byte(b)
	default:
		return byte(c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

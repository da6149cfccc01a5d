package reader

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// The object model maps PDF values onto plain Go values where possible:
// int64, float64, bool and nil carry numbers, booleans and null, while the
// structured types below cover names, strings, arrays, dictionaries,
// references and streams.
type (
	object = interface{}

	name   string
	pdfstr []byte
	array  []object
	dict   map[name]object

	ref struct {
		num, gen int
	}

	stream struct {
		dict dict
		data []byte // raw, possibly filtered
	}
)

func (d dict) getInt(key name) (int64, bool) {
	switch v := d[key].(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	}
	return 0, false
}

func (d dict) getName(key name) name {
	if v, ok := d[key].(name); ok {
		return v
	}
	return ""
}

func (d dict) getArray(key name) array {
	if v, ok := d[key].(array); ok {
		return v
	}
	return nil
}

// lexer is a recursive descent reader for PDF syntax.
type lexer struct {
	data []byte
	pos  int
}

func newLexer(data []byte) *lexer {
	return &lexer{data: data}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == 0
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// skipSpace advances past whitespace and comments.
func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isSpace(b) {
			l.pos++
			continue
		}
		if b == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		return
	}
}

// token reads a run of regular characters.
func (l *lexer) token() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// integer reads a decimal integer token.
func (l *lexer) integer() (int64, error) {
	tok := l.token()
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", tok)
	}
	return v, nil
}

// object parses the next object at the current position.
func (l *lexer) object() (object, error) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return nil, io.ErrUnexpectedEOF
	}

	switch b := l.data[l.pos]; {
	case b == '<' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '<':
		return l.dictObject()
	case b == '<':
		return l.hexString()
	case b == '(':
		return l.literalString()
	case b == '/':
		return l.nameObject()
	case b == '[':
		return l.arrayObject()
	case b == 't', b == 'f', b == 'n':
		return l.keyword()
	case b >= '0' && b <= '9', b == '+', b == '-', b == '.':
		return l.numberOrRef()
	default:
		return nil, fmt.Errorf("unexpected character %q at offset %d", b, l.pos)
	}
}

func (l *lexer) nameObject() (name, error) {
	l.pos++ // '/'
	var buf bytes.Buffer
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isSpace(b) || isDelim(b) {
			break
		}
		if b == '#' && l.pos+2 < len(l.data) {
			hi := unhex(l.data[l.pos+1])
			lo := unhex(l.data[l.pos+2])
			if hi >= 0 && lo >= 0 {
				buf.WriteByte(byte(hi<<4 | lo))
				l.pos += 3
				continue
			}
		}
		buf.WriteByte(b)
		l.pos++
	}
	return name(buf.String()), nil
}

func (l *lexer) keyword() (object, error) {
	switch tok := l.token(); tok {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected keyword %q", tok)
	}
}

// numberOrRef distinguishes "N", "N.N" and the reference form "N G R".
func (l *lexer) numberOrRef() (object, error) {
	start := l.pos
	tok := l.token()

	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		afterFirst := l.pos
		l.skipSpace()
		if l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '9' {
			genTok := l.token()
			if gen, err := strconv.ParseInt(genTok, 10, 64); err == nil {
				l.skipSpace()
				if l.pos < len(l.data) && l.data[l.pos] == 'R' &&
					(l.pos+1 >= len(l.data) || isSpace(l.data[l.pos+1]) || isDelim(l.data[l.pos+1])) {
					l.pos++
					return ref{num: int(i), gen: int(gen)}, nil
				}
			}
		}
		l.pos = afterFirst
		return i, nil
	}

	l.pos = start
	tok = l.token()
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q at offset %d", tok, start)
	}
	return f, nil
}

func (l *lexer) literalString() (pdfstr, error) {
	l.pos++ // '('
	var buf bytes.Buffer
	depth := 1
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++
		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				return pdfstr(buf.Bytes()), nil
			}
			buf.WriteByte(b)
		case '\\':
			if l.pos >= len(l.data) {
				return nil, fmt.Errorf("unterminated string escape")
			}
			esc := l.data[l.pos]
			l.pos++
			switch esc {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
				// line continuation, emit nothing
			default:
				if esc >= '0' && esc <= '7' {
					oct := int(esc - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						oct = oct*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					buf.WriteByte(byte(oct))
				} else {
					buf.WriteByte(esc)
				}
			}
		default:
			buf.WriteByte(b)
		}
	}
	return nil, fmt.Errorf("unterminated literal string")
}

func (l *lexer) hexString() (pdfstr, error) {
	l.pos++ // '<'
	var buf bytes.Buffer
	hi := -1
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			if hi >= 0 {
				buf.WriteByte(byte(hi << 4))
			}
			return pdfstr(buf.Bytes()), nil
		}
		if isSpace(b) {
			continue
		}
		v := unhex(b)
		if v < 0 {
			return nil, fmt.Errorf("invalid hex digit %q", b)
		}
		if hi < 0 {
			hi = v
		} else {
			buf.WriteByte(byte(hi<<4 | v))
			hi = -1
		}
	}
	return nil, fmt.Errorf("unterminated hex string")
}

func (l *lexer) arrayObject() (array, error) {
	l.pos++ // '['
	var arr array
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated array")
		}
		if l.data[l.pos] == ']' {
			l.pos++
			return arr, nil
		}
		obj, err := l.object()
		if err != nil {
			return nil, fmt.Errorf("in array: %w", err)
		}
		arr = append(arr, obj)
	}
}

func (l *lexer) dictObject() (dict, error) {
	l.pos += 2 // '<<'
	d := dict{}
	for {
		l.skipSpace()
		if l.pos+1 < len(l.data) && l.data[l.pos] == '>' && l.data[l.pos+1] == '>' {
			l.pos += 2
			return d, nil
		}
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated dictionary")
		}
		if l.data[l.pos] != '/' {
			return nil, fmt.Errorf("dictionary key at offset %d is not a name", l.pos)
		}
		key, err := l.nameObject()
		if err != nil {
			return nil, fmt.Errorf("dictionary key: %w", err)
		}
		val, err := l.object()
		if err != nil {
			return nil, fmt.Errorf("dictionary value for /%s: %w", key, err)
		}
		d[key] = val
	}
}

// indirectObject parses "N G obj ... endobj", attaching stream data when the
// body is a stream.
func (l *lexer) indirectObject() (object, error) {
	if _, err := l.integer(); err != nil {
		return nil, fmt.Errorf("object number: %w", err)
	}
	if _, err := l.integer(); err != nil {
		return nil, fmt.Errorf("generation number: %w", err)
	}
	if tok := l.token(); tok != "obj" {
		return nil, fmt.Errorf("expected 'obj', got %q", tok)
	}

	val, err := l.object()
	if err != nil {
		return nil, err
	}

	l.skipSpace()
	if bytes.HasPrefix(l.data[l.pos:], []byte("stream")) {
		d, ok := val.(dict)
		if !ok {
			return nil, fmt.Errorf("stream header is not a dictionary")
		}
		l.pos += len("stream")
		if l.pos < len(l.data) && l.data[l.pos] == '\r' {
			l.pos++
		}
		if l.pos < len(l.data) && l.data[l.pos] == '\n' {
			l.pos++
		}

		length, ok := d.getInt("Length")
		if !ok {
			return nil, fmt.Errorf("stream without /Length")
		}
		if l.pos+int(length) > len(l.data) {
			return nil, fmt.Errorf("stream data exceeds input bounds")
		}
		data := make([]byte, length)
		copy(data, l.data[l.pos:l.pos+int(length)])
		l.pos += int(length)
		val = stream{dict: d, data: data}
	}
	return val, nil
}

func unhex(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	default:
		return -1
	}
}

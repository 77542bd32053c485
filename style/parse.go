package style

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	parse "github.com/tdewolff/parse/v2"
	pjson "github.com/tdewolff/parse/v2/json"
)

// SyntaxError describes malformed JSON text.
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ParseValue parses JSON text into a Value tree. Objects keep key order and
// remember the line of every member.
func ParseValue(data []byte) (Value, error) {
	if len(bytes.Trim(data, jsonSpace)) == 0 {
		return nil, &SyntaxError{Line: 1, Message: "empty document"}
	}
	d := newDecoder(data)
	defer d.in.Restore()

	gt, text, line := d.next()
	v, err := d.value(gt, text, line)
	if err != nil {
		return nil, err
	}
	// parser does not report trailing content by itself
	if off := d.in.Offset(); off < len(data) {
		rest := data[off:]
		if trimmed := bytes.TrimLeft(rest, jsonSpace); len(trimmed) != 0 {
			return nil, &SyntaxError{Line: d.lineAt(off + len(rest) - len(trimmed)), Message: "unexpected content after the end of the document"}
		}
	}
	return v, nil
}

const jsonSpace = " \t\r\n"

type decoder struct {
	data     []byte
	in       *parse.Input
	p        *pjson.Parser
	newlines []int
}

func newDecoder(data []byte) *decoder {
	d := &decoder{data: data, in: parse.NewInputBytes(data)}
	d.p = pjson.NewParser(d.in)
	for i, c := range data {
		if c == '\n' {
			d.newlines = append(d.newlines, i)
		}
	}
	return d
}

// lineAt converts input offset to 1-based line number.
func (d *decoder) lineAt(offset int) int {
	return sort.SearchInts(d.newlines, offset) + 1
}

func (d *decoder) next() (pjson.GrammarType, []byte, int) {
	for {
		gt, text := d.p.Next()
		if gt == pjson.WhitespaceGrammar {
			continue
		}
		return gt, text, d.lineAt(d.in.Offset())
	}
}

// strayComma looks ahead of the parser for a comma it would silently skip:
// one before the first element of a container or one after the last.
func (d *decoder) strayComma(first bool) *SyntaxError {
	off := d.skipSpace(d.in.Offset())
	if off >= len(d.data) || d.data[off] != ',' {
		return nil
	}
	if first {
		return &SyntaxError{Line: d.lineAt(off), Message: "unexpected comma"}
	}
	if after := d.skipSpace(off + 1); after < len(d.data) && (d.data[after] == ']' || d.data[after] == '}') {
		return &SyntaxError{Line: d.lineAt(off), Message: "trailing comma"}
	}
	return nil
}

func (d *decoder) skipSpace(off int) int {
	for ; off < len(d.data); off++ {
		switch d.data[off] {
		case ' ', '\t', '\r', '\n':
		default:
			return off
		}
	}
	return off
}

func (d *decoder) syntaxError(err error, line int) *SyntaxError {
	var perr *parse.Error
	if errors.As(err, &perr) {
		if perr.Line > 0 {
			line = perr.Line
		}
		return &SyntaxError{Line: line, Message: perr.Message}
	}
	if errors.Is(err, io.EOF) {
		return &SyntaxError{Line: line, Message: "unexpected end of document"}
	}
	return &SyntaxError{Line: line, Message: err.Error()}
}

func (d *decoder) value(gt pjson.GrammarType, text []byte, line int) (Value, error) {
	switch gt {
	case pjson.StartObjectGrammar:
		return d.object(line)
	case pjson.StartArrayGrammar:
		return d.array()
	case pjson.StringGrammar:
		s, err := unquote(text)
		if err != nil {
			return nil, &SyntaxError{Line: line, Message: err.Error()}
		}
		return String(s), nil
	case pjson.NumberGrammar:
		return Number{text: string(text)}, nil
	case pjson.LiteralGrammar:
		switch string(text) {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		case "null":
			return Null{}, nil
		}
		return nil, &SyntaxError{Line: line, Message: fmt.Sprintf("unknown literal %q", text)}
	case pjson.ErrorGrammar:
		return nil, d.syntaxError(d.p.Err(), line)
	}
	return nil, &SyntaxError{Line: line, Message: fmt.Sprintf("unexpected %q", text)}
}

func (d *decoder) object(line int) (*Object, error) {
	obj := NewObject()
	obj.Line = line
	if err := d.strayComma(true); err != nil {
		return nil, err
	}
	for {
		gt, text, kline := d.next()
		switch gt {
		case pjson.EndObjectGrammar:
			return obj, nil
		case pjson.StringGrammar:
			key, err := unquote(text)
			if err != nil {
				return nil, &SyntaxError{Line: kline, Message: err.Error()}
			}
			gt, text, vline := d.next()
			v, err := d.value(gt, text, vline)
			if err != nil {
				return nil, err
			}
			obj.add(key, v, kline)
			if err := d.strayComma(false); err != nil {
				return nil, err
			}
		case pjson.ErrorGrammar:
			return nil, d.syntaxError(d.p.Err(), kline)
		default:
			return nil, &SyntaxError{Line: kline, Message: "expected object key"}
		}
	}
}

func (d *decoder) array() (Array, error) {
	arr := Array{}
	if err := d.strayComma(true); err != nil {
		return nil, err
	}
	for {
		gt, text, line := d.next()
		if gt == pjson.EndArrayGrammar {
			return arr, nil
		}
		v, err := d.value(gt, text, line)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
		if err := d.strayComma(false); err != nil {
			return nil, err
		}
	}
}

// unquote decodes JSON string literal including surrounding quotes.
func unquote(text []byte) (string, error) {
	var s string
	if err := json.Unmarshal(text, &s); err != nil {
		return "", fmt.Errorf("malformed string %s", text)
	}
	return s, nil
}

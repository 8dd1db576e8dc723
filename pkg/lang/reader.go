package lang

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	slurpcore "github.com/spy16/slurp/core"
	slurpreader "github.com/spy16/slurp/reader"
)

// Reader parses forms from source text.
type Reader struct {
	rd *slurpreader.Reader

	File string
}

const pairDelim = Symbol("&")

var symTable = map[string]slurpcore.Any{
	"null":  Null{},
	"true":  Bool(true),
	"false": Bool(false),
}

// NewReader reads forms from src, annotating them with ranges in file.
func NewReader(src io.Reader, file string) *Reader {
	r := slurpreader.New(
		src,
		slurpreader.WithNumReader(readInt),
		slurpreader.WithSymbolReader(readSymbol),
	)

	r.File = file

	reader := &Reader{
		File: file,

		rd: r,
	}

	r.SetMacro('"', false, readString)
	r.SetMacro('(', false, reader.readList)
	r.SetMacro(')', false, slurpreader.UnmatchedDelimiter())
	r.SetMacro('[', false, reader.readConsList)
	r.SetMacro(']', false, slurpreader.UnmatchedDelimiter())
	r.SetMacro(';', false, readComment)
	r.SetMacro('!', true, readComment)
	r.SetMacro('{', false, nil)
	r.SetMacro('}', false, nil)
	r.SetMacro('\'', false, nil)
	r.SetMacro('~', false, nil)
	r.SetMacro('`', false, nil)
	r.SetMacro(':', false, nil)

	return reader
}

// Next reads the next form. It returns io.EOF once the source is exhausted
// between forms.
func (reader *Reader) Next() (Value, error) {
	for {
		val, err := reader.readAnnotate()
		if err == slurpreader.ErrSkip {
			continue
		}

		return val, err
	}
}

func (reader *Reader) loc(start, end slurpreader.Position) Range {
	start.File = reader.File
	end.File = reader.File
	return Range{Start: start, End: end}
}

func (reader *Reader) readAnnotate() (Annotate, error) {
	rd := reader.rd

	if err := rd.SkipSpaces(); err != nil {
		return Annotate{}, err
	}

	pre := rd.Position()

	any, err := rd.One()
	if err != nil {
		if isSkip(err) {
			return Annotate{}, slurpreader.ErrSkip
		}

		var rErr slurpreader.Error
		if errors.As(err, &rErr) {
			return Annotate{}, ReadError{
				Err:   rErr,
				Range: reader.loc(pre, rErr.End),
			}
		}

		return Annotate{}, err
	}

	val, ok := any.(Value)
	if !ok {
		return Annotate{}, fmt.Errorf("read: expected Value, got %T", any)
	}

	var annotate Annotate
	if err := val.Decode(&annotate); err != nil {
		annotate = Annotate{
			Value: val,
			Range: reader.loc(pre, rd.Position()),
		}
	}

	return annotate, nil
}

func isSkip(err error) bool {
	if errors.Is(err, slurpreader.ErrSkip) {
		return true
	}

	var rErr slurpreader.Error
	return errors.As(err, &rErr) && errors.Is(rErr.Cause, slurpreader.ErrSkip)
}

func readSymbol(rd *slurpreader.Reader, init rune) (slurpcore.Any, error) {
	beginPos := rd.Position()

	s, err := rd.Token(init)
	if err != nil {
		return nil, annotateErr(rd, err, beginPos, s)
	}

	if predefVal, found := symTable[s]; found {
		return predefVal, nil
	}

	return Symbol(s), nil
}

func readInt(rd *slurpreader.Reader, init rune) (slurpcore.Any, error) {
	beginPos := rd.Position()

	numStr, err := rd.Token(init)
	if err != nil {
		return nil, err
	}

	v, err := strconv.ParseInt(numStr, 0, 64)
	if err != nil {
		return nil, annotateErr(rd, slurpreader.ErrNumberFormat, beginPos, numStr)
	}

	return Int(v), nil
}

// readString reads up to the closing quote, then decodes escapes the way Go
// string literals do. Literal newlines are kept.
func readString(rd *slurpreader.Reader, init rune) (slurpcore.Any, error) {
	beginPos := rd.Position()

	var raw strings.Builder
	for escaped := false; ; {
		r, err := rd.NextRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = slurpreader.ErrEOF
			}

			return nil, annotateErr(rd, err, beginPos, string(init)+raw.String())
		}

		if r == '"' && !escaped {
			break
		}

		escaped = r == '\\' && !escaped
		raw.WriteRune(r)
	}

	str, err := unescape(raw.String())
	if err != nil {
		return nil, annotateErr(rd, err, beginPos, string(init)+raw.String()+`"`)
	}

	return String(str), nil
}

func unescape(lit string) (string, error) {
	var b strings.Builder
	for rest := lit; rest != ""; {
		r, multibyte, tail, err := strconv.UnquoteChar(rest, '"')
		if err != nil {
			return "", fmt.Errorf("invalid escape in %q", lit)
		}

		if r < utf8.RuneSelf || !multibyte {
			b.WriteByte(byte(r))
		} else {
			b.WriteRune(r)
		}

		rest = tail
	}

	return b.String(), nil
}

func (reader *Reader) readConsList(_ *slurpreader.Reader, _ rune) (slurpcore.Any, error) {
	vals, tail, err := reader.container(']')
	if err != nil {
		return nil, err
	}

	list := tail
	for i := len(vals) - 1; i >= 0; i-- {
		list = Cons{
			A: vals[i],
			D: list,
		}
	}

	return list, nil
}

func (reader *Reader) readList(_ *slurpreader.Reader, _ rune) (slurpcore.Any, error) {
	vals, tail, err := reader.container(')')
	if err != nil {
		return nil, err
	}

	list := tail
	for i := len(vals) - 1; i >= 0; i-- {
		list = Pair{
			A: vals[i],
			D: list,
		}
	}

	return list, nil
}

// container reads forms up to the closing delimiter. A form following & is
// returned as the tail of the list.
func (reader *Reader) container(end rune) ([]Value, Value, error) {
	rd := reader.rd

	var vals []Value
	var tail Value = Empty{}
	var dotted bool

	for {
		if err := rd.SkipSpaces(); err != nil {
			if err == io.EOF {
				return nil, nil, slurpreader.Error{Cause: slurpreader.ErrEOF}
			}

			return nil, nil, err
		}

		r, err := rd.NextRune()
		if err != nil {
			if err == io.EOF {
				return nil, nil, slurpreader.Error{Cause: slurpreader.ErrEOF}
			}

			return nil, nil, err
		}

		if r == end {
			break
		}

		rd.Unread(r)

		expr, err := reader.readAnnotate()
		if err != nil {
			if err == slurpreader.ErrSkip {
				continue
			}

			if err == io.EOF {
				return nil, nil, slurpreader.Error{Cause: slurpreader.ErrEOF}
			}

			return nil, nil, err
		}

		switch {
		case expr.Equal(pairDelim):
			dotted = true
		case dotted:
			tail = expr
		default:
			vals = append(vals, expr)
		}
	}

	return vals, tail, nil
}

func readComment(rd *slurpreader.Reader, _ rune) (slurpcore.Any, error) {
	for {
		r, err := rd.NextRune()
		if err != nil || r == '\n' {
			break
		}
	}

	return nil, slurpreader.ErrSkip
}

func annotateErr(rd *slurpreader.Reader, err error, beginPos slurpreader.Position, form string) error {
	if err == io.EOF || err == slurpreader.ErrSkip {
		return err
	}

	readErr := slurpreader.Error{}
	if e, ok := err.(slurpreader.Error); ok {
		readErr = e
	} else {
		readErr = slurpreader.Error{Cause: err}
	}

	readErr.Form = form
	readErr.Begin = beginPos
	readErr.End = rd.Position()
	return readErr
}

package fileinput

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Location names a line and column in a Source.
type Location struct {
	Name string
	Line int
	Col  int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v:%v", loc.Name, loc.Line, loc.Col) }

// Source is a named, fully read, program text.
type Source struct {
	Name string
	Text []byte
}

// Open reads the named file into a Source.
func Open(path string) (Source, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return Source{}, err
	}
	return Source{Name: path, Text: text}, nil
}

// ReadSource reads all of r into a Source; if name is empty, any Name() of r
// is used instead.
func ReadSource(name string, r io.Reader) (Source, error) {
	if name == "" {
		name = nameOf(r)
	}
	text, err := io.ReadAll(r)
	return Source{Name: name, Text: text}, err
}

// Locate returns the 1-based line and column of a byte offset; offsets past
// the end of Text locate just past its last byte.
func (src Source) Locate(offset int) Location {
	if offset > len(src.Text) {
		offset = len(src.Text)
	}
	if offset < 0 {
		offset = 0
	}
	head := src.Text[:offset]
	loc := Location{Name: src.Name, Line: 1 + bytes.Count(head, []byte{'\n'})}
	loc.Col = 1 + offset - (bytes.LastIndexByte(head, '\n') + 1)
	return loc
}

// Input implements sequential reading through a Queue of input streams,
// closing each one that implements io.Closer once it has been exhausted.
type Input struct {
	Queue []io.Reader
}

// ReadAll reads every queued stream in order, returning their concatenated
// content. Reading stops at the first error, which is annotated with the name
// of the failing stream.
func (in *Input) ReadAll() ([]byte, error) {
	var buf bytes.Buffer
	for len(in.Queue) > 0 {
		r := in.Queue[0]
		in.Queue = in.Queue[1:]
		_, err := buf.ReadFrom(r)
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			return buf.Bytes(), fmt.Errorf("%v: %w", nameOf(r), err)
		}
	}
	return buf.Bytes(), nil
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

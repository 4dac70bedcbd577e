/*
Copyright (c) 2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package validator

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"strings"
)

// Traces are a stream of JSON events, gzip compressed when the file name
// ends in .gz.
func isCompressed(name string) bool {
	return strings.HasSuffix(name, ".gz")
}

type writer struct {
	file io.WriteCloser
	buf  *bufio.Writer
	gz   *gzip.Writer
	enc  *json.Encoder
}

func newWriter(file io.WriteCloser, name string, bufferSize int) *writer {
	w := &writer{file: file, buf: bufio.NewWriterSize(file, bufferSize)}
	if isCompressed(name) {
		w.gz = gzip.NewWriter(w.buf)
		w.enc = json.NewEncoder(w.gz)
	} else {
		w.enc = json.NewEncoder(w.buf)
	}
	return w
}

func (w *writer) write(ev Event) error {
	return w.enc.Encode(ev)
}

func (w *writer) close() error {
	var err error
	if w.gz != nil {
		err = w.gz.Close()
	}
	if ferr := w.buf.Flush(); err == nil {
		err = ferr
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Decoder reads events from a trace.
type Decoder struct {
	dec *json.Decoder
	gz  *gzip.Reader
}

func NewDecoder(r io.Reader, name string) (*Decoder, error) {
	d := &Decoder{}
	if isCompressed(name) {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		d.gz = gz
		r = gz
	}
	d.dec = json.NewDecoder(r)
	return d, nil
}

// Decode returns io.EOF at the end of the trace.
func (d *Decoder) Decode(ev *Event) error {
	return d.dec.Decode(ev)
}

func (d *Decoder) Close() error {
	if d.gz != nil {
		return d.gz.Close()
	}
	return nil
}

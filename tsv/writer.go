// Package tsv writes spot records as header-less tab-separated rows.
package tsv

import (
	"bufio"
	"io"
	"strings"

	"github.com/kbukum/kanko/errors"
	"github.com/kbukum/kanko/spot"
)

// specials are the characters that force a field into quotes.
const specials = "\t\"\r\n"

// Writer emits one line per record with the columns of spot.Columns.
// A field is quoted only when it contains a tab, a double quote, a carriage
// return or a line feed; quotes inside it are doubled. Leading or trailing
// whitespace, including U+3000, is written as is. Lines end in "\n".
type Writer struct {
	w    *bufio.Writer
	rows int
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write buffers one record. Buffered rows reach the underlying writer on
// Flush or when the buffer fills. Once the underlying writer has failed,
// every later Write and Flush fails too.
func (w *Writer) Write(r spot.Record) error {
	fields := r.Values()
	for i, f := range fields {
		fields[i] = quoteField(f)
	}
	if _, err := w.w.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
		return errors.Output(err)
	}
	w.rows++
	return nil
}

// Flush writes buffered rows and reports any write error seen so far.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return errors.Output(err)
	}
	return nil
}

// Rows returns the number of records written.
func (w *Writer) Rows() int {
	return w.rows
}

func quoteField(f string) string {
	if !strings.ContainsAny(f, specials) {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

package printer

import (
	"bytes"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// DefaultWidth is the slip width in characters at the standard font
const DefaultWidth = 32

// slipFeed is the paper fed by GS V A before cutting a slip
const slipFeed = 0x10

// Document builds an ESC/POS byte stream for thermal printers.
type Document struct {
	buf bytes.Buffer
}

// NewDocument creates a new ESC/POS document that starts with a printer reset.
func NewDocument() *Document {
	d := &Document{}
	d.Init()
	return d
}

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// Write appends raw text as-is, without a trailing line feed.
func (d *Document) Write(s string) *Document {
	d.buf.WriteString(s)
	return d
}

// FeedCut sends GS V A n: feed n dots, then cut.
func (d *Document) FeedCut(n byte) *Document {
	d.buf.Write([]byte{GS, 'V', 'A', n})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// EncodePayload wraps plain slip text for the printer: initialize, the UTF-8
// text, three line feeds, then feed-and-cut. Pure function of text.
func EncodePayload(text string) []byte {
	return NewDocument().
		Write(text).
		FeedLines(3).
		FeedCut(slipFeed).
		Bytes()
}

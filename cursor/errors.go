package cursor

import "fmt"

// UnexpectedEOF is returned when a read asks for more bytes than remain
// in the underlying buffer.
type UnexpectedEOF struct {
	Need   int
	Have   int
	Offset int
}

func (e UnexpectedEOF) Error() string {
	return fmt.Sprintf("unexpected eof at offset %d: need %d byte(s), have %d", e.Offset, e.Need, e.Have)
}

// CompactOverflow is returned when a decoded compact integer does not fit
// the width the caller declared for it.
type CompactOverflow struct {
	DeclaredWidth int
	ValueBytes    []byte
}

func (e CompactOverflow) Error() string {
	return fmt.Sprintf("compact value does not fit declared width of %d bits (%d raw byte(s))", e.DeclaredWidth, len(e.ValueBytes))
}

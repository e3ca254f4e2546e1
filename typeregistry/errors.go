package typeregistry

import (
	"fmt"
	"strings"
)

// TypeNotFound is returned by Resolve when an id has no entry in the
// registry — always a metadata corruption or a decoder bug, never a
// legitimate runtime condition.
type TypeNotFound struct {
	ID TypeID
}

func (e TypeNotFound) Error() string {
	return fmt.Sprintf("type %d not found in registry", e.ID)
}

// ExpectedVariantType is returned by AsVariant when the id resolves to
// a definition of some other kind.
type ExpectedVariantType struct {
	ID      TypeID
	Got     DefKind
	Rendered string
}

func (e ExpectedVariantType) Error() string {
	if e.Rendered != "" {
		return fmt.Sprintf("type %d (%s) is not a variant type, got kind %d", e.ID, e.Rendered, e.Got)
	}
	return fmt.Sprintf("type %d is not a variant type, got kind %d", e.ID, e.Got)
}

func renderPath(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return strings.Join(path, "::")
}

// Package parsers reads raw reference definitions and reads and writes the
// compiled table format.
package parsers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/ersonp/entref/internal/domain/entities"
)

// Parser defines the interface for decoding raw definitions.
type Parser interface {
	Parse(r io.Reader) (map[string]entities.RawReference, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}

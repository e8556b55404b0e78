package parsers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ersonp/entref/internal/domain/entities"
)

// JSONParser parses the W3C entities.json layout:
//
//	{"&AElig;": {"codepoints": [198], "characters": "Æ"}, ...}
type JSONParser struct{}

// Parse reads the whole document and returns the definition mapping.
// A key that appears twice is a MalformedInputError.
func (p *JSONParser) Parse(r io.Reader) (map[string]entities.RawReference, error) {
	decoder := json.NewDecoder(r)

	tok, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("parsing JSON: expected an object of references")
	}

	refs := make(map[string]entities.RawReference)
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing JSON: unexpected token %v", tok)
		}

		var ref entities.RawReference
		if err := decoder.Decode(&ref); err != nil {
			return nil, fmt.Errorf("parsing JSON: value of %q: %w", key, err)
		}

		if _, seen := refs[key]; seen {
			return nil, fmt.Errorf("parsing JSON: %w", &entities.MalformedInputError{Key: key, Reason: "duplicate key"})
		}
		refs[key] = ref
	}

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	return refs, nil
}

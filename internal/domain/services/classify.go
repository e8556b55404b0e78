// Package services contains the table compiler and the build orchestration around it.
package services

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/ersonp/entref/internal/domain/entities"
)

// Classify splits raw definitions into base and full records.
// Keys are visited in sorted order so the output does not depend on map iteration.
func Classify(raw map[string]entities.RawReference) (base, full []*entities.Record, err error) {
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		record, err := classifyOne(key, raw[key])
		if err != nil {
			return nil, nil, err
		}

		if record.Group == entities.GroupFull {
			full = append(full, record)
		} else {
			base = append(base, record)
		}
	}

	return base, full, nil
}

// classifyOne builds a single record from a marked key.
func classifyOne(key string, ref entities.RawReference) (*entities.Record, error) {
	name, ok := strings.CutPrefix(key, entities.Marker)
	if !ok {
		return nil, &entities.MalformedInputError{Key: key, Reason: "missing leading " + entities.Marker}
	}

	group := entities.GroupBase
	if trimmed, ok := strings.CutSuffix(name, entities.Terminator); ok {
		name = trimmed
		group = entities.GroupFull
	}

	if name == "" {
		return nil, &entities.MalformedInputError{Key: key, Reason: "empty name"}
	}

	codepoints, err := toCodepoints(ref.Codepoints)
	if err != nil {
		return nil, &entities.MalformedInputError{Key: key, Reason: err.Error()}
	}

	return entities.NewRecord(name, group, codepoints...), nil
}

// toCodepoints validates the count and range of raw codepoints.
func toCodepoints(raw []int) ([]rune, error) {
	if len(raw) < entities.MinCodepoints || len(raw) > entities.MaxCodepoints {
		return nil, fmt.Errorf("expected %d or %d codepoints, got %d",
			entities.MinCodepoints, entities.MaxCodepoints, len(raw))
	}

	codepoints := make([]rune, len(raw))
	for i, cp := range raw {
		if cp < 0 || cp > unicode.MaxRune {
			return nil, fmt.Errorf("codepoint %d out of range", cp)
		}
		codepoints[i] = rune(cp)
	}

	return codepoints, nil
}

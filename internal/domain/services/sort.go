package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ersonp/entref/internal/domain/entities"
)

// CompareByName orders records by ordinal comparison of their names.
// Go string comparison is bytewise, which for UTF-8 is codepoint order.
func CompareByName(a, b *entities.Record) int {
	return strings.Compare(a.Name, b.Name)
}

// CompareByCode orders records by codepoints:
//  1. first codepoint;
//  2. two single-codepoint records with equal first codepoints are equal;
//  3. two pairs compare on the second codepoint;
//  4. otherwise the shorter sequence sorts first.
func CompareByCode(a, b *entities.Record) int {
	ca, cb := a.Codepoints, b.Codepoints

	if c := cmp.Compare(ca[0], cb[0]); c != 0 {
		return c
	}

	switch {
	case len(ca) == 1 && len(cb) == 1:
		return 0
	case len(ca) == 2 && len(cb) == 2:
		return cmp.Compare(ca[1], cb[1])
	default:
		return cmp.Compare(len(ca), len(cb))
	}
}

// SortByName returns a name-ordered copy of records.
// A name repeated within the group is reported as a DuplicateNameError.
func SortByName(group entities.Group, records []*entities.Record) ([]*entities.Record, error) {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, CompareByName)

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Name == sorted[i].Name {
			return nil, &entities.DuplicateNameError{Group: group, Name: sorted[i].Name}
		}
	}

	return sorted, nil
}

// SortByCode returns a codepoint-ordered copy of byName.
// The sort is stable, so records with equal codepoints keep their name order.
func SortByCode(byName []*entities.Record) []*entities.Record {
	sorted := slices.Clone(byName)
	slices.SortStableFunc(sorted, CompareByCode)
	return sorted
}

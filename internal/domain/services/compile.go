package services

import (
	"fmt"

	"github.com/ersonp/entref/internal/domain/entities"
)

// Compile turns raw definitions into indexed base and full tables.
// It has no side effects outside the records it creates.
func Compile(raw map[string]entities.RawReference) (*entities.Tables, error) {
	base, full, err := Classify(raw)
	if err != nil {
		return nil, fmt.Errorf("classifying references: %w", err)
	}

	baseTable, err := compileGroup(entities.GroupBase, base)
	if err != nil {
		return nil, err
	}

	fullTable, err := compileGroup(entities.GroupFull, full)
	if err != nil {
		return nil, err
	}

	return &entities.Tables{Base: baseTable, Full: fullTable}, nil
}

// compileGroup sorts one group both ways and indexes it.
func compileGroup(group entities.Group, records []*entities.Record) (entities.Table, error) {
	byName, err := SortByName(group, records)
	if err != nil {
		return entities.Table{}, fmt.Errorf("sorting %s references: %w", group, err)
	}

	AssignCodeIndex(SortByCode(byName))

	return entities.Table{Group: group, Records: byName}, nil
}

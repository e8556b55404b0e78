package services

import "github.com/ersonp/entref/internal/domain/entities"

// AssignCodeIndex stamps each record with its position in byCode.
// Running it again on the same order assigns the same values.
func AssignCodeIndex(byCode []*entities.Record) {
	for i, record := range byCode {
		record.CodeIndex = i
	}
}

// Package repository holds the gorm-backed data access for every aggregate.
// Lookups that find nothing return (nil, nil).
package repository

import (
	"context"
	"errors"
	"fmt"

	"shop-service/pkg/database"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when a write hits a unique constraint
var ErrDuplicate = errors.New("duplicate record")

// MissingReferenceError reports ids that do not exist in a lookup table
type MissingReferenceError struct {
	Table string
	IDs   []uint
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s: unknown ids %v", e.Table, e.IDs)
}

func translate(err error) error {
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func first[T any](q *gorm.DB) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func exists(q *gorm.DB) (bool, error) {
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// checkIDs verifies every id exists in table
func checkIDs(ctx context.Context, db *gorm.DB, table string, ids []uint) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	var found []uint
	if err := db.WithContext(ctx).Table(table).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}
	seen := make(map[uint]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return &MissingReferenceError{Table: table, IDs: missing}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// nullable adds an "IS NULL" or equality condition for an optional id
func nullable(q *gorm.DB, column string, v *uint) *gorm.DB {
	if v == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *v)
}

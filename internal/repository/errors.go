// Package repository provides persistence implementations for users,
// sessions and ledgers on PostgreSQL and MongoDB.
package repository

import (
	"errors"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	// ErrNotFound is returned when a lookup completes without a matching record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness rule
	// (email, session owner, transaction title).
	ErrDuplicate = errors.New("duplicate record")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

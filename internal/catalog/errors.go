package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("catalog: not found")

	// ErrConflict is returned when a write would break a catalog rule,
	// such as deleting a category that still has products.
	ErrConflict = errors.New("catalog: conflict")

	ErrCouponExpired  = errors.New("catalog: coupon expired")
	ErrCouponInactive = errors.New("catalog: coupon inactive")
)

// isNotFound recognizes "no rows" from bun and from the generic repositories.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// notFound maps repository misses to ErrNotFound and leaves other errors intact.
func notFound(err error) error {
	if isNotFound(err) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation recognizes unique constraint failures from SQLite and
// PostgreSQL.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// writeError wraps a failed insert or update, reporting duplicates as ErrConflict.
func writeError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %v", ErrConflict, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

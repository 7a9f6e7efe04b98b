package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation reports a duplicate key error.
func IsUniqueViolation(err error) bool { return pqCode(err) == codeUniqueViolation }

// IsForeignKeyViolation reports a missing referenced row.
func IsForeignKeyViolation(err error) bool { return pqCode(err) == codeForeignKeyViolation }

// IsInvalidText reports a malformed literal such as a bad uuid.
func IsInvalidText(err error) bool { return pqCode(err) == codeInvalidText }

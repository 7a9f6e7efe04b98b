// Package access holds the visibility and ownership rules shared by every
// resource repository.
//
// A resource is visible to a principal when the principal owns it or it is
// public; it is writable only by its owner. Resources without a public flag
// use the ownership rule for both. The same rules are expressed twice: as SQL
// predicates for repositories and as plain functions for in-process checks.
package access

import (
	"fmt"
	"strings"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Columns names the owner and (optional) public columns of a table, already
// qualified with an alias when needed.
type Columns struct {
	Owner  string
	Public string
}

// Predicate is a SQL boolean expression plus its positional arguments.
type Predicate struct {
	SQL  string
	Args []any
}

// Scope selects which rows a list query returns.
type Scope string

const (
	ScopeVisible Scope = "visible"
	ScopeMine    Scope = "mine"
	ScopePublic  Scope = "public"
)

// ParseScope accepts "", "visible", "mine" and "public".
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeVisible:
		return ScopeVisible, nil
	case ScopeMine:
		return ScopeMine, nil
	case ScopePublic:
		return ScopePublic, nil
	default:
		return "", apperr.Validation("validation failed", map[string]string{"scope": "must be one of: visible mine public"})
	}
}

// ReadScope returns the visibility predicate with its placeholder numbered next.
func ReadScope(p Principal, cols Columns, next int) Predicate {
	if cols.Public == "" {
		return WriteScope(p, cols, next)
	}
	return Predicate{
		SQL:  fmt.Sprintf("(%s = $%d OR %s = true)", cols.Owner, next, cols.Public),
		Args: []any{p.ID},
	}
}

// WriteScope returns the ownership predicate with its placeholder numbered next.
func WriteScope(p Principal, cols Columns, next int) Predicate {
	return Predicate{
		SQL:  fmt.Sprintf("%s = $%d", cols.Owner, next),
		Args: []any{p.ID},
	}
}

// ListScope narrows a list query. ScopePublic still only returns rows the
// principal can read.
func ListScope(p Principal, cols Columns, scope Scope, next int) Predicate {
	switch scope {
	case ScopeMine:
		return WriteScope(p, cols, next)
	case ScopePublic:
		if cols.Public == "" {
			return Predicate{SQL: "false"}
		}
		return Predicate{SQL: cols.Public + " = true"}
	default:
		return ReadScope(p, cols, next)
	}
}

// CanRead reports whether p may see a resource.
func CanRead(p Principal, owner string, public bool) bool {
	return CanWrite(p, owner) || public
}

// CanWrite reports whether p may mutate a resource.
func CanWrite(p Principal, owner string) bool {
	return p.ID != "" && p.ID == owner
}

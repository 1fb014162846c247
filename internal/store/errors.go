// Package store implements the repositories over PostgreSQL. All association
// tables are managed here through explicit join-row inserts and deletes.
package store

import "errors"

// ErrNotFound is returned when a referenced user, job or resume is absent.
var ErrNotFound = errors.New("record not found")

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

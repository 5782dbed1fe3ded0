package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Callers test it with
// errors.Is; wrapped messages name the entity.
var ErrNotFound = errors.New("not found")

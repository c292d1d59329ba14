package repositories

import "errors"

// ErrRecordNotFound is returned by every repository when no row matches the
// id and owner given. Drivers map their own "no rows" errors onto it.
var ErrRecordNotFound = errors.New("record not found")

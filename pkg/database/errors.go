package database

import "errors"

// ErrNotReady indicates the connection pool has not completed startup
// verification yet.
var ErrNotReady = errors.New("database not ready")

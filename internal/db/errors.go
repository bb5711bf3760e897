package db

import "errors"

// ErrLookupStoreDisabled is returned by New when no DATABASE_URL is configured.
var ErrLookupStoreDisabled = errors.New("lookup store disabled: DATABASE_URL not set")

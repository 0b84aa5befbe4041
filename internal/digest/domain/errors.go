package domain

import "errors"

// ErrNotCached is returned on a digest cache miss.
var ErrNotCached = errors.New("digest not cached")

package core

import "errors"

// ErrNotFound is the only hard failure the planning core knows: an
// identifier that was expected to dereference an existing entity did not.
// Everything else (unknown product ids in quantities, empty inputs,
// unmatched overrides) is absorbed silently and produces empty or zero
// results — the dashboard must never crash over malformed plan data.
var ErrNotFound = errors.New("not found")

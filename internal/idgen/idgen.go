package idgen

import "github.com/google/uuid"

// NewFunc generates run identifiers. Tests replace it to get stable ids.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new run identifier.
func New() string { return NewFunc() }

package ir

import "errors"

// ErrInvalidModule indicates a module that is not structurally valid.
var ErrInvalidModule = errors.New("invalid module")

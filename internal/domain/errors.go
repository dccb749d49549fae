package domain

import "errors"

// ErrRoleNotFound is returned by role stores when an identity has no role record.
var ErrRoleNotFound = errors.New("role assignment not found")

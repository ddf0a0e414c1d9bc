package sdk

import "github.com/agentcat/sdk/catalog"

// Error aliases the catalog error type so callers branching on coded errors
// do not need a second import.
type Error = catalog.Error

// NotFoundError aliases the catalog not-found error type.
type NotFoundError = catalog.NotFoundError

// IsNotFound reports whether err indicates an entity that does not exist.
func IsNotFound(err error) bool {
	return catalog.IsNotFound(err)
}

// ErrorCode returns the catalog error code carried by err, or "" when err
// carries none.
func ErrorCode(err error) string {
	return catalog.ErrorCode(err)
}

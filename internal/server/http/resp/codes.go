// Package resp holds the stable machine-readable codes returned in error
// and status bodies.
package resp

const (
	CodeBadRequest    = "bad_request"
	CodeNotFound      = "not_found"
	CodeInternalError = "internal_error"
	CodeQueued        = "queued"
	CodeAccepted      = "accepted"
)

// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting SQL errors. ErrNotFound covers every "row does not exist"
// case; ErrReferenced signals that a reference row (capability type,
// feature, equipment type, space type, city) cannot be deleted because
// attachments or facilities still point at it.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrReferenced is returned when a delete cannot be performed because
// other rows still reference the target. Handlers should translate this
// into an HTTP 409 response.
var ErrReferenced = errors.New("still referenced")

// ErrCityMismatch is returned when a facility is created or updated with
// an address that belongs to a different city. Handlers should translate
// this into an HTTP 400 response.
var ErrCityMismatch = errors.New("address city must match facility city")

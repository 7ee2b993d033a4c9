// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// account service and handlers to distinguish between different failure
// scenarios with errors.Is instead of matching driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned when an account insert collides with the
// unique index on user_email. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrAccountNotFound is returned when no account row matches the given
// id or email. The login path also reuses it for a failed password
// check so that both failures are indistinguishable to the caller.
var ErrAccountNotFound = errors.New("account not found")

// ErrTokenExists is returned when a token insert collides with an
// existing token id. Token ids are 512-bit digests, so a collision
// means the entropy source is broken; callers fail the request instead
// of retrying.
var ErrTokenExists = errors.New("token already exists")

// ErrTokenNotFound is returned when a token lookup misses, either
// because the token never existed or because its TTL elapsed and the
// store dropped it. The two cases are deliberately not distinguishable.
var ErrTokenNotFound = errors.New("token not found")

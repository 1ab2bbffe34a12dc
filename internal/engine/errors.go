package engine

import "errors"

var (
	// ErrEmptyPayload is reported when the top-level comment payload is
	// entirely absent. Individual malformed entries never produce it.
	ErrEmptyPayload = errors.New("comment payload is absent")

	// ErrEmptyContent rejects blank submissions before any network call.
	ErrEmptyContent = errors.New("content is empty")

	// ErrNotAuthorized means the permission gate refused an edit/delete.
	ErrNotAuthorized = errors.New("viewer may not manage this node")

	// ErrIdentityUnresolved refuses mutations that cannot be attributed
	// to a resolvable viewer identity.
	ErrIdentityUnresolved = errors.New("viewer identity is not resolved")

	// ErrMutationInFlight rejects a second like toggle on a node whose
	// first call has not resolved yet.
	ErrMutationInFlight = errors.New("mutation already in flight for node")

	ErrNodeNotFound = errors.New("node not found in comment tree")
)

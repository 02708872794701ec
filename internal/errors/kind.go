package errors

import (
	"context"
	"errors"
)

// Kind is the user-facing failure category used to pick a recovery path.
type Kind string

const (
	KindNone               Kind = ""
	KindAuth               Kind = "AuthError"
	KindProfile            Kind = "ProfileError"
	KindAuthorization      Kind = "AuthorizationError"
	KindTransientNetwork   Kind = "TransientNetworkError"
	KindValidation         Kind = "ValidationError"
	KindUnexpectedResponse Kind = "UnexpectedResponse"
)

// KindOf classifies err for a consumer call (any page other than the profile fetch).
// 401 always maps to KindAuth so that every page converges on the same recovery.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransientNetwork
	}
	switch GetCode(err) {
	case ErrCodeUnauthenticated:
		return KindAuth
	case ErrCodeForbidden:
		return KindAuthorization
	case ErrCodeTransient:
		return KindTransientNetwork
	case ErrCodeValidation:
		return KindValidation
	default:
		return KindUnexpectedResponse
	}
}

// ProfileKindOf classifies a profile fetch failure. Everything that is not a
// connectivity problem invalidates the session.
func ProfileKindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if KindOf(err) == KindTransientNetwork {
		return KindTransientNetwork
	}
	return KindProfile
}

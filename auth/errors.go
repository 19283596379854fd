package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrExistingUsername   = errors.New("account already exists")
	ErrExistingEmail      = errors.New("account already exists")
	ErrRoleNotPermitted   = errors.New("role not permitted for self registration")
	ErrNotFound           = errors.New("account not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("credentials do not match")
)

// Kind groups errors by how a caller is expected to recover from them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "invalid"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindTimeout:
		return "timeout"
	default:
		return "error"
	}
}

func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrInvalidPassword):
		return KindValidation
	case errors.Is(err, ErrExistingUsername), errors.Is(err, ErrExistingEmail):
		return KindConflict
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidCredentials):
		return KindAuth
	case errors.Is(err, ErrRoleNotPermitted):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTimeout
	default:
		return KindInternal
	}
}

func cancelled(err error, operation string) error {
	return oops.Code("AUTH_REQUEST_CANCELLED").
		With("operation", operation).
		Wrap(err)
}

// logError logs err with its oops code and context when it carries them.
func logError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{"error", oopsErr.Error()}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
		return
	}
	logger.Error(msg, "error", err)
}

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

type service struct {
	accounts   Repository
	events     Events
	hasher     PasswordHasher
	dummySalt  []byte
	logger     *slog.Logger
	allowAdmin bool
}

type Option func(*service)

func WithHasher(h PasswordHasher) Option {
	return func(s *service) { s.hasher = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *service) { s.logger = l }
}

// WithAdminRegistration controls whether callers may register themselves
// with the admin role. It is allowed by default.
func WithAdminRegistration(allow bool) Option {
	return func(s *service) { s.allowAdmin = allow }
}

func NewService(accounts Repository, events Events, opts ...Option) Service {
	svc := &service{
		accounts:   accounts,
		events:     events,
		hasher:     NewArgon2idHasher(DefaultHashParams),
		logger:     slog.Default(),
		allowAdmin: true,
	}
	for _, opt := range opts {
		opt(svc)
	}

	// unknown usernames are hashed against this salt so both login failures
	// cost the same as a real verification
	salt, err := svc.hasher.NewSalt()
	if err != nil {
		salt = make([]byte, DefaultHashParams.SaltLen)
	}
	svc.dummySalt = salt
	return svc
}

func (svc *service) RegisterAccount(ctx context.Context, r registerAccountRequest) (view AccountView, err error) {
	defer func() { recordRegistration(err) }()

	c, err := Validate(r)
	if err != nil {
		svc.logger.InfoContext(ctx, "registration rejected", "reason", KindOf(err).String(), "error", err)
		return AccountView{}, err
	}

	if c.Role == RoleAdmin && !svc.allowAdmin {
		svc.logger.WarnContext(ctx, "registration rejected", "reason", "role", "username", c.Username)
		return AccountView{}, ErrRoleNotPermitted
	}

	if err := svc.verifyNotInUse(c.Username, c.Email); err != nil {
		svc.logger.InfoContext(ctx, "registration rejected", "reason", KindOf(err).String(), "username", c.Username)
		return AccountView{}, err
	}

	if err := ctx.Err(); err != nil {
		return AccountView{}, cancelled(err, "hash password")
	}

	salt, err := svc.hasher.NewSalt()
	if err != nil {
		logError(svc.logger, "registration failed", err)
		return AccountView{}, err
	}

	acc := &Account{
		ID: NewID(),
		Credentials: Credentials{
			Username:     c.Username,
			Email:        c.Email,
			Salt:         salt,
			PasswordHash: svc.hasher.Hash(c.Password, salt),
		},
		Role:      c.Role,
		CreatedAt: time.Now().UTC(),
	}

	if err := ctx.Err(); err != nil {
		return AccountView{}, cancelled(err, "store account")
	}

	// another registration may have claimed the identity while we were hashing
	if err := svc.accounts.Store(acc); err != nil {
		if KindOf(err) == KindConflict {
			svc.logger.InfoContext(ctx, "registration rejected", "reason", KindOf(err).String(), "username", c.Username)
			return AccountView{}, err
		}
		err = oops.Code("AUTH_STORE_FAILED").With("username", c.Username).Wrap(err)
		logError(svc.logger, "registration failed", err)
		return AccountView{}, err
	}

	svc.events.AccountCreated(string(acc.ID), acc.Credentials.Username, acc.Credentials.Email)
	return acc.View(), nil
}

func (svc *service) ValidateCredentials(ctx context.Context, r validateCredentialsRequest) (view AccountView, err error) {
	defer func() { recordLogin(err) }()

	if err := ctx.Err(); err != nil {
		return AccountView{}, cancelled(err, "validate credentials")
	}

	acc, err := svc.accounts.FindByName(r.Username)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			err = oops.Code("AUTH_LOOKUP_FAILED").Wrap(err)
			logError(svc.logger, "login failed", err)
			return AccountView{}, err
		}
		svc.hasher.Hash(r.Password, svc.dummySalt)
		svc.logger.InfoContext(ctx, "login failed", "reason", "unknown user")
		return AccountView{}, ErrUserNotFound
	}

	if !hashMatchesPassword(svc.hasher, acc.Credentials, r.Password) {
		svc.logger.InfoContext(ctx, "login failed", "reason", "password mismatch", "username", acc.Credentials.Username)
		return AccountView{}, ErrInvalidCredentials
	}

	return acc.View(), nil
}

func (svc *service) GetAccount(ctx context.Context, id ID) (AccountView, error) {
	if err := ctx.Err(); err != nil {
		return AccountView{}, cancelled(err, "get account")
	}

	acc, err := svc.accounts.FindByID(id)
	if err != nil {
		return AccountView{}, err
	}
	return acc.View(), nil
}

func (svc *service) verifyNotInUse(username string, email string) error {
	if u, err := svc.accounts.FindByName(username); u != nil && err == nil {
		return ErrExistingUsername
	}

	if u, err := svc.accounts.FindByEmail(email); u != nil && err == nil {
		return ErrExistingEmail
	}

	return nil
}

package auth

import "context"

type Service interface {
	RegisterAccount(ctx context.Context, r registerAccountRequest) (AccountView, error)
	ValidateCredentials(ctx context.Context, r validateCredentialsRequest) (AccountView, error)
	GetAccount(ctx context.Context, id ID) (AccountView, error)
}

type Events interface {
	AccountCreated(id string, username string, email string)
}

type Repository interface {
	FindByID(id ID) (*Account, error)
	FindByName(username string) (*Account, error)
	FindByEmail(email string) (*Account, error)
	// Store fails with ErrExistingUsername or ErrExistingEmail, leaving the
	// repository untouched, when either identity is already taken.
	Store(acc *Account) error
	Count() int
}

type registerAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type validateCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

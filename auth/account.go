package auth

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rs/xid"
)

type Account struct {
	ID          ID
	Credentials Credentials
	Role        Role
	CreatedAt   time.Time
}

type ID string

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

//Credentials holds the account's sensitive information
type Credentials struct {
	Username,
	Email string
	Salt,
	PasswordHash []byte
}

// Candidate is a registration request that passed validation. Password is
// still plaintext and must only live until it has been hashed.
type Candidate struct {
	Username string
	Email    string
	Role     Role
	Password string
}

// AccountView is the public representation of an account.
type AccountView struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

const passwordPolicy = "must be 5-24 characters and have at least 1 uppercase, 1 lowercase and 1 special character"

var (
	lowerRegexp   = regexp.MustCompile(`[a-z]`)
	upperRegexp   = regexp.MustCompile(`[A-Z]`)
	specialRegexp = regexp.MustCompile("[ -/:-@\\[-`{-~]")
)

//Validate checks a registration request field by field (username, email, role,
//password) and returns the first violation found
func Validate(r registerAccountRequest) (Candidate, error) {
	c := Candidate{
		Username: strings.TrimSpace(r.Username),
		Email:    strings.TrimSpace(r.Email),
		Role:     Role(strings.TrimSpace(r.Role)),
		Password: r.Password,
	}

	if err := check(ErrInvalidUsername, c.Username,
		validation.Required,
		validation.Length(3, 24),
		is.Alphanumeric,
	); err != nil {
		return Candidate{}, err
	}

	if err := check(ErrInvalidEmail, c.Email,
		validation.Required,
		is.Email,
	); err != nil {
		return Candidate{}, err
	}

	if err := check(ErrInvalidRole, string(c.Role),
		validation.Required,
		validation.In(string(RoleUser), string(RoleAdmin)).Error("must be either user or admin"),
	); err != nil {
		return Candidate{}, err
	}

	if err := check(ErrInvalidPassword, c.Password,
		validation.Required,
		validation.RuneLength(5, 24).Error(passwordPolicy),
		validation.Match(lowerRegexp).Error(passwordPolicy),
		validation.Match(upperRegexp).Error(passwordPolicy),
		validation.Match(specialRegexp).Error(passwordPolicy),
	); err != nil {
		return Candidate{}, err
	}

	return c, nil
}

func check(sentinel error, value string, rules ...validation.Rule) error {
	if err := validation.Validate(value, rules...); err != nil {
		return fmt.Errorf("%w: %s", sentinel, err)
	}
	return nil
}

// View strips the credentials from the account.
func (acc *Account) View() AccountView {
	return AccountView{
		ID:       acc.ID,
		Username: acc.Credentials.Username,
		Email:    acc.Credentials.Email,
		Role:     acc.Role,
	}
}

func (acc *Account) clone() *Account {
	c := *acc
	c.Credentials.Salt = append([]byte(nil), acc.Credentials.Salt...)
	c.Credentials.PasswordHash = append([]byte(nil), acc.Credentials.PasswordHash...)
	return &c
}

func NewID() ID {
	return ID(xid.New().String())
}

func isValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}

// usernames and emails are unique regardless of case
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

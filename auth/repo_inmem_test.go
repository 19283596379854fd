package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(username, email string) *Account {
	return &Account{
		ID:          NewID(),
		Credentials: Credentials{Username: username, Email: email, Salt: []byte{1, 2}, PasswordHash: []byte{3, 4}},
		Role:        RoleUser,
	}
}

func TestAccountRepository_Store(t *testing.T) {
	repo := NewAccountRepository()
	acc := newTestAccount("user", "user@app.com")

	tests := []struct {
		name    string
		acc     *Account
		wantErr error
	}{
		{name: "new account", acc: acc},
		{name: "same username", acc: newTestAccount("user", "other@app.com"), wantErr: ErrExistingUsername},
		{name: "username differs in case", acc: newTestAccount("USER", "other@app.com"), wantErr: ErrExistingUsername},
		{name: "same email", acc: newTestAccount("other", "user@app.com"), wantErr: ErrExistingEmail},
		{name: "email differs in case", acc: newTestAccount("other", "User@App.com"), wantErr: ErrExistingEmail},
		{name: "distinct identity", acc: newTestAccount("other", "other@app.com")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, repo.Store(tt.acc))
		})
	}

	assert.Equal(t, 2, repo.Count())
	stored, err := repo.FindByName("user")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, stored.ID)
	assert.Equal(t, "user@app.com", stored.Credentials.Email)
}

func TestAccountRepository_Find(t *testing.T) {
	repo := NewAccountRepository()
	acc := newTestAccount("Jimi", "Jimi@App.com")
	require.NoError(t, repo.Store(acc))

	byID, err := repo.FindByID(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc, byID)

	byName, err := repo.FindByName("jimi")
	require.NoError(t, err)
	assert.Equal(t, acc, byName)

	byEmail, err := repo.FindByEmail(" jimi@app.com")
	require.NoError(t, err)
	assert.Equal(t, acc, byEmail)

	_, err = repo.FindByID(NewID())
	assert.Equal(t, ErrNotFound, err)
	_, err = repo.FindByName("unknown")
	assert.Equal(t, ErrNotFound, err)
	_, err = repo.FindByEmail("unknown@app.com")
	assert.Equal(t, ErrNotFound, err)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewAccountRepository()
	acc := newTestAccount("user", "user@app.com")
	require.NoError(t, repo.Store(acc))

	acc.Role = RoleAdmin
	acc.Credentials.PasswordHash[0] = 9

	found, err := repo.FindByName("user")
	require.NoError(t, err)
	found.Credentials.Salt[0] = 9

	again, err := repo.FindByName("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, again.Role)
	assert.Equal(t, []byte{1, 2}, again.Credentials.Salt)
	assert.Equal(t, []byte{3, 4}, again.Credentials.PasswordHash)
}

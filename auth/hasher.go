package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"time"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// HashParams are the argon2id cost parameters.
type HashParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

var DefaultHashParams = HashParams{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

// PasswordHasher derives a password hash from a plaintext password and a
// per-account salt. Hash must be deterministic for the same inputs.
type PasswordHasher interface {
	NewSalt() ([]byte, error)
	Hash(password string, salt []byte) []byte
}

type argon2idHasher struct {
	params HashParams
}

func NewArgon2idHasher(params HashParams) PasswordHasher {
	return &argon2idHasher{params: params}
}

func (h *argon2idHasher) NewSalt() ([]byte, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}
	return salt, nil
}

func (h *argon2idHasher) Hash(password string, salt []byte) []byte {
	defer observeHashDuration(time.Now())
	return argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)
}

func hashMatchesPassword(h PasswordHasher, c Credentials, password string) bool {
	computed := h.Hash(password, c.Salt)
	return subtle.ConstantTimeCompare(computed, c.PasswordHash) == 1
}

package auth

import "sync"

// accountRepository keeps accounts in memory. Username and email indexes are
// updated under the same lock as the primary map so Store can check and
// insert atomically.
type accountRepository struct {
	mu       sync.RWMutex
	accounts map[ID]*Account
	byName   map[string]ID
	byEmail  map[string]ID
}

func NewAccountRepository() Repository {
	return &accountRepository{
		accounts: map[ID]*Account{},
		byName:   map[string]ID{},
		byEmail:  map[string]ID{},
	}
}

func (repo *accountRepository) Store(acc *Account) error {
	name := normalizeKey(acc.Credentials.Username)
	email := normalizeKey(acc.Credentials.Email)

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.byName[name]; ok {
		return ErrExistingUsername
	}
	if _, ok := repo.byEmail[email]; ok {
		return ErrExistingEmail
	}

	repo.accounts[acc.ID] = acc.clone()
	repo.byName[name] = acc.ID
	repo.byEmail[email] = acc.ID
	return nil
}

func (repo *accountRepository) FindByID(id ID) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if u, ok := repo.accounts[id]; ok {
		return u.clone(), nil
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindByName(username string) (*Account, error) {
	return repo.findBy(repo.byName, username)
}

func (repo *accountRepository) FindByEmail(email string) (*Account, error) {
	return repo.findBy(repo.byEmail, email)
}

func (repo *accountRepository) Count() int {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return len(repo.accounts)
}

func (repo *accountRepository) findBy(index map[string]ID, key string) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if id, ok := index[normalizeKey(key)]; ok {
		return repo.accounts[id].clone(), nil
	}
	return nil, ErrNotFound
}

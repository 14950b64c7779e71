package store

import (
	"fmt"
	"strings"

	"github.com/frostmere/server/internal/srp"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// Account is one realm account: the SRP salt and verifier derived from the
// password at creation. The password itself is never stored.
type Account struct {
	Name     string
	Salt     [srp.SaltSize]byte
	Verifier [srp.VerifierSize]byte
}

// AccountDB holds accounts and the session keys proven during realm logon.
// The world server reads keys from here when validating CMSG_AUTH_SESSION.
type AccountDB struct {
	accounts cmap.ConcurrentMap[string, *Account]
	keys     cmap.ConcurrentMap[string, [srp.KeySize]byte]

	// autoCreate registers unknown accounts on first logon with the account
	// name as password. Development convenience, off for real deployments.
	autoCreate bool
}

func NewAccountDB(autoCreate bool) *AccountDB {
	return &AccountDB{
		accounts:   cmap.New[*Account](),
		keys:       cmap.New[[srp.KeySize]byte](),
		autoCreate: autoCreate,
	}
}

// Create registers an account.
func (db *AccountDB) Create(name, password string) (*Account, error) {
	salt, err := srp.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("create account %s: %w", name, err)
	}
	acct := &Account{
		Name:     strings.ToUpper(name),
		Salt:     salt,
		Verifier: srp.CalculateVerifier(name, password, salt),
	}
	if !db.accounts.SetIfAbsent(acct.Name, acct) {
		return nil, fmt.Errorf("account %s already exists", name)
	}
	return acct, nil
}

// Lookup finds an account by name. With auto-create on, unknown names are
// registered on the spot.
func (db *AccountDB) Lookup(name string) (*Account, bool) {
	acct, ok := db.accounts.Get(strings.ToUpper(name))
	if ok {
		return acct, true
	}
	if !db.autoCreate {
		return nil, false
	}
	acct, err := db.Create(name, name)
	if err != nil {
		// Lost a create race; the account exists now.
		return db.accounts.Get(strings.ToUpper(name))
	}
	return acct, true
}

// SetSessionKey records the key proven during realm logon.
func (db *AccountDB) SetSessionKey(name string, key [srp.KeySize]byte) {
	db.keys.Set(strings.ToUpper(name), key)
}

// SessionKey returns the last proven session key for an account.
func (db *AccountDB) SessionKey(name string) ([srp.KeySize]byte, bool) {
	return db.keys.Get(strings.ToUpper(name))
}

// Count returns the number of registered accounts.
func (db *AccountDB) Count() int {
	return db.accounts.Count()
}

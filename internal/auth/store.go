package auth

import (
	"encoding/json"
	"fmt"
	"os"
)

// Store holds the user accounts loaded from the users database file.
//
// The file is a flat JSON array of records:
//
//	[{"user": "alice", "password": "$2b$12$...", "active": true}]
//
// It is read once at startup; edits to the file require a restart.
type Store struct {
	users map[string]User
}

// NewStore loads the users database from path.
//
// Parameters:
//   - path: filesystem path to the JSON users file
//
// Returns an error if the file cannot be read or parsed, or if two
// records share a username.
func NewStore(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading users database: %w", err)
	}

	var records []User
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing users database %s: %w", path, err)
	}

	users := make(map[string]User, len(records))
	for _, u := range records {
		if u.Name == "" {
			return nil, fmt.Errorf("users database %s: record with empty user name", path)
		}
		if _, dup := users[u.Name]; dup {
			return nil, fmt.Errorf("users database %s: duplicate user %q", path, u.Name)
		}
		users[u.Name] = u
	}

	return &Store{users: users}, nil
}

// Get returns the named user. Absent and deactivated accounts are
// indistinguishable to callers: both return ErrUnknownUser.
func (s *Store) Get(name string) (User, error) {
	u, ok := s.users[name]
	if !ok || !u.Active {
		return User{}, fmt.Errorf("%w: %s", ErrUnknownUser, name)
	}
	return u, nil
}

// Authenticate verifies a username/password pair against the store.
// Unknown users, inactive users and wrong passwords all collapse to
// ErrInvalidCredentials so the response does not leak which part failed.
func (s *Store) Authenticate(name, password string) (User, error) {
	u, err := s.Get(name)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Count returns the number of loaded accounts, active or not.
func (s *Store) Count() int {
	return len(s.users)
}

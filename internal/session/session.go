package session

import (
	"fmt"
	"strings"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

const (
	KeyParentToken = "parentToken"
	KeyParentID    = "parentId"
	KeyParentName  = "parentName"
	KeyChildToken  = "childToken"
	KeyChildID     = "childId"
	KeyChildName   = "childName"
)

// Backend persists string values by key. Load reports ok=false for a missing key.
type Backend interface {
	Load(key string) (value string, ok bool, err error)
	Save(values map[string]string) error
	Remove(keys ...string) error
}

// Credential is a bearer token plus the identity it was issued for.
type Credential struct {
	Token string
	ID    string
	Name  string
}

// Store reads and writes role credentials through a [Backend].
type Store struct {
	backend Backend
}

// NewStore creates a [Store] over backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Keys returns the token, id and name keys for role.
func Keys(role models.Role) (token, id, name string) {
	if role == models.RoleChild {
		return KeyChildToken, KeyChildID, KeyChildName
	}
	return KeyParentToken, KeyParentID, KeyParentName
}

// Set replaces the credential for role.
func (s *Store) Set(role models.Role, c Credential) error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("%w: empty %s token", shared.ErrInvalidInput, role)
	}

	tokenKey, idKey, nameKey := Keys(role)
	values := map[string]string{tokenKey: c.Token}
	var stale []string
	if c.ID != "" {
		values[idKey] = c.ID
	} else {
		stale = append(stale, idKey)
	}
	if c.Name != "" {
		values[nameKey] = c.Name
	} else {
		stale = append(stale, nameKey)
	}

	if err := s.backend.Save(values); err != nil {
		return fmt.Errorf("failed to save %s credential: %w", role, err)
	}
	if len(stale) == 0 {
		return nil
	}
	if err := s.backend.Remove(stale...); err != nil {
		return fmt.Errorf("failed to reset %s credential: %w", role, err)
	}
	return nil
}

// Get returns the credential for role or [shared.ErrNotAuthenticated] when no token is stored.
func (s *Store) Get(role models.Role) (Credential, error) {
	_, idKey, nameKey := Keys(role)

	token, err := s.Token(role)
	if err != nil {
		return Credential{}, err
	}

	c := Credential{Token: token}
	if c.ID, _, err = s.backend.Load(idKey); err != nil {
		return Credential{}, fmt.Errorf("failed to load %s: %w", idKey, err)
	}
	if c.Name, _, err = s.backend.Load(nameKey); err != nil {
		return Credential{}, fmt.Errorf("failed to load %s: %w", nameKey, err)
	}
	return c, nil
}

// Token returns only the bearer token for role.
func (s *Store) Token(role models.Role) (string, error) {
	tokenKey, _, _ := Keys(role)

	token, ok, err := s.backend.Load(tokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", tokenKey, err)
	}
	if !ok || token == "" {
		return "", fmt.Errorf("%w: no %s token", shared.ErrNotAuthenticated, role)
	}
	return token, nil
}

// Authenticated reports whether a token is stored for role.
func (s *Store) Authenticated(role models.Role) bool {
	_, err := s.Token(role)
	return err == nil
}

// Clear removes every key for role. Clearing an absent credential is not an error.
func (s *Store) Clear(role models.Role) error {
	tokenKey, idKey, nameKey := Keys(role)
	if err := s.backend.Remove(tokenKey, idKey, nameKey); err != nil {
		return fmt.Errorf("failed to clear %s credential: %w", role, err)
	}
	return nil
}

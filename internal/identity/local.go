package identity

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
)

// LocalClient is an in-memory Client for dev and tests. Not for production.
type LocalClient struct {
	mu       sync.Mutex
	accounts map[string]localAccount
}

type localAccount struct {
	digest [32]byte
	name   string
}

// NewLocalClient constructs an empty LocalClient.
func NewLocalClient() *LocalClient {
	return &LocalClient{accounts: make(map[string]localAccount)}
}

// SignUp registers an account in memory.
func (c *LocalClient) SignUp(_ context.Context, email, password, name string) (Identity, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return Identity{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(password) < 8 {
		return Identity{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.accounts[email]; ok {
		return Identity{}, ErrEmailTaken
	}
	c.accounts[email] = localAccount{
		digest: sha256.Sum256([]byte(password)),
		name:   strings.TrimSpace(name),
	}
	return Identity{Email: email, Name: strings.TrimSpace(name)}, nil
}

// SignIn verifies credentials against the in-memory store.
func (c *LocalClient) SignIn(_ context.Context, email, password string) (Identity, error) {
	email = normalizeEmail(email)

	c.mu.Lock()
	account, ok := c.accounts[email]
	c.mu.Unlock()
	if !ok {
		return Identity{}, ErrInvalidCredentials
	}

	digest := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare(digest[:], account.digest[:]) != 1 {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{Email: email, Name: account.name}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ Client = (*LocalClient)(nil)

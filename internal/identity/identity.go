package identity

import (
	"context"
	"errors"
)

// Identity is a verified account as reported by the auth collaborator.
type Identity struct {
	Email string
	Name  string
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

// Client verifies and registers accounts. Password handling lives entirely
// behind this interface; the rest of the service only sees identities.
type Client interface {
	SignUp(ctx context.Context, email, password, name string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Identity, error)
}

package dashboard

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials holds the operator login. The password is kept only as a
// bcrypt hash.
type Credentials struct {
	username     []byte
	passwordHash []byte
}

// NewCredentials builds the operator login. A configured bcrypt hash wins
// over the plaintext password, which is hashed once here.
func NewCredentials(username, password, passwordHash string) (*Credentials, error) {
	if username == "" {
		return nil, errors.New("dashboard username is required")
	}

	hash := []byte(passwordHash)
	if passwordHash == "" {
		if password == "" {
			return nil, errors.New("dashboard password or password hash is required")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash dashboard password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid dashboard password hash: %w", err)
	}

	return &Credentials{
		username:     []byte(username),
		passwordHash: hash,
	}, nil
}

// Check reports whether the submitted login matches. The password is
// always compared so a wrong username takes as long as a wrong password.
func (c *Credentials) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), c.username) == 1
	passOK := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

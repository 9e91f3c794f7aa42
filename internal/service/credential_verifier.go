package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/pkg/config"
)

// CredentialVerifier checks an identifier/secret pair and resolves the
// identity it belongs to.
type CredentialVerifier interface {
	Verify(ctx context.Context, identifier, secret string) (models.Identity, bool)
}

type staticAccount struct {
	identity models.Identity
	hash     []byte
}

// StaticCredentialVerifier accepts a fixed table of accounts. Secrets are
// held only as bcrypt hashes.
type StaticCredentialVerifier struct {
	accounts map[string]staticAccount
}

// NewStaticCredentialVerifier builds the reference verifier holding one
// teacher and one student account.
func NewStaticCredentialVerifier(cfg config.CredentialsConfig) (*StaticCredentialVerifier, error) {
	v := &StaticCredentialVerifier{accounts: make(map[string]staticAccount, 2)}
	if err := v.add(cfg.Teacher, models.RoleTeacher); err != nil {
		return nil, err
	}
	if err := v.add(cfg.Student, models.RoleStudent); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *StaticCredentialVerifier) add(acc config.AccountConfig, role models.Role) error {
	if acc.Identifier == "" || acc.Secret == "" {
		return fmt.Errorf("%s account requires identifier and secret", role)
	}
	if _, exists := v.accounts[acc.Identifier]; exists {
		return fmt.Errorf("duplicate account identifier %q", acc.Identifier)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash %s secret: %w", role, err)
	}
	identity := models.Identity{Role: role, Name: acc.Name, Email: acc.Identifier}
	if role == models.RoleStudent {
		identity.ExternalID = acc.ExternalID
	}
	v.accounts[acc.Identifier] = staticAccount{identity: identity, hash: hash}
	return nil
}

// Verify implements CredentialVerifier.
func (v *StaticCredentialVerifier) Verify(_ context.Context, identifier, secret string) (models.Identity, bool) {
	acc, ok := v.accounts[identifier]
	if !ok {
		return models.Identity{}, false
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(secret)); err != nil {
		return models.Identity{}, false
	}
	return acc.identity, true
}

package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignedURLSigner creates and validates signed download tokens. A token binds
// a resource kind (for example "grades") to an opaque reference and an expiry.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate returns a signed token for the resource.
func (s *SignedURLSigner) Generate(kind, ref string) (string, time.Time, error) {
	if kind == "" || ref == "" {
		return "", time.Time{}, fmt.Errorf("kind and ref required")
	}
	if strings.Contains(kind, ".") {
		return "", time.Time{}, fmt.Errorf("kind must not contain '.'")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedRef := base64.RawURLEncoding.EncodeToString([]byte(ref))
	token := strings.Join([]string{kind, ts, encodedRef, s.sign(kind, ts, encodedRef)}, ".")
	return token, expiresAt, nil
}

// Parse validates a token and returns the embedded resource.
func (s *SignedURLSigner) Parse(token string) (kind, ref string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, fmt.Errorf("invalid token format")
	}
	kind, ts, encodedRef, signature := parts[0], parts[1], parts[2], parts[3]

	expected := s.sign(kind, ts, encodedRef)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", "", time.Time{}, fmt.Errorf("invalid token signature")
	}

	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("invalid timestamp")
	}
	expiresAt = time.Unix(expUnix, 0)
	if s.now().After(expiresAt) {
		return "", "", time.Time{}, fmt.Errorf("token expired")
	}

	rawRef, err := base64.RawURLEncoding.DecodeString(encodedRef)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode ref: %w", err)
	}
	return kind, string(rawRef), expiresAt, nil
}

func (s *SignedURLSigner) sign(kind, ts, encodedRef string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(kind + "|" + ts + "|" + encodedRef))
	return hex.EncodeToString(mac.Sum(nil))
}

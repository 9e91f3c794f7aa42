package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("grades", "1700000000000:pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	kind, ref, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "grades", kind)
	require.Equal(t, "1700000000000:pdf", ref)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("grades", "1:csv")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, _, _, err = signer.Parse(token)
	require.Error(t, err)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("grades", "1:csv")
	require.NoError(t, err)

	tampered := strings.Replace(token, "grades", "lessons", 1)
	_, _, _, err = signer.Parse(tampered)
	require.Error(t, err)

	other := NewSignedURLSigner("other", time.Hour)
	_, _, _, err = other.Parse(token)
	require.Error(t, err)
}

func TestSignedURLSignerRequiresInputs(t *testing.T) {
	signer := NewSignedURLSigner("", time.Hour)
	_, _, err := signer.Generate("grades", "1:csv")
	require.Error(t, err)

	signer = NewSignedURLSigner("secret", time.Hour)
	_, _, err = signer.Generate("", "1:csv")
	require.Error(t, err)
}

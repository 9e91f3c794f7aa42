package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/internal/store"
)

func newSessionService(t *testing.T) (*SessionService, *store.Store) {
	t.Helper()
	verifier, err := NewStaticCredentialVerifier(referenceCredentials())
	require.NoError(t, err)
	st := newTestStore()
	svc := NewSessionService(st, verifier, NewMetricsService(), zap.NewNop(), SessionConfig{Secret: "secret", TTL: time.Hour, Issuer: "test"})
	return svc, st
}

func TestLoginRoutesToRoleDashboard(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, dto.LoginRequest{Identifier: "teacher@ttc.rw", Secret: "password"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, res.Identity.Role)
	assert.Equal(t, models.ViewTeacherDashboard, res.View)
	assert.NotEmpty(t, res.Token)

	res, err = svc.Login(ctx, dto.LoginRequest{Identifier: "student@ttc.rw", Secret: "password"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.Identity.Role)
	assert.Equal(t, "S123", res.Identity.ExternalID)
	assert.Equal(t, models.ViewStudentDashboard, res.View)

	state := svc.Current()
	assert.True(t, state.Entered)
	require.NotNil(t, state.Identity)
	assert.Equal(t, models.RoleStudent, state.Identity.Role)
}

func TestFailedLoginLeavesSessionUnchanged(t *testing.T) {
	svc, st := newSessionService(t)
	ctx := context.Background()

	_, err := svc.EnterAsGuest(ctx)
	require.NoError(t, err)
	before := st.Snapshot()

	for _, req := range []dto.LoginRequest{
		{Identifier: "teacher@ttc.rw", Secret: "nope"},
		{Identifier: "intruder@ttc.rw", Secret: "password"},
		{},
	} {
		_, err := svc.Login(ctx, req)
		assert.Equal(t, "INVALID_CREDENTIALS", errCode(err))
	}

	after := st.Snapshot()
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.Session, after.Session)
}

func TestGuestEntryAndLogout(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	assert.Equal(t, models.ViewWelcome, svc.Current().View)
	assert.False(t, svc.Current().Entered)

	res, err := svc.EnterAsGuest(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, res.Identity.Role)
	assert.Empty(t, res.Identity.ExternalID)
	assert.Equal(t, models.ViewHome, res.View)

	require.NoError(t, svc.Logout(ctx))
	state := svc.Current()
	assert.False(t, state.Entered)
	assert.Nil(t, state.Identity)
	assert.Equal(t, models.ViewWelcome, state.View)
}

func TestValidateTokenTracksActiveSession(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	first, err := svc.EnterAsGuest(ctx)
	require.NoError(t, err)
	claims, identity, err := svc.ValidateToken(first.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, identity.Role)
	assert.NotEmpty(t, claims.SessionID)

	second, err := svc.Login(ctx, dto.LoginRequest{Identifier: "teacher@ttc.rw", Secret: "password"})
	require.NoError(t, err)

	_, _, err = svc.ValidateToken(first.Token)
	assert.Equal(t, "UNAUTHORIZED", errCode(err))

	_, identity, err = svc.ValidateToken(second.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, identity.Role)

	require.NoError(t, svc.Logout(ctx))
	_, _, err = svc.ValidateToken(second.Token)
	assert.Equal(t, "UNAUTHORIZED", errCode(err))
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc, st := newSessionService(t)
	other := NewSessionService(st, nil, nil, nil, SessionConfig{Secret: "other", TTL: time.Hour})

	res, err := other.EnterAsGuest(context.Background())
	require.NoError(t, err)

	_, _, err = svc.ValidateToken(res.Token)
	assert.Equal(t, "UNAUTHORIZED", errCode(err))
	_, _, err = svc.ValidateToken("not-a-token")
	assert.Equal(t, "UNAUTHORIZED", errCode(err))
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc, _ := newSessionService(t)
	res, err := svc.EnterAsGuest(context.Background())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, _, err = svc.ValidateToken(res.Token)
	assert.Equal(t, "UNAUTHORIZED", errCode(err))
}

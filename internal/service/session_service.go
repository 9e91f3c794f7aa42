package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/internal/store"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
)

// SessionConfig defines how session tokens are signed.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// SessionService owns entry into and exit from the portal. Only the token
// bound to the active session id is ever accepted.
type SessionService struct {
	store    *store.Store
	verifier CredentialVerifier
	metrics  *MetricsService
	logger   *zap.Logger
	config   SessionConfig
	now      func() time.Time
	newID    func() string
}

// NewSessionService constructs a SessionService.
func NewSessionService(st *store.Store, verifier CredentialVerifier, metrics *MetricsService, logger *zap.Logger, cfg SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &SessionService{
		store:    st,
		verifier: verifier,
		metrics:  metrics,
		logger:   logger,
		config:   cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Login verifies the credential pair and makes the matching identity active.
// A failed login leaves the session untouched.
func (s *SessionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.SessionResponse, error) {
	if req.Identifier == "" || req.Secret == "" {
		s.metrics.RecordSessionEntry("", false)
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "identifier and secret are required")
	}
	identity, ok := s.verifier.Verify(ctx, req.Identifier, req.Secret)
	if !ok {
		s.metrics.RecordSessionEntry("", false)
		s.logger.Info("login rejected", zap.String("identifier", req.Identifier))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return s.enter(identity)
}

// EnterAsGuest switches the portal into guest mode. It always succeeds.
func (s *SessionService) EnterAsGuest(ctx context.Context) (*dto.SessionResponse, error) {
	return s.enter(models.GuestIdentity())
}

func (s *SessionService) enter(identity models.Identity) (*dto.SessionResponse, error) {
	sessionID := s.newID()
	token, expiresAt, err := s.issueToken(sessionID, identity.Role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	snap, err := s.store.Update(func(current store.Snapshot, _ func() int64) (store.Snapshot, error) {
		current.Session = store.Enter(sessionID, identity)
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSessionEntry(string(identity.Role), true)
	s.logger.Info("session entered",
		zap.String("role", string(identity.Role)),
		zap.String("session_id", sessionID),
		zap.String("view", string(snap.Session.View)),
	)

	return &dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  identity,
		View:      snap.Session.View,
	}, nil
}

// Logout clears the active identity and returns the portal to welcome.
func (s *SessionService) Logout(ctx context.Context) error {
	var previous models.Role
	_, err := s.store.Update(func(current store.Snapshot, _ func() int64) (store.Snapshot, error) {
		previous = current.Session.Role()
		current.Session = store.WelcomeSession()
		return current, nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("session closed", zap.String("role", string(previous)))
	return nil
}

// Current describes the session as it stands.
func (s *SessionService) Current() dto.SessionState {
	sess := s.store.Snapshot().Session
	state := dto.SessionState{Entered: sess.Entered(), View: sess.View}
	if sess.Identity != nil {
		identity := *sess.Identity
		state.Identity = &identity
	}
	return state
}

// ValidateToken parses a session token and resolves it against the active
// session. Tokens from retired sessions are rejected.
func (s *SessionService) ValidateToken(tokenString string) (*models.SessionClaims, models.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, models.Identity{}, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, models.Identity{}, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token claims")
	}

	sess := s.store.Snapshot().Session
	if !sess.Entered() || sess.ID != claims.SessionID {
		return nil, models.Identity{}, appErrors.Clone(appErrors.ErrUnauthorized, "session is no longer active")
	}
	return claims, *sess.Identity, nil
}

func (s *SessionService) issueToken(sessionID string, role models.Role) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.TTL)
	claims := &models.SessionClaims{
		SessionID: sessionID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   sessionID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

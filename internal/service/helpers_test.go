package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/internal/store"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
)

var (
	teacherIdentity = models.Identity{Role: models.RoleTeacher, Name: "Mr. Teacher", Email: "teacher@ttc.rw"}
	studentIdentity = models.Identity{Role: models.RoleStudent, Name: "John Doe", Email: "student@ttc.rw", ExternalID: "S123"}
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.UnixMilli(1_700_000_000_000) }
}

func newTestStore() *store.Store {
	return store.New(store.WithClock(fixedClock()))
}

func enterAs(t *testing.T, st *store.Store, identity models.Identity) {
	t.Helper()
	_, err := st.Update(func(current store.Snapshot, _ func() int64) (store.Snapshot, error) {
		current.Session = store.Enter("sid-"+string(identity.Role)+identity.ExternalID, identity)
		return current, nil
	})
	require.NoError(t, err)
}

func errCode(err error) string {
	if appErr := appErrors.FromError(err); appErr != nil {
		return appErr.Code
	}
	return ""
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

// DeleteByPattern understands the single "*" glob used by dashboard keys.
func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if globMatch(pattern, key) {
			delete(m.entries, key)
		}
	}
	return nil
}

func globMatch(pattern, key string) bool {
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(key, parts[0]) {
		return false
	}
	rest := key[len(parts[0]):]
	for _, part := range parts[1:] {
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return strings.HasSuffix(pattern, "*") || rest == ""
}

package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/airtable"
	"opsdash/gateway"
	"opsdash/gateway/gatewaytest"
)

const secret = "team-secret"

func newStore(t *testing.T) (*Store, *MemoryStorage, *gatewaytest.MemoryStore) {
	t.Helper()
	backend := gatewaytest.NewMemoryStore()
	storage := NewMemoryStorage()
	s := NewStore(secret, storage, gateway.New(backend))
	require.NoError(t, s.Restore(context.Background()))
	return s, storage, backend
}

func TestLoginAllowList(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		pass     string
		want     bool
		wantName string
	}{
		{"plain", "tomas", secret, true, "Tomas"},
		{"accent", "Tomás", secret, true, "Tomás"},
		{"upper and spaces", "  JUAN JOSÉ ", secret, true, "JUAN JOSÉ"},
		{"no accent", "juan jose", secret, true, "Juan Jose"},
		{"accent mismatch still allowed", "juan jóse", secret, true, "Juan Jóse"},
		{"stranger", "maria", secret, false, ""},
		{"wrong password", "tomas", "nope", false, ""},
		{"empty password", "tomas", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, storage, _ := newStore(t)
			ok := s.Login(context.Background(), tt.user, tt.pass)
			assert.Equal(t, tt.want, ok)
			if !tt.want {
				assert.Equal(t, StateUnauthenticated, s.State())
				_, found, _ := storage.Get(context.Background(), keyAuth)
				assert.False(t, found)
				return
			}
			assert.Equal(t, StateAuthenticated, s.State())
			assert.Equal(t, tt.wantName, s.DisplayName())
		})
	}
}

func TestLoginRejectedWhenSecretUnset(t *testing.T) {
	s := NewStore("", NewMemoryStorage(), nil)
	require.NoError(t, s.Restore(context.Background()))
	assert.False(t, s.Login(context.Background(), "tomas", ""))
}

func TestLoginCreatesCloudUserOnce(t *testing.T) {
	s, storage, backend := newStore(t)
	ctx := context.Background()

	require.True(t, s.Login(ctx, "tomas", secret))
	id := s.Identity()
	require.NotEmpty(t, id.UserID)
	assert.Len(t, backend.Records(string(gateway.KindUser)), 1)

	v, _, _ := storage.Get(ctx, keyUserID)
	assert.Equal(t, id.UserID, v)

	require.NoError(t, s.Logout(ctx))
	require.True(t, s.Login(ctx, "  tomas", secret))
	assert.Len(t, backend.Records(string(gateway.KindUser)), 1, "existing user is reused")
	assert.Equal(t, id.UserID, s.Identity().UserID)
}

func TestLoginPicksUpExistingRole(t *testing.T) {
	s, _, backend := newStore(t)
	backend.Seed(string(gateway.KindUser), airtable.Record{ID: "usr1", Fields: airtable.Fields{"Name": "Juan José", "Role": "Sales"}})

	require.True(t, s.Login(context.Background(), "juan josé", secret))
	id := s.Identity()
	assert.Equal(t, "usr1", id.UserID)
	assert.Equal(t, "Sales", id.Role)
}

func TestLoginSurvivesSyncFailure(t *testing.T) {
	s, _, backend := newStore(t)
	backend.Fail(gatewaytest.MethodList, string(gateway.KindUser), errors.New("offline"))

	require.True(t, s.Login(context.Background(), "tomas", secret))
	id := s.Identity()
	assert.Equal(t, StateAuthenticated, id.State)
	assert.Empty(t, id.UserID)
}

func TestUpdateRoleReportsSyncFailure(t *testing.T) {
	s, storage, backend := newStore(t)
	ctx := context.Background()
	require.True(t, s.Login(ctx, "tomas", secret))

	require.NoError(t, s.UpdateRole(ctx, "Designer"))
	users := backend.Records(string(gateway.KindUser))
	require.Len(t, users, 1)
	assert.Equal(t, "Designer", users[0].Fields["Role"])

	backend.FailNext(gatewaytest.MethodUpdate, string(gateway.KindUser), errors.New("503"))
	err := s.UpdateRole(ctx, "Lead")
	assert.ErrorIs(t, err, ErrRoleSyncFailed)
	assert.Equal(t, "Lead", s.Identity().Role, "local role is kept")
	v, _, _ := storage.Get(ctx, keyRole)
	assert.Equal(t, "Lead", v)
}

func TestUpdateRoleRequiresLogin(t *testing.T) {
	s, _, _ := newStore(t)
	assert.ErrorIs(t, s.UpdateRole(context.Background(), "x"), ErrNotAuthenticated)
}

func TestLogoutClearsAndIsIdempotent(t *testing.T) {
	s, storage, _ := newStore(t)
	ctx := context.Background()
	require.True(t, s.Login(ctx, "tomas", secret))

	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Logout(ctx))

	assert.Equal(t, Identity{State: StateUnauthenticated}, s.Identity())
	for _, k := range []string{keyAuth, keyUser, keyRole, keyUserID} {
		_, found, _ := storage.Get(ctx, k)
		assert.False(t, found, k)
	}
}

func TestRestoreFromFileStorage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	fs1, err := NewFileStorage(path)
	require.NoError(t, err)
	s1 := NewStore(secret, fs1, nil)
	assert.Equal(t, StateLoading, s1.State())
	require.NoError(t, s1.Restore(ctx))
	assert.Equal(t, StateUnauthenticated, s1.State())
	require.True(t, s1.Login(ctx, "juan jose", secret))
	require.NoError(t, s1.SetDock(ctx, []string{"tasks", "Calendar"}))

	fs2, err := NewFileStorage(path)
	require.NoError(t, err)
	s2 := NewStore(secret, fs2, nil)
	require.NoError(t, s2.Restore(ctx))
	assert.Equal(t, StateAuthenticated, s2.State())
	assert.Equal(t, "Juan Jose", s2.DisplayName())
	assert.Equal(t, []string{"tasks", "calendar"}, s2.Dock())
}

func TestDockValidation(t *testing.T) {
	s, _, _ := newStore(t)
	assert.Equal(t, DockItems, s.Dock())

	err := s.SetDock(context.Background(), []string{"tasks", "settings"})
	assert.ErrorIs(t, err, ErrUnknownDockItem)
	assert.Equal(t, DockItems, s.Dock())

	require.NoError(t, s.SetDock(context.Background(), []string{"orbit", "orbit", "projects"}))
	assert.Equal(t, []string{"orbit", "projects"}, s.Dock())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "juan jose", NormalizeName("  Juan   JOSÉ "))
	assert.Equal(t, "tomas", NormalizeName("Tomás"))
	assert.True(t, IsAllowed("TOMÁS"))
	assert.False(t, IsAllowed(""))
	assert.Equal(t, "Juan José", DisplayName("juan  josé"))
}

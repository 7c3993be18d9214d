package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Precisa de um PostgreSQL acessível pelas variáveis DB_*; sem DB_HOST o teste é pulado.
func TestPostgresStorage(t *testing.T) {
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST não definido")
	}
	ctx := context.Background()
	db, err := ConnectPostgres(ctx)
	require.NoError(t, err)
	defer db.Close()

	s, err := NewPostgresStorage(ctx, db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Delete(ctx, "test_auth", "test_user") })

	_, ok, err := s.Get(ctx, "test_auth")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "test_auth", "true"))
	require.NoError(t, s.Set(ctx, "test_user", "Tomas"))
	require.NoError(t, s.Set(ctx, "test_user", "Juan José"))

	v, ok, err := s.Get(ctx, "test_user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Juan José", v)

	require.NoError(t, s.Delete(ctx, "test_auth", "test_user"))
	_, ok, err = s.Get(ctx, "test_auth")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, s.Delete(ctx))
}

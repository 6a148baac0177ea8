package store

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/rv-checklist/backend/internal/models"
)

func TestLookupResult(t *testing.T) {
	u := &models.User{ID: "u1"}

	got, err := lookupResult(u, nil, "op")
	require.NoError(t, err)
	assert.Same(t, u, got)

	got, err = lookupResult(nil, pgx.ErrNoRows, "op")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = lookupResult(nil, &pgconn.PgError{Code: pgInvalidTextRepr}, "op")
	require.NoError(t, err, "malformed uuid means no such user")
	assert.Nil(t, got)

	_, err = lookupResult(nil, errors.New("conn reset"), "get user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get user: conn reset")
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "migrations/00001_create_users.sql")
}

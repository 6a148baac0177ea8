package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/rv-checklist/backend/internal/apperr"
	"github.com/ayush/rv-checklist/backend/internal/models"
)

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u, err := s.CreateUser(ctx, &models.User{Email: "a@b.co", PasswordHash: "h", Role: models.RoleUser, IsActive: true})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	_, err = s.CreateUser(ctx, &models.User{Email: "a@b.co"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	byEmail, err := s.GetUserByEmail(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "h", byEmail.PasswordHash)

	missing, err := s.GetUserByEmail(ctx, "A@B.co")
	require.NoError(t, err)
	assert.Nil(t, missing, "email lookup is exact")

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateLastLogin(ctx, u.ID, at))
	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID.LastLoginAt)
	assert.True(t, at.Equal(*byID.LastLoginAt))

	none, err := s.GetUserByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMemoryTemplates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mk := func(name string, typ models.TemplateType, def bool, offset int) *models.ChecklistTemplate {
		tpl := &models.ChecklistTemplate{
			Name: name, Type: typ, IsDefault: def,
			Items:     []models.ChecklistItem{{Title: "x"}},
			CreatedAt: base.Add(time.Duration(offset) * time.Minute),
		}
		require.NoError(t, s.InsertTemplate(ctx, tpl))
		require.NotEmpty(t, tpl.ID)
		return tpl
	}
	a := mk("a", models.TypeMaintenance, true, 2)
	b := mk("b", models.TypeDeparture, false, 1)
	mk("c", models.TypeMaintenance, false, 3)

	all, err := s.ListTemplates(ctx, models.TemplateFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{all[0].Name, all[1].Name, all[2].Name})

	maint, err := s.ListTemplates(ctx, models.TemplateFilter{Type: models.TypeMaintenance})
	require.NoError(t, err)
	assert.Len(t, maint, 2)

	defs, err := s.ListTemplates(ctx, models.TemplateFilter{DefaultOnly: true})
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, a.ID, defs[0].ID)

	// Stored records are isolated from caller mutation.
	a.Items[0].Title = "mutated"
	got, err := s.GetTemplate(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Items[0].Title)

	got.Name = "renamed"
	require.NoError(t, s.ReplaceTemplate(ctx, got))
	again, err := s.GetTemplate(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", again.Name)

	n, err := s.CountTemplates(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, s.DeleteTemplate(ctx, b.ID))
	_, err = s.GetTemplate(ctx, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTemplate(ctx, b.ID), apperr.ErrNotFound)
	assert.ErrorIs(t, s.ReplaceTemplate(ctx, &models.ChecklistTemplate{ID: "ghost"}), apperr.ErrNotFound)
}

func TestMemoryInstances(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ins := func(owner string, status models.InstanceStatus, offset int) *models.ChecklistInstance {
		in := &models.ChecklistInstance{
			Name: owner, OwnerID: owner, Status: status,
			UpdatedAt: base.Add(time.Duration(offset) * time.Minute),
		}
		require.NoError(t, s.InsertInstance(ctx, in))
		return in
	}
	old := ins("u1", models.StatusInProgress, 1)
	recent := ins("u1", models.StatusCompleted, 5)
	ins("u2", models.StatusInProgress, 3)

	mine, err := s.ListInstances(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, recent.ID, mine[0].ID, "most recently updated first")
	assert.Equal(t, old.ID, mine[1].ID)

	done, err := s.ListInstances(ctx, "u1", models.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, recent.ID, done[0].ID)

	none, err := s.ListInstances(ctx, "u3", "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = s.GetInstance(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMemorySaveInstanceRevision(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	in := &models.ChecklistInstance{Name: "trip", OwnerID: "u1", Status: models.StatusInProgress}
	require.NoError(t, s.InsertInstance(ctx, in))

	first, err := s.GetInstance(ctx, in.ID)
	require.NoError(t, err)
	second, err := s.GetInstance(ctx, in.ID)
	require.NoError(t, err)

	first.Name = "first"
	require.NoError(t, s.SaveInstance(ctx, first))
	assert.EqualValues(t, 1, first.Revision)

	second.Name = "second"
	err = s.SaveInstance(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	stored, err := s.GetInstance(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Name)

	require.NoError(t, s.DeleteInstance(ctx, in.ID))
	assert.ErrorIs(t, s.SaveInstance(ctx, stored), apperr.ErrNotFound)
	assert.ErrorIs(t, s.DeleteInstance(ctx, in.ID), apperr.ErrNotFound)
}

// Package checklist implements the template registry, the instance
// lifecycle and default-data seeding, plus their HTTP handlers.
package checklist

import (
	"context"
	"time"

	"github.com/ayush/rv-checklist/backend/internal/models"
)

// TemplateStore defines the interface for template persistence. Get, Replace
// and Delete fail with a NotFound error for unknown ids.
type TemplateStore interface {
	InsertTemplate(ctx context.Context, t *models.ChecklistTemplate) error
	ListTemplates(ctx context.Context, f models.TemplateFilter) ([]models.ChecklistTemplate, error)
	GetTemplate(ctx context.Context, id string) (*models.ChecklistTemplate, error)
	ReplaceTemplate(ctx context.Context, t *models.ChecklistTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
	CountTemplates(ctx context.Context) (int64, error)
}

// Registry manages checklist templates. It performs no authorization; the
// router restricts mutations to admins.
type Registry struct {
	store TemplateStore
	now   func() time.Time
}

func NewRegistry(store TemplateStore) *Registry {
	return &Registry{store: store, now: time.Now}
}

// List returns all templates, optionally of a single type.
func (r *Registry) List(ctx context.Context, typ models.TemplateType) ([]models.ChecklistTemplate, error) {
	return r.store.ListTemplates(ctx, models.TemplateFilter{Type: typ})
}

// ListDefaults returns default templates, optionally of a single type.
func (r *Registry) ListDefaults(ctx context.Context, typ models.TemplateType) ([]models.ChecklistTemplate, error) {
	return r.store.ListTemplates(ctx, models.TemplateFilter{Type: typ, DefaultOnly: true})
}

func (r *Registry) Get(ctx context.Context, id string) (*models.ChecklistTemplate, error) {
	return r.store.GetTemplate(ctx, id)
}

// Count returns the number of stored templates.
func (r *Registry) Count(ctx context.Context) (int64, error) {
	return r.store.CountTemplates(ctx)
}

func (r *Registry) Create(ctx context.Context, def TemplateDef) (*models.ChecklistTemplate, error) {
	now := r.now().UTC()
	items := def.Items
	if items == nil {
		items = []models.ChecklistItem{}
	}
	t := &models.ChecklistTemplate{
		Name:        def.Name,
		Description: def.Description,
		Items:       items,
		IsDefault:   def.IsDefault,
		Type:        def.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.store.InsertTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies patch to the template. Existing instances keep their own
// item snapshots.
func (r *Registry) Update(ctx context.Context, id string, patch TemplatePatch) (*models.ChecklistTemplate, error) {
	t, err := r.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.ReplaceItems {
		t.Items = append([]models.ChecklistItem{}, patch.Items...)
	}
	if patch.IsDefault != nil {
		t.IsDefault = *patch.IsDefault
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	t.UpdatedAt = r.now().UTC()

	if err := r.store.ReplaceTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Registry) Delete(ctx context.Context, id string) error {
	return r.store.DeleteTemplate(ctx, id)
}

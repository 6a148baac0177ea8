package checklist

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayush/rv-checklist/backend/internal/apperr"
	"github.com/ayush/rv-checklist/backend/internal/models"
)

// InstanceStore defines the interface for instance persistence.
// SaveInstance is a compare-and-swap on Revision: it fails with a Conflict
// error when the stored revision differs and advances Revision on success.
type InstanceStore interface {
	InsertInstance(ctx context.Context, in *models.ChecklistInstance) error
	GetInstance(ctx context.Context, id string) (*models.ChecklistInstance, error)
	ListInstances(ctx context.Context, ownerID string, status models.InstanceStatus) ([]models.ChecklistInstance, error)
	SaveInstance(ctx context.Context, in *models.ChecklistInstance) error
	DeleteInstance(ctx context.Context, id string) error
}

// TemplateGetter resolves the template an instance is created from.
type TemplateGetter interface {
	Get(ctx context.Context, id string) (*models.ChecklistTemplate, error)
}

// Manager runs the instance lifecycle. Every operation on an existing
// instance goes through Get, which checks existence and then ownership.
type Manager struct {
	store     InstanceStore
	templates TemplateGetter
	log       *slog.Logger
	now       func() time.Time
}

func NewManager(store InstanceStore, templates TemplateGetter, log *slog.Logger) *Manager {
	return &Manager{store: store, templates: templates, log: log, now: time.Now}
}

var (
	errNotOwner     = apperr.New(apperr.KindForbidden, "You do not have access to this checklist instance")
	errItemsPending = apperr.New(apperr.KindInvalidState, "Cannot complete checklist while items are pending")
	errCompleted    = apperr.New(apperr.KindInvalidState, "Cannot uncomplete an item of a completed checklist; reopen it first")
)

// Create starts a new in-progress instance for userID. With a template id the
// template's items are snapshotted and its name and description fill in
// whatever the caller left empty.
func (m *Manager) Create(ctx context.Context, userID string, ni NewInstance) (*models.ChecklistInstance, error) {
	now := m.now().UTC()
	in := &models.ChecklistInstance{
		Name:        ni.Name,
		Description: ni.Description,
		Items:       []models.InstanceItem{},
		OwnerID:     userID,
		Status:      models.StatusInProgress,
		StartedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if ni.TemplateID != "" {
		tpl, err := m.templates.Get(ctx, ni.TemplateID)
		if err != nil {
			return nil, err
		}
		in.TemplateID = tpl.ID
		if in.Name == "" {
			in.Name = tpl.Name
		}
		if in.Description == "" {
			in.Description = tpl.Description
		}
		in.Items = make([]models.InstanceItem, len(tpl.Items))
		for i, it := range tpl.Items {
			in.Items[i] = models.InstanceItem{Item: it}
		}
	}

	if err := m.store.InsertInstance(ctx, in); err != nil {
		return nil, err
	}
	m.log.InfoContext(ctx, "checklist instance created",
		"instance_id", in.ID, "user_id", userID, "template_id", in.TemplateID, "items", len(in.Items))
	return in, nil
}

// Get returns the instance if it exists and belongs to userID.
func (m *Manager) Get(ctx context.Context, id, userID string) (*models.ChecklistInstance, error) {
	in, err := m.store.GetInstance(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.OwnerID != userID {
		return nil, errNotOwner
	}
	return in, nil
}

// List returns userID's instances, most recently updated first.
func (m *Manager) List(ctx context.Context, userID string, status models.InstanceStatus) ([]models.ChecklistInstance, error) {
	return m.store.ListInstances(ctx, userID, status)
}

// Update applies patch. Completing requires every item to be done; the check
// runs before any field is applied so a rejected update changes nothing.
// completedAt is only ever set here, never cleared.
func (m *Manager) Update(ctx context.Context, id, userID string, patch InstancePatch) (*models.ChecklistInstance, error) {
	return m.mutate(ctx, id, userID, func(in *models.ChecklistInstance, now time.Time) error {
		completing := patch.Status != nil && *patch.Status == models.StatusCompleted && in.Status != models.StatusCompleted
		if completing && !in.AllItemsDone() {
			return errItemsPending
		}

		if patch.Name != nil {
			in.Name = *patch.Name
		}
		if patch.Description != nil {
			in.Description = *patch.Description
		}
		if patch.Status != nil {
			in.Status = *patch.Status
		}
		if completing {
			in.CompletedAt = &now
		}
		return nil
	})
}

// Delete permanently removes the instance.
func (m *Manager) Delete(ctx context.Context, id, userID string) error {
	if _, err := m.Get(ctx, id, userID); err != nil {
		return err
	}
	return m.store.DeleteInstance(ctx, id)
}

// CompleteItem marks item index done. Empty notes keep the existing ones.
func (m *Manager) CompleteItem(ctx context.Context, id string, index int, notes, userID string) (*models.ChecklistInstance, error) {
	return m.mutate(ctx, id, userID, func(in *models.ChecklistInstance, now time.Time) error {
		if err := checkIndex(in, index); err != nil {
			return err
		}
		in.Items[index].CompletedAt = &now
		if notes != "" {
			in.Items[index].Notes = notes
		}
		return nil
	})
}

// UncompleteItem clears item index's completion. Notes are left alone. A
// completed instance must be moved back to in-progress first, so that a
// completed instance never has a pending item.
func (m *Manager) UncompleteItem(ctx context.Context, id string, index int, userID string) (*models.ChecklistInstance, error) {
	return m.mutate(ctx, id, userID, func(in *models.ChecklistInstance, _ time.Time) error {
		if err := checkIndex(in, index); err != nil {
			return err
		}
		if in.Status == models.StatusCompleted {
			return errCompleted
		}
		in.Items[index].CompletedAt = nil
		return nil
	})
}

// mutate loads an owned instance, applies fn and saves it against the
// revision that was read. Nothing is saved when fn fails.
func (m *Manager) mutate(ctx context.Context, id, userID string, fn func(in *models.ChecklistInstance, now time.Time) error) (*models.ChecklistInstance, error) {
	in, err := m.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	if err := fn(in, now); err != nil {
		return nil, err
	}
	in.UpdatedAt = now
	if err := m.store.SaveInstance(ctx, in); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			m.log.WarnContext(ctx, "checklist instance revision conflict", "instance_id", id, "user_id", userID)
		}
		return nil, err
	}
	return in, nil
}

func checkIndex(in *models.ChecklistInstance, index int) error {
	if index < 0 || index >= len(in.Items) {
		return apperr.Newf(apperr.KindInvalidArgument, "Item index %d out of range", index)
	}
	return nil
}

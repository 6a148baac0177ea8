package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"

	"github.com/ayush/rv-checklist/backend/internal/models"
)

// MemoryStore keeps users, templates and instances in process memory.
// Records are copied on the way in and out so callers never share state
// with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]models.User
	emails    map[string]string
	templates map[string]*models.ChecklistTemplate
	instances map[string]*models.ChecklistInstance
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     map[string]models.User{},
		emails:    map[string]string{},
		templates: map[string]*models.ChecklistTemplate{},
		instances: map[string]*models.ChecklistInstance{},
	}
}

// ── users ───────────────────────────────────────────────────

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[u.Email]; taken {
		return nil, errEmailTaken
	}
	created := copyUser(*u)
	created.ID = uuid.NewString()
	s.users[created.ID] = created
	s.emails[created.Email] = created.ID

	out := copyUser(created)
	return &out, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, nil
	}
	out := copyUser(s.users[id])
	return &out, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	out := copyUser(u)
	return &out, nil
}

func (s *MemoryStore) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil
	}
	u.LastLoginAt = &at
	u.UpdatedAt = at
	s.users[id] = u
	return nil
}

// SetUserActive toggles the active flag. Used to deactivate accounts.
func (s *MemoryStore) SetUserActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		u.IsActive = active
		s.users[id] = u
	}
	return nil
}

func copyUser(u models.User) models.User {
	if u.LastLoginAt != nil {
		at := *u.LastLoginAt
		u.LastLoginAt = &at
	}
	return u
}

// ── templates ───────────────────────────────────────────────

func (s *MemoryStore) InsertTemplate(_ context.Context, t *models.ChecklistTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = xid.New().String()
	s.templates[t.ID] = t.Clone()
	return nil
}

func (s *MemoryStore) ListTemplates(_ context.Context, f models.TemplateFilter) ([]models.ChecklistTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ChecklistTemplate{}
	for _, t := range s.templates {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.DefaultOnly && !t.IsDefault {
			continue
		}
		out = append(out, *t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetTemplate(_ context.Context, id string) (*models.ChecklistTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, errTemplateNotFound(id)
	}
	return t.Clone(), nil
}

func (s *MemoryStore) ReplaceTemplate(_ context.Context, t *models.ChecklistTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[t.ID]; !ok {
		return errTemplateNotFound(t.ID)
	}
	s.templates[t.ID] = t.Clone()
	return nil
}

func (s *MemoryStore) DeleteTemplate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return errTemplateNotFound(id)
	}
	delete(s.templates, id)
	return nil
}

func (s *MemoryStore) CountTemplates(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.templates)), nil
}

// ── instances ───────────────────────────────────────────────

func (s *MemoryStore) InsertInstance(_ context.Context, in *models.ChecklistInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = xid.New().String()
	s.instances[in.ID] = in.Clone()
	return nil
}

func (s *MemoryStore) GetInstance(_ context.Context, id string) (*models.ChecklistInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.instances[id]
	if !ok {
		return nil, errInstanceNotFound(id)
	}
	return in.Clone(), nil
}

func (s *MemoryStore) ListInstances(_ context.Context, ownerID string, status models.InstanceStatus) ([]models.ChecklistInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ChecklistInstance{}
	for _, in := range s.instances {
		if in.OwnerID != ownerID {
			continue
		}
		if status != "" && in.Status != status {
			continue
		}
		out = append(out, *in.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) SaveInstance(_ context.Context, in *models.ChecklistInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.instances[in.ID]
	if !ok {
		return errInstanceNotFound(in.ID)
	}
	if cur.Revision != in.Revision {
		return errRevisionConflict
	}
	in.Revision++
	s.instances[in.ID] = in.Clone()
	return nil
}

func (s *MemoryStore) DeleteInstance(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instances[id]; !ok {
		return errInstanceNotFound(id)
	}
	delete(s.instances, id)
	return nil
}

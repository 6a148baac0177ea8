package models

import "time"

// TemplateType classifies a checklist template.
type TemplateType string

const (
	TypeMaintenance  TemplateType = "maintenance"
	TypePreDeparture TemplateType = "pre-departure"
	TypeDeparture    TemplateType = "departure"
)

// TemplateTypes lists every accepted template type.
var TemplateTypes = []TemplateType{TypeMaintenance, TypePreDeparture, TypeDeparture}

// Valid reports whether t is a known template type.
func (t TemplateType) Valid() bool {
	for _, v := range TemplateTypes {
		if t == v {
			return true
		}
	}
	return false
}

// InstanceStatus is the lifecycle state of a checklist instance.
type InstanceStatus string

const (
	StatusInProgress InstanceStatus = "in-progress"
	StatusCompleted  InstanceStatus = "completed"
)

// Valid reports whether s is a known status.
func (s InstanceStatus) Valid() bool {
	return s == StatusInProgress || s == StatusCompleted
}

// ChecklistItem is a single entry of a template.
type ChecklistItem struct {
	Title       string `json:"title"       bson:"title"`
	Description string `json:"description" bson:"description"`
	Completed   bool   `json:"completed"   bson:"completed"`
	Notes       string `json:"notes"       bson:"notes"`
}

// ChecklistTemplate is an admin-managed, reusable checklist definition.
type ChecklistTemplate struct {
	ID          string          `json:"id"          bson:"_id"`
	Name        string          `json:"name"        bson:"name"`
	Description string          `json:"description" bson:"description"`
	Items       []ChecklistItem `json:"items"       bson:"items"`
	IsDefault   bool            `json:"isDefault"   bson:"is_default"`
	Type        TemplateType    `json:"type"        bson:"type"`
	CreatedAt   time.Time       `json:"createdAt"   bson:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt"   bson:"updated_at"`
}

// TemplateFilter narrows a template listing. Zero values match everything.
type TemplateFilter struct {
	Type        TemplateType
	DefaultOnly bool
}

// InstanceItem is a snapshot of a template item plus its completion state.
type InstanceItem struct {
	Item        ChecklistItem `json:"item"        bson:"item"`
	CompletedAt *time.Time    `json:"completedAt" bson:"completed_at"`
	Notes       string        `json:"notes"       bson:"notes"`
}

// Done reports whether the item has been completed.
func (i InstanceItem) Done() bool { return i.CompletedAt != nil }

// ChecklistInstance is a user's personal checklist.
type ChecklistInstance struct {
	ID          string         `json:"id"          bson:"_id"`
	Name        string         `json:"name"        bson:"name"`
	Description string         `json:"description" bson:"description"`
	Items       []InstanceItem `json:"items"       bson:"items"`
	TemplateID  string         `json:"templateId,omitempty" bson:"template_id,omitempty"`
	OwnerID     string         `json:"userId"      bson:"owner_id"`
	Status      InstanceStatus `json:"status"      bson:"status"`
	StartedAt   time.Time      `json:"startedAt"   bson:"started_at"`
	CompletedAt *time.Time     `json:"completedAt" bson:"completed_at"`
	Revision    int64          `json:"revision"    bson:"revision"`
	CreatedAt   time.Time      `json:"createdAt"   bson:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt"   bson:"updated_at"`
}

// AllItemsDone reports whether every item carries a completion timestamp.
// An instance without items is trivially done.
func (c *ChecklistInstance) AllItemsDone() bool {
	for _, it := range c.Items {
		if !it.Done() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of c.
func (c *ChecklistInstance) Clone() *ChecklistInstance {
	out := *c
	out.Items = make([]InstanceItem, len(c.Items))
	for i, it := range c.Items {
		if it.CompletedAt != nil {
			at := *it.CompletedAt
			it.CompletedAt = &at
		}
		out.Items[i] = it
	}
	if c.CompletedAt != nil {
		at := *c.CompletedAt
		out.CompletedAt = &at
	}
	return &out
}

// Clone returns a deep copy of t.
func (t *ChecklistTemplate) Clone() *ChecklistTemplate {
	out := *t
	out.Items = append([]ChecklistItem(nil), t.Items...)
	if out.Items == nil {
		out.Items = []ChecklistItem{}
	}
	return &out
}

// CreateTemplateRequest is the JSON body for POST /api/checklist-templates.
type CreateTemplateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Items       []ChecklistItem `json:"items"`
	IsDefault   bool            `json:"isDefault"`
	Type        string          `json:"type"`
}

// UpdateTemplateRequest is the JSON body for PUT /api/checklist-templates/{id}.
// Nil fields are left unchanged.
type UpdateTemplateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Items       *[]ChecklistItem `json:"items"`
	IsDefault   *bool            `json:"isDefault"`
	Type        *string          `json:"type"`
}

// CreateInstanceRequest is the JSON body for POST /api/checklist-instances.
type CreateInstanceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TemplateID  string `json:"templateId"`
}

// UpdateInstanceRequest is the JSON body for PUT /api/checklist-instances/{id}.
type UpdateInstanceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// CompleteItemRequest is the optional JSON body for the complete-item route.
type CompleteItemRequest struct {
	Notes string `json:"notes"`
}

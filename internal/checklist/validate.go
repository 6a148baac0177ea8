package checklist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ayush/rv-checklist/backend/internal/apperr"
	"github.com/ayush/rv-checklist/backend/internal/models"
	"github.com/ayush/rv-checklist/backend/internal/validation"
)

// TemplateDef is a validated template definition.
type TemplateDef struct {
	Name        string
	Description string
	Items       []models.ChecklistItem
	IsDefault   bool
	Type        models.TemplateType
}

// TemplatePatch is a validated partial template update. Nil fields are left
// unchanged.
type TemplatePatch struct {
	Name         *string
	Description  *string
	Items        []models.ChecklistItem
	ReplaceItems bool
	IsDefault    *bool
	Type         *models.TemplateType
}

// NewInstance is a validated instance creation request.
type NewInstance struct {
	Name        string
	Description string
	TemplateID  string
}

// InstancePatch is a validated instance update. Nil fields are left
// unchanged.
type InstancePatch struct {
	Name        *string
	Description *string
	Status      *models.InstanceStatus
}

const (
	maxNameLen        = 200
	maxDescriptionLen = 2000
	maxItems          = 500
)

func checkItems(v validation.Violations, items []models.ChecklistItem) []models.ChecklistItem {
	if len(items) > maxItems {
		v.Add("items", fmt.Sprintf("A checklist cannot have more than %d items", maxItems))
		return nil
	}
	out := make([]models.ChecklistItem, len(items))
	for i, it := range items {
		it.Title = strings.TrimSpace(it.Title)
		v.Check(fmt.Sprintf("items[%d].title", i), it.Title, "required", "Item title is required")
		out[i] = it
	}
	return out
}

func checkType(v validation.Violations, raw string) models.TemplateType {
	t := models.TemplateType(raw)
	if raw == "" {
		v.Add("type", "Type is required")
	} else if !t.Valid() {
		v.Add("type", "Type must be one of maintenance, pre-departure, departure")
	}
	return t
}

// ValidateCreateTemplate checks a template creation body.
func ValidateCreateTemplate(req models.CreateTemplateRequest) (TemplateDef, error) {
	v := validation.Violations{}
	def := TemplateDef{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsDefault:   req.IsDefault,
	}
	v.Check("name", def.Name, "required", "Name is required")
	v.Check("name", def.Name, fmt.Sprintf("max=%d", maxNameLen), "Name is too long")
	v.Check("description", def.Description, fmt.Sprintf("max=%d", maxDescriptionLen), "Description is too long")
	if req.Items == nil {
		v.Add("items", "Items are required")
	}
	def.Items = checkItems(v, req.Items)
	def.Type = checkType(v, req.Type)

	if err := v.Err(); err != nil {
		return TemplateDef{}, err
	}
	return def, nil
}

// ValidateUpdateTemplate checks a partial template update body.
func ValidateUpdateTemplate(req models.UpdateTemplateRequest) (TemplatePatch, error) {
	v := validation.Violations{}
	var patch TemplatePatch

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		v.Check("name", name, "required", "Name cannot be empty")
		v.Check("name", name, fmt.Sprintf("max=%d", maxNameLen), "Name is too long")
		patch.Name = &name
	}
	if req.Description != nil {
		v.Check("description", *req.Description, fmt.Sprintf("max=%d", maxDescriptionLen), "Description is too long")
		patch.Description = req.Description
	}
	if req.Items != nil {
		patch.Items = checkItems(v, *req.Items)
		patch.ReplaceItems = true
	}
	patch.IsDefault = req.IsDefault
	if req.Type != nil {
		t := checkType(v, *req.Type)
		patch.Type = &t
	}

	if err := v.Err(); err != nil {
		return TemplatePatch{}, err
	}
	return patch, nil
}

// ValidateCreateInstance checks an instance creation body. A name is only
// required when no template supplies one.
func ValidateCreateInstance(req models.CreateInstanceRequest) (NewInstance, error) {
	v := validation.Violations{}
	ni := NewInstance{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		TemplateID:  strings.TrimSpace(req.TemplateID),
	}
	if ni.TemplateID == "" {
		v.Check("name", ni.Name, "required", "Name is required when no template is given")
	}
	v.Check("name", ni.Name, fmt.Sprintf("max=%d", maxNameLen), "Name is too long")
	v.Check("description", ni.Description, fmt.Sprintf("max=%d", maxDescriptionLen), "Description is too long")

	if err := v.Err(); err != nil {
		return NewInstance{}, err
	}
	return ni, nil
}

// ValidateUpdateInstance checks an instance update body. An empty name or
// description is treated as absent.
func ValidateUpdateInstance(req models.UpdateInstanceRequest) (InstancePatch, error) {
	v := validation.Violations{}
	var patch InstancePatch

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			v.Check("name", name, fmt.Sprintf("max=%d", maxNameLen), "Name is too long")
			patch.Name = &name
		}
	}
	if req.Description != nil && *req.Description != "" {
		v.Check("description", *req.Description, fmt.Sprintf("max=%d", maxDescriptionLen), "Description is too long")
		patch.Description = req.Description
	}
	if req.Status != nil {
		st := models.InstanceStatus(*req.Status)
		if !st.Valid() {
			v.Add("status", "Status must be one of in-progress, completed")
		}
		patch.Status = &st
	}

	if err := v.Err(); err != nil {
		return InstancePatch{}, err
	}
	return patch, nil
}

// ParseItemIndex parses the {index} path segment. Range is checked by the
// Manager against the instance itself.
func ParseItemIndex(raw string) (int, error) {
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid("invalid item index", map[string]string{"index": "Item index must be an integer"})
	}
	return idx, nil
}

// ParseTemplateType parses the optional ?type= filter.
func ParseTemplateType(raw string) (models.TemplateType, error) {
	if raw == "" {
		return "", nil
	}
	t := models.TemplateType(raw)
	if !t.Valid() {
		return "", apperr.Invalid("invalid type filter", map[string]string{"type": "Type must be one of maintenance, pre-departure, departure"})
	}
	return t, nil
}

// ParseStatus parses the optional ?status= filter.
func ParseStatus(raw string) (models.InstanceStatus, error) {
	if raw == "" {
		return "", nil
	}
	s := models.InstanceStatus(raw)
	if !s.Valid() {
		return "", apperr.Invalid("invalid status filter", map[string]string{"status": "Status must be one of in-progress, completed"})
	}
	return s, nil
}

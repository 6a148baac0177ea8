package checklist

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/rv-checklist/backend/internal/apperr"
	"github.com/ayush/rv-checklist/backend/internal/httpx"
	"github.com/ayush/rv-checklist/backend/internal/middleware"
	"github.com/ayush/rv-checklist/backend/internal/models"
)

// Handler holds checklist HTTP handlers. All routes expect RequireAuth to
// have run; template mutations and seeding also expect RequireRole(admin).
type Handler struct {
	registry *Registry
	manager  *Manager
	seeder   *Seeder
	log      *slog.Logger
}

func NewHandler(registry *Registry, manager *Manager, seeder *Seeder, log *slog.Logger) *Handler {
	return &Handler{registry: registry, manager: manager, seeder: seeder, log: log}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.log, err)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := middleware.UserIDFromContext(r.Context())
	if id == "" {
		h.fail(w, r, apperr.ErrUnauthenticated)
		return "", false
	}
	return id, true
}

// ── templates ───────────────────────────────────────────────

// ListTemplates handles GET /checklist-templates?type=.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	typ, err := ParseTemplateType(r.URL.Query().Get("type"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := h.registry.List(r.Context(), typ)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// ListDefaultTemplates handles GET /checklist-templates/default?type=.
func (h *Handler) ListDefaultTemplates(w http.ResponseWriter, r *http.Request) {
	typ, err := ParseTemplateType(r.URL.Query().Get("type"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := h.registry.ListDefaults(r.Context(), typ)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.registry.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTemplateRequest
	if err := httpx.DecodeJSON(r, &req, false); err != nil {
		h.fail(w, r, err)
		return
	}
	def, err := ValidateCreateTemplate(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	t, err := h.registry.Create(r.Context(), def)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.InfoContext(r.Context(), "checklist template created", "template_id", t.ID, "type", t.Type)
	httpx.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTemplateRequest
	if err := httpx.DecodeJSON(r, &req, false); err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := ValidateUpdateTemplate(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	t, err := h.registry.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.registry.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.InfoContext(r.Context(), "checklist template deleted", "template_id", id)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ── instances ───────────────────────────────────────────────

// ListInstances handles GET /checklist-instances?status=.
func (h *Handler) ListInstances(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	status, err := ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := h.manager.List(r.Context(), userID, status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetInstance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	in, err := h.manager.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, in)
}

func (h *Handler) CreateInstance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req models.CreateInstanceRequest
	if err := httpx.DecodeJSON(r, &req, false); err != nil {
		h.fail(w, r, err)
		return
	}
	ni, err := ValidateCreateInstance(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := h.manager.Create(r.Context(), userID, ni)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, in)
}

func (h *Handler) UpdateInstance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req models.UpdateInstanceRequest
	if err := httpx.DecodeJSON(r, &req, false); err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := ValidateUpdateInstance(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := h.manager.Update(r.Context(), chi.URLParam(r, "id"), userID, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, in)
}

func (h *Handler) DeleteInstance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.manager.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// CompleteItem handles PUT /checklist-instances/{id}/items/{index}/complete.
// The body is optional.
func (h *Handler) CompleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	idx, err := ParseItemIndex(chi.URLParam(r, "index"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req models.CompleteItemRequest
	if err := httpx.DecodeJSON(r, &req, true); err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := h.manager.CompleteItem(r.Context(), chi.URLParam(r, "id"), idx, req.Notes, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, in)
}

// UncompleteItem handles PUT /checklist-instances/{id}/items/{index}/uncomplete.
func (h *Handler) UncompleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	idx, err := ParseItemIndex(chi.URLParam(r, "index"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := h.manager.UncompleteItem(r.Context(), chi.URLParam(r, "id"), idx, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, in)
}

// ── seed ────────────────────────────────────────────────────

// Seed handles POST /seed.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.seeder.Seed(r.Context()))
}

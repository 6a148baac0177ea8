package checklist

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/rv-checklist/backend/internal/logging"
	"github.com/ayush/rv-checklist/backend/internal/middleware"
	"github.com/ayush/rv-checklist/backend/internal/models"
)

// asUser stands in for RequireAuth: the X-User header names the caller.
func asUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-User"); id != "" {
			r = r.WithContext(middleware.WithUser(r.Context(), &models.User{ID: id}))
		}
		next.ServeHTTP(w, r)
	})
}

func newTestRouter(t *testing.T) (http.Handler, *fixture) {
	t.Helper()
	f := newFixture(t)
	seeder := NewSeeder(f.registry, &fakeAccounts{users: map[string]*models.User{}}, AdminCredentials{Email: "a@b.co"}, logging.Discard())
	h := NewHandler(f.registry, f.manager, seeder, logging.Discard())

	r := chi.NewRouter()
	r.Use(asUser)
	r.Get("/checklist-templates", h.ListTemplates)
	r.Get("/checklist-templates/default", h.ListDefaultTemplates)
	r.Get("/checklist-templates/{id}", h.GetTemplate)
	r.Post("/checklist-templates", h.CreateTemplate)
	r.Put("/checklist-templates/{id}", h.UpdateTemplate)
	r.Delete("/checklist-templates/{id}", h.DeleteTemplate)
	r.Get("/checklist-instances", h.ListInstances)
	r.Post("/checklist-instances", h.CreateInstance)
	r.Get("/checklist-instances/{id}", h.GetInstance)
	r.Put("/checklist-instances/{id}", h.UpdateInstance)
	r.Delete("/checklist-instances/{id}", h.DeleteInstance)
	r.Put("/checklist-instances/{id}/items/{index}/complete", h.CompleteItem)
	r.Put("/checklist-instances/{id}/items/{index}/uncomplete", h.UncompleteItem)
	r.Post("/seed", h.Seed)
	return r, f
}

func call(t *testing.T, h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if user != "" {
		req.Header.Set("X-User", user)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestTemplateEndpoints(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := call(t, h, http.MethodPost, "/checklist-templates", "admin",
		`{"name":"Winterize","items":[{"title":"Drain lines"}],"type":"maintenance","isDefault":true}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	tpl := decode[models.ChecklistTemplate](t, rr)
	assert.NotEmpty(t, tpl.ID)

	rr = call(t, h, http.MethodGet, "/checklist-templates?type=maintenance", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.ChecklistTemplate](t, rr), 1)

	rr = call(t, h, http.MethodGet, "/checklist-templates/default?type=departure", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())

	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodGet, "/checklist-templates?type=camping", "u1", "").Code)

	rr = call(t, h, http.MethodPut, "/checklist-templates/"+tpl.ID, "admin", `{"name":"Winterize RV"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Winterize RV", decode[models.ChecklistTemplate](t, rr).Name)

	rr = call(t, h, http.MethodDelete, "/checklist-templates/"+tpl.ID, "admin", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "deleted", decode[map[string]string](t, rr)["message"])

	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, "/checklist-templates/"+tpl.ID, "u1", "").Code)
	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodPost, "/checklist-templates", "admin", `{"name":""}`).Code)
}

func TestInstanceEndpoints(t *testing.T) {
	h, f := newTestRouter(t)
	tpl := f.template(t, 2)

	rr := call(t, h, http.MethodPost, "/checklist-instances", "u1", `{"templateId":"`+tpl.ID+`"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	in := decode[models.ChecklistInstance](t, rr)
	assert.Equal(t, "u1", in.OwnerID)
	require.Len(t, in.Items, 2)
	base := "/checklist-instances/" + in.ID

	assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodGet, base, "u2", "").Code)
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, "/checklist-instances/missing", "u2", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, h, http.MethodGet, base, "", "").Code)

	rr = call(t, h, http.MethodPut, base, "u1", `{"status":"completed"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = call(t, h, http.MethodPut, base+"/items/0/complete", "u1", `{"notes":"topped up"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[models.ChecklistInstance](t, rr)
	assert.NotNil(t, got.Items[0].CompletedAt)
	assert.Equal(t, "topped up", got.Items[0].Notes)

	rr = call(t, h, http.MethodPut, base+"/items/1/complete", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code, "body is optional")

	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodPut, base+"/items/2/complete", "u1", "").Code)
	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodPut, base+"/items/x/uncomplete", "u1", "").Code)

	rr = call(t, h, http.MethodPut, base, "u1", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StatusCompleted, decode[models.ChecklistInstance](t, rr).Status)

	rr = call(t, h, http.MethodGet, "/checklist-instances?status=completed", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.ChecklistInstance](t, rr), 1)
	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodGet, "/checklist-instances?status=done", "u1", "").Code)

	assert.Equal(t, http.StatusUnprocessableEntity, call(t, h, http.MethodPut, base+"/items/0/uncomplete", "u1", "").Code)
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPut, base, "u1", `{"status":"in-progress"}`).Code)

	rr = call(t, h, http.MethodPut, base+"/items/0/uncomplete", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[models.ChecklistInstance](t, rr).Items[0].CompletedAt)

	assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodDelete, base, "u2", "").Code)
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodDelete, base, "u1", "").Code)
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, base, "u1", "").Code)
}

func TestSeedEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)
	rr := call(t, h, http.MethodPost, "/seed", "admin", "")
	require.Equal(t, http.StatusOK, rr.Code)
	res := decode[SeedResult](t, rr)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.TemplatesCreated)
}

package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokinadorabulls/kennel-cms/pkg/content"
	"github.com/smokinadorabulls/kennel-cms/pkg/document"
	"github.com/smokinadorabulls/kennel-cms/pkg/document/memory"
	"github.com/smokinadorabulls/kennel-cms/pkg/seed"
	"github.com/smokinadorabulls/kennel-cms/pkg/server"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error *APIError              `json:"error"`
}

func newTestServer(t *testing.T, store document.Store) *server.Server {
	t.Helper()
	srv := server.NewServer(store, content.Schema(), "127.0.0.1", "0")
	srv.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	srv.AccessLog = io.Discard
	RegisterAll(srv)
	return srv
}

// provisionedStore returns a memory store with roles and seeded content
func provisionedStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New(content.Schema())
	for _, roleType := range []string{content.RolePublic, content.RoleAuthenticated} {
		_, err := store.Create(ctx, content.RoleUID, document.CreateParams{
			Data: document.Fields{"name": roleType, "type": roleType},
		})
		require.NoError(t, err)
	}

	ds, err := seed.DefaultDataset()
	require.NoError(t, err)
	_, err = seed.New(store, ds).Provision(ctx)
	require.NoError(t, err)
	return store
}

func get(t *testing.T, srv *server.Server, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestStatus(t *testing.T) {
	srv := newTestServer(t, memory.New(content.Schema()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

type downStore struct {
	*memory.Store
}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestStatusDatabaseDown(t *testing.T) {
	srv := newTestServer(t, downStore{memory.New(content.Schema())})

	rec, body := get(t, srv, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ServiceUnavailableError", body.Error.Name)
}

func TestListPuppies(t *testing.T) {
	srv := newTestServer(t, provisionedStore(t))

	rec, body := get(t, srv, "/api/api::puppy.puppy")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var puppies []map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &puppies))
	require.Len(t, puppies, 6)
	assert.Equal(t, "Luna", puppies[0]["name"])
	assert.NotEmpty(t, puppies[0]["documentId"])
	assert.NotNil(t, puppies[0]["publishedAt"])
	assert.Equal(t, map[string]interface{}{"total": float64(6)}, body.Meta["pagination"])
}

func TestFindOnePuppy(t *testing.T) {
	store := provisionedStore(t)
	srv := newTestServer(t, store)

	bruno, err := store.FindFirst(context.Background(), content.PuppyUID, document.Filter{"name": "Bruno"})
	require.NoError(t, err)
	require.NotNil(t, bruno)

	rec, body := get(t, srv, "/api/api::puppy.puppy/"+bruno.DocumentID)
	require.Equal(t, http.StatusOK, rec.Code)

	var puppy map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &puppy))
	assert.Equal(t, "Bruno", puppy["name"])
	assert.Equal(t, float64(bruno.ID), puppy["id"])

	rec, _ = get(t, srv, "/api/api::puppy.puppy/doesnotexist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSingleTypes(t *testing.T) {
	srv := newTestServer(t, provisionedStore(t))

	rec, body := get(t, srv, "/api/api::about-page.about-page")
	require.Equal(t, http.StatusOK, rec.Code)

	var about map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &about))
	assert.Equal(t, "About Smokin Adorabulls", about["title"])
	assert.Len(t, about["featuredPuppies"], 3)
	assert.NotContains(t, about["storyContent"], "<p>")

	rec, body = get(t, srv, "/api/api::about-page.about-page?format=html")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(body.Data, &about))
	assert.Contains(t, about["storyContent"], "<p>Smokin Adorabulls began")

	rec, body = get(t, srv, "/api/api::site-settings.site-settings")
	require.Equal(t, http.StatusOK, rec.Code)
	var settings map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &settings))
	assert.Equal(t, "(123) 456-7890", settings["phone"])
}

func TestForbiddenWithoutPermission(t *testing.T) {
	srv := newTestServer(t, provisionedStore(t))

	// testimonials are granted find, not findOne
	rec, body := get(t, srv, "/api/api::testimonial.testimonial/anything")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":{"status":403,"name":"ForbiddenError","message":"Forbidden"}}`, rec.Body.String())
	require.NotNil(t, body.Error)

	rec, _ = get(t, srv, "/api/api::testimonial.testimonial")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestForbiddenBeforeProvisioning(t *testing.T) {
	store := memory.New(content.Schema())
	_, err := store.Create(context.Background(), content.RoleUID, document.CreateParams{
		Data: document.Fields{"type": content.RolePublic},
	})
	require.NoError(t, err)
	srv := newTestServer(t, store)

	rec, _ := get(t, srv, "/api/api::puppy.puppy")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnknownAndPluginTypes(t *testing.T) {
	srv := newTestServer(t, provisionedStore(t))

	rec, body := get(t, srv, "/api/api::kitten.kitten")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NotFoundError", body.Error.Name)

	rec, _ = get(t, srv, "/api/plugin::users-permissions.role")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDraftsAreHidden(t *testing.T) {
	ctx := context.Background()
	store := provisionedStore(t)
	draft, err := store.Create(ctx, content.StudUID, document.CreateParams{
		Data: document.Fields{"name": "Unlisted"},
	})
	require.NoError(t, err)
	srv := newTestServer(t, store)

	_, body := get(t, srv, "/api/api::stud.stud")
	var studs []map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &studs))
	assert.Len(t, studs, 4)

	rec, _ := get(t, srv, "/api/api::stud.stud/"+draft.DocumentID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type failingStore struct {
	*memory.Store
}

func (failingStore) FindMany(context.Context, string, document.Filter) ([]document.Document, error) {
	return nil, errors.New("query failed")
}

func TestStoreErrorIsInternal(t *testing.T) {
	srv := newTestServer(t, failingStore{provisionedStore(t)})

	rec, body := get(t, srv, "/api/api::puppy.puppy")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "InternalServerError", body.Error.Name)
}

func TestRecoversFromPanic(t *testing.T) {
	var logs bytes.Buffer
	srv := newTestServer(t, memory.New(content.Schema()))
	srv.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	srv.Router.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "boom")
}

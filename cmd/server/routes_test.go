package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/zonecast/internal/audit"
	"github.com/Nixie-Tech-LLC/zonecast/internal/config"
	"github.com/Nixie-Tech-LLC/zonecast/internal/content"
	"github.com/Nixie-Tech-LLC/zonecast/internal/db"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/zonecast/internal/hub"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
	"github.com/Nixie-Tech-LLC/zonecast/internal/redis"
	"github.com/Nixie-Tech-LLC/zonecast/internal/schedule"
)

func newRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := db.NewMemoryStore()
	clock := clockwork.NewRealClock()
	recorder := audit.NewRecorder(store, clock)
	sse := hub.NewSSEMirror()
	t.Cleanup(sse.Close)

	h := hub.New(hub.Options{
		Resolver:  schedule.NewResolver(store),
		Directory: store,
		Mirrors:   []hub.Mirror{sse},
		Recorder:  recorder,
		Clock:     clock,
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	r := gin.New()
	RegisterRoutes(r, &config.Server{JWTSecret: secret}, Services{
		Store:    store,
		Hub:      h,
		Content:  content.NewManager(store, h, recorder, clock),
		Schedule: schedule.NewManager(store, h, recorder, clock),
		Events:   sse,
		Presence: redis.NoopPresence{},
	})
	return r
}

func call(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	r := newRouter(t, "")

	w := call(r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	call(r, http.MethodGet, "/api/zones", "", nil)
	w = call(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestMutationsNeedTokenWhenSecretSet(t *testing.T) {
	const secret = "integration-secret"
	r := newRouter(t, secret)

	body := map[string]any{"title": "Welcome", "media_url": "/welcome.jpg", "mime_type": "image/jpeg", "zone": "reception"}
	w := call(r, http.MethodPost, "/api/content", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.GenerateJWT("ops", secret, time.Hour)
	require.NoError(t, err)
	w = call(r, http.MethodPost, "/api/content", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	now := time.Now().UTC()
	w = call(r, http.MethodPost, "/api/schedules", token, map[string]any{
		"content_id": created.ID,
		"zone":       "reception",
		"start_time": now.Add(-time.Minute),
		"end_time":   now.Add(time.Hour),
		"priority":   3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(r, http.MethodGet, "/api/zones/reception/active", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var set model.ActiveSetUpdate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &set))
	require.Len(t, set.Items, 1)
	assert.Equal(t, created.ID, set.Items[0].Content.ID)
}

func TestOpenMutationsWithoutSecret(t *testing.T) {
	r := newRouter(t, "")
	w := call(r, http.MethodPost, "/api/content", "", map[string]any{"title": "Menu", "media_url": "/menu.png"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/zonecast/internal/audit"
	"github.com/Nixie-Tech-LLC/zonecast/internal/db"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/display/packets"
	"github.com/Nixie-Tech-LLC/zonecast/internal/hub"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
	"github.com/Nixie-Tech-LLC/zonecast/internal/redis"
	"github.com/Nixie-Tech-LLC/zonecast/internal/schedule"
)

var now = time.Date(2026, 6, 20, 10, 0, 0, 0, time.UTC)

type testServer struct {
	store db.Store
	hub   *hub.Hub
	sched *schedule.Manager
	srv   *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := db.NewMemoryStore()
	clock := clockwork.NewFakeClockAt(now)
	recorder := audit.NewRecorder(store, clock)
	h := hub.New(hub.Options{
		Resolver:  schedule.NewResolver(store),
		Directory: store,
		Recorder:  recorder,
		Clock:     clock,
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	sched := schedule.NewManager(store, h, recorder, clock)
	presence := redis.NoopPresence{}

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api"},
		ZoneModule(store, h, sched),
		SocketModule(h, presence),
		DisplaysModule(h, presence),
	)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{store: store, hub: h, sched: sched, srv: srv}
}

func (ts *testServer) seed(t *testing.T, contentID, entryID, zone string, priority int, created time.Time) {
	t.Helper()
	ctx := context.Background()
	if _, err := ts.store.GetContentByID(ctx, contentID); err != nil {
		_, err := ts.store.CreateContent(ctx, model.ContentItem{
			ID: contentID, Type: model.ContentImage, Title: contentID, MediaURL: "/" + contentID,
			Zone: zone, DurationSeconds: 10, Active: true, CreatedAt: now,
		})
		require.NoError(t, err)
	}
	_, err := ts.store.CreateScheduleEntry(ctx, model.ScheduleEntry{
		ID: entryID, ContentID: contentID, Zone: zone, Priority: priority, Active: true,
		StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), CreatedAt: created,
	})
	require.NoError(t, err)
}

func (ts *testServer) get(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(ts.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (ts *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/api/display/socket"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) packets.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var env packets.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func entryIDs(u *model.ActiveSetUpdate) []string {
	out := []string{}
	for _, it := range u.Items {
		out = append(out, it.Entry.ID)
	}
	return out
}

func TestZones_ListAndPull(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t, "contentA", "entryA", "reception", 1, now.Add(-time.Hour))
	ts.seed(t, "contentB", "entryB", "reception", 5, now.Add(-time.Minute))

	var zones []packets.ZoneResponse
	require.Equal(t, http.StatusOK, ts.get(t, "/api/zones", &zones))
	assert.Len(t, zones, len(model.DefaultZones))

	var set model.ActiveSetUpdate
	require.Equal(t, http.StatusOK, ts.get(t, "/api/zones/reception/active", &set))
	assert.Equal(t, []string{"entryB", "entryA"}, entryIDs(&set))

	var empty model.ActiveSetUpdate
	require.Equal(t, http.StatusOK, ts.get(t, "/api/zones/shop/active", &empty))
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	assert.Equal(t, http.StatusNotFound, ts.get(t, "/api/zones/pool/active", nil))
	assert.Equal(t, http.StatusBadRequest, ts.get(t, "/api/zones/shop/upcoming?limit=x", nil))

	var upcoming []model.ActiveItem
	require.Equal(t, http.StatusOK, ts.get(t, "/api/zones/reception/upcoming", &upcoming))
	assert.Empty(t, upcoming)
}

func TestSocket_JoinRequestAndPush(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t, "contentA", "entryA", "reception", 1, now.Add(-time.Hour))
	ts.seed(t, "contentB", "entryB", "reception", 5, now.Add(-time.Minute))

	conn := ts.dial(t)
	require.NoError(t, conn.WriteJSON(packets.Envelope{Type: packets.TypeJoinZone, Zone: "reception"}))
	require.NoError(t, conn.WriteJSON(packets.Envelope{Type: packets.TypeRequestContent, Zone: "reception"}))

	env := readEnvelope(t, conn)
	require.Equal(t, packets.TypeActiveSetUpdated, env.Type)
	assert.Equal(t, []string{"entryB", "entryA"}, entryIDs(env.Update))

	require.NoError(t, ts.sched.Delete(context.Background(), "entryB"))
	env = readEnvelope(t, conn)
	require.Equal(t, packets.TypeActiveSetUpdated, env.Type)
	assert.Equal(t, "reception", env.Zone)
	assert.Equal(t, []string{"entryA"}, entryIDs(env.Update))

	require.NoError(t, conn.WriteJSON(packets.Envelope{Type: packets.TypePing, SentAt: 42}))
	env = readEnvelope(t, conn)
	assert.Equal(t, packets.TypePong, env.Type)
	assert.Equal(t, int64(42), env.SentAt)

	var displays packets.DisplaysResponse
	require.Equal(t, http.StatusOK, ts.get(t, "/api/displays", &displays))
	assert.Equal(t, 1, displays.Zones["reception"])
}

func TestSocket_UnknownZoneAndMessage(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)

	require.NoError(t, conn.WriteJSON(packets.Envelope{Type: packets.TypeJoinZone, Zone: "pool"}))
	env := readEnvelope(t, conn)
	assert.Equal(t, packets.TypeError, env.Type)
	assert.Contains(t, env.Error, "unknown zone")

	require.NoError(t, conn.WriteJSON(packets.Envelope{Type: packets.TypeRequestContent}))
	env = readEnvelope(t, conn)
	assert.Equal(t, packets.TypeError, env.Type)

	require.NoError(t, conn.WriteJSON(packets.Envelope{Type: "dance"}))
	env = readEnvelope(t, conn)
	assert.Equal(t, packets.TypeError, env.Type)
}

func TestSocket_AdminSeesEveryZone(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t, "menu", "lunch", "restaurant", 1, now)

	admin := ts.dial(t)
	require.NoError(t, admin.WriteJSON(packets.Envelope{Type: packets.TypeJoinAdmin}))
	require.Eventually(t, func() bool {
		return len(ts.hub.Members(model.AdminZone)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ts.sched.Delete(context.Background(), "lunch"))
	env := readEnvelope(t, admin)
	assert.Equal(t, packets.TypeActiveSetUpdated, env.Type)
	assert.Equal(t, "restaurant", env.Zone)
}

func TestSocket_DisconnectUnregisters(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)
	require.NoError(t, conn.WriteJSON(packets.Envelope{Type: packets.TypeJoinZone, Zone: "shop"}))
	require.Eventually(t, func() bool { return len(ts.hub.Members("shop")) == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return len(ts.hub.Members("shop")) == 0 }, 2*time.Second, 10*time.Millisecond)
}

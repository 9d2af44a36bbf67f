package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"lobbywatch/internal/database"
	"lobbywatch/internal/domain"
	"lobbywatch/internal/report"
	"lobbywatch/internal/repository"
	"lobbywatch/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistory(t *testing.T) *repository.SightingRepository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "history.db"), testutils.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewSightingRepository(db, testutils.Logger())
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestStatusServer_Health(t *testing.T) {
	latest := report.NewLatest()
	h := NewStatusServer(latest, nil, testutils.Logger()).Handler()

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.False(t, body.Reported)
}

func TestStatusServer_Lobbies(t *testing.T) {
	latest := report.NewLatest()
	h := NewStatusServer(latest, nil, testutils.Logger()).Handler()

	var empty report.ReportPayload
	rec := get(t, h, "/lobbies")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	assert.Empty(t, empty.Lobbies)

	require.NoError(t, latest.Report(context.Background(), domain.Report{
		CycleID: "c1",
		Lobbies: domain.Snapshot{{Name: "§RServer A", Version: "0143", MaxPlayers: 8, CurrentPlayers: 3, ID: 1001}},
	}))

	var got report.ReportPayload
	rec = get(t, h, "/lobbies")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "c1", got.CycleID)
	require.Len(t, got.Lobbies, 1)
	assert.Equal(t, "1001", got.Lobbies[0].ID)
	assert.Equal(t, "Server A", got.Lobbies[0].DisplayName)
	assert.Equal(t, "3/8", got.Lobbies[0].Players)
}

func TestStatusServer_HistoryDisabled(t *testing.T) {
	h := NewStatusServer(report.NewLatest(), nil, testutils.Logger()).Handler()

	assert.Equal(t, http.StatusNotFound, get(t, h, "/history").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/lobbies/1/sightings").Code)
}

func TestStatusServer_History(t *testing.T) {
	repo := newHistory(t)
	now := time.Now().UTC()
	require.NoError(t, repo.InsertBatch(context.Background(), []domain.Sighting{
		{CycleID: "c1", LobbyID: 1, Name: "A", ReportedAt: now},
		{CycleID: "c2", LobbyID: 1, Name: "A", ReportedAt: now.Add(time.Second)},
		{CycleID: "c2", LobbyID: 2, Name: "B", ReportedAt: now.Add(time.Second)},
	}))
	h := NewStatusServer(report.NewLatest(), repo, testutils.Logger()).Handler()

	var recent []sightingResponse
	rec := get(t, h, "/history?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recent))
	assert.Len(t, recent, 2)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/history?limit=zero").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/history?limit=-3").Code)

	var count struct {
		LobbyID   string `json:"lobby_id"`
		Sightings int    `json:"sightings"`
	}
	rec = get(t, h, "/lobbies/1/sightings")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, "1", count.LobbyID)
	assert.Equal(t, 2, count.Sightings)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/lobbies/abc/sightings").Code)
}

func TestStatusServer_CORS(t *testing.T) {
	h := NewStatusServer(report.NewLatest(), nil, testutils.Logger()).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

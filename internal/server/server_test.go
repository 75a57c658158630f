package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mauriceverhoeven/zoneos/internal/config"
	"github.com/mauriceverhoeven/zoneos/internal/controller"
	"github.com/mauriceverhoeven/zoneos/internal/favorites"
	"github.com/mauriceverhoeven/zoneos/internal/groups"
	"github.com/mauriceverhoeven/zoneos/internal/playback"
	"github.com/mauriceverhoeven/zoneos/internal/sonos"
	"github.com/mauriceverhoeven/zoneos/internal/sonos/sonostest"
	"github.com/mauriceverhoeven/zoneos/internal/speakers"
)

type testEnv struct {
	server *httptest.Server
	fakes  map[string]*sonostest.FakePlayer
}

// newTestEnv boots the full router against fake players. Pass no names
// to leave the registry uninitialized.
func newTestEnv(t *testing.T, names ...string) *testEnv {
	t.Helper()

	fakes := make(map[string]*sonostest.FakePlayer, len(names))
	players := make([]sonos.Player, 0, len(names))
	for _, name := range names {
		fake := sonostest.New(name)
		fake.Favs = []sonos.Favorite{
			{Title: "Jazz FM", URI: "x-sonosapi-stream:s1", Metadata: "<DIDL-Lite/>"},
			{Title: "Morning Mix", URI: "x-sonosapi-stream:s2"},
		}
		fakes[name] = fake
		players = append(players, fake)
	}

	registry := speakers.NewRegistry()
	if len(players) > 0 {
		err := registry.Discover(context.Background(), func(ctx context.Context) ([]sonos.Player, error) {
			return players, nil
		})
		require.NoError(t, err)
	}

	cache := favorites.NewCache(registry)
	if len(players) > 0 {
		_, err := cache.Refresh(context.Background())
		require.NoError(t, err)
	}
	groupManager := groups.NewManager(registry)
	facade := playback.NewFacade(registry, cache, groupManager)
	ctrl := controller.New(registry, cache, groupManager, facade)

	cfg := config.Config{StaticDir: t.TempDir()}
	handler, err := NewHandler(context.Background(), cfg, Options{Controller: ctrl})
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &testEnv{server: server, fakes: fakes}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	res, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	return res, decodeBody(t, res)
}

func (e *testEnv) post(t *testing.T, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	res, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return res, decodeBody(t, res)
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.get(t, "/api/health")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "zoneos", body["service"])
}

func TestUninitializedControllerAnswers503(t *testing.T) {
	env := newTestEnv(t)

	res, body := env.get(t, "/api/speakers")
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	require.Equal(t, "Controller not initialized", body["error"])

	res, body = env.post(t, "/api/group", map[string]any{"speakers": []string{"Kitchen"}})
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	require.Equal(t, "Controller not initialized", body["error"])
}

func TestListSpeakers(t *testing.T) {
	env := newTestEnv(t, "Kitchen", "Bedroom")

	res, body := env.get(t, "/api/speakers")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, []any{"Kitchen", "Bedroom"}, body["speakers"])
}

func TestVolumeRoundTrip(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.post(t, "/api/volume", map[string]any{"speaker": "Kitchen", "volume": 42})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "Set volume to 42 on Kitchen", body["message"])

	res, body = env.get(t, "/api/speaker/volume/Kitchen")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Kitchen", body["speaker"])
	require.Equal(t, float64(42), body["volume"])
}

func TestVolumeValidation(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.post(t, "/api/volume", map[string]any{"speaker": "Kitchen", "volume": 150})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Volume must be an integer between 0 and 100", body["error"])

	res, body = env.post(t, "/api/volume", map[string]any{"speaker": "Kitchen"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Missing 'speaker' or 'volume' field", body["error"])
}

func TestVolumeUnknownSpeakerNamesSpeaker(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.post(t, "/api/volume", map[string]any{"speaker": "Garage", "volume": 20})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Speaker 'Garage' not found", body["error"])
}

func TestControlEndpoint(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.post(t, "/api/control", map[string]any{"speaker": "Kitchen", "action": "pause"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Executed pause on Kitchen", body["message"])
	require.Equal(t, []string{"pause"}, env.fakes["Kitchen"].Actions)
}

func TestControlInvalidAction(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.post(t, "/api/control", map[string]any{"speaker": "Kitchen", "action": "rewind"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Invalid action 'rewind'. Must be one of: play, pause, stop, next, previous", body["error"])
}

func TestControlMissingFields(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.post(t, "/api/control", map[string]any{"speaker": "Kitchen"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Missing 'speaker' or 'action' field", body["error"])
}

func TestFavoritesListAndRefresh(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.get(t, "/api/favorites")
	require.Equal(t, http.StatusOK, res.StatusCode)
	favs := body["favorites"].([]any)
	require.Len(t, favs, 2)
	require.Equal(t, "Jazz FM", favs[0].(map[string]any)["title"])

	env.fakes["Kitchen"].Favs = env.fakes["Kitchen"].Favs[:1]
	res, body = env.post(t, "/api/favorites/refresh", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Refreshed 1 favorites", body["message"])
}

func TestPlayFavorite(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.post(t, "/api/play-favorite", map[string]any{"speaker": "Kitchen", "favorite": "Jazz FM"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Playing Jazz FM on Kitchen", body["message"])
	require.Equal(t, []string{"x-sonosapi-stream:s1"}, env.fakes["Kitchen"].PlayedURIs)
}

func TestGroupLifecycle(t *testing.T) {
	env := newTestEnv(t, "Kitchen", "Bedroom", "Office")

	res, body := env.post(t, "/api/group", map[string]any{"speakers": []string{"Bedroom", "Kitchen", "Office"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Group created with 3 speakers", body["message"])

	res, body = env.get(t, "/api/group-status")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, []any{"Bedroom", "Kitchen", "Office"}, body["members"])
	require.Len(t, body["volumes"], 3)

	// Favorite-by-index plays on the coordinator.
	res, body = env.post(t, "/api/play-favorite-index", map[string]any{"index": 2})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Playing favorite #2 on group", body["message"])
	require.Equal(t, []string{"x-sonosapi-stream:s2"}, env.fakes["Bedroom"].PlayedURIs)

	// Next rolls over past the end.
	res, body = env.post(t, "/api/play-next-favorite", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Playing favorite #1 on group", body["message"])
}

func TestGroupValidation(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.post(t, "/api/group", map[string]any{})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Missing 'speakers' field", body["error"])

	res, body = env.post(t, "/api/group", map[string]any{"speakers": []string{}})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "'speakers' must be a non-empty list", body["error"])
}

func TestPlayFavoriteIndexValidation(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.post(t, "/api/play-favorite-index", map[string]any{})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Missing 'index' field", body["error"])

	res, body = env.post(t, "/api/play-favorite-index", map[string]any{"index": 0})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Index must be a positive integer", body["error"])
}

func TestNowPlayingIdle(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	res, body := env.get(t, "/api/now-playing")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "", body["title"])
	require.Equal(t, "", body["artist"])
	require.Equal(t, "", body["album_art"])
}

func TestNowPlayingReportsTrack(t *testing.T) {
	env := newTestEnv(t, "Kitchen")
	env.fakes["Kitchen"].Track = sonos.Track{
		Title:    "Song",
		Artist:   "Band",
		AlbumArt: "http://192.0.2.1:1400/art.jpg",
	}

	res, body := env.get(t, "/api/now-playing")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Song", body["title"])
	require.Equal(t, "Band", body["artist"])
	require.Equal(t, "http://192.0.2.1:1400/art.jpg", body["album_art"])
}

func TestRequestIDHeaderPropagates(t *testing.T) {
	env := newTestEnv(t, "Kitchen")

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/speakers", nil)
	require.NoError(t, err)
	req.Header.Set("x-request-id", "test-id-123")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, "test-id-123", res.Header.Get("x-request-id"))
}

package playback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mauriceverhoeven/zoneos/internal/apperrors"
	"github.com/mauriceverhoeven/zoneos/internal/favorites"
	"github.com/mauriceverhoeven/zoneos/internal/groups"
	"github.com/mauriceverhoeven/zoneos/internal/sonos"
	"github.com/mauriceverhoeven/zoneos/internal/sonos/sonostest"
	"github.com/mauriceverhoeven/zoneos/internal/speakers"
)

type fixture struct {
	facade   *Facade
	registry *speakers.Registry
	cache    *favorites.Cache
	groups   *groups.Manager
	fakes    map[string]*sonostest.FakePlayer
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	fakes := make(map[string]*sonostest.FakePlayer, len(names))
	players := make([]sonos.Player, 0, len(names))
	for _, name := range names {
		fake := sonostest.New(name)
		fakes[name] = fake
		players = append(players, fake)
	}

	registry := speakers.NewRegistry()
	err := registry.Discover(context.Background(), func(ctx context.Context) ([]sonos.Player, error) {
		return players, nil
	})
	require.NoError(t, err)

	cache := favorites.NewCache(registry)
	groupManager := groups.NewManager(registry)
	return &fixture{
		facade:   NewFacade(registry, cache, groupManager),
		registry: registry,
		cache:    cache,
		groups:   groupManager,
		fakes:    fakes,
	}
}

func (f *fixture) loadFavorites(t *testing.T, favs ...sonos.Favorite) {
	t.Helper()
	for _, fake := range f.fakes {
		fake.Favs = favs
	}
	_, err := f.cache.Refresh(context.Background())
	require.NoError(t, err)
}

func TestControlMapsActions(t *testing.T) {
	f := newFixture(t, "Kitchen")

	for _, action := range []string{"play", "pause", "stop", "next", "previous"} {
		require.NoError(t, f.facade.Control(context.Background(), "Kitchen", action))
	}
	require.Equal(t, []string{"play", "pause", "stop", "next", "previous"}, f.fakes["Kitchen"].Actions)
}

func TestControlInvalidActionRejectedBeforeResolution(t *testing.T) {
	f := newFixture(t, "Kitchen")

	// Unknown speaker with an invalid action still reports the action.
	err := f.facade.Control(context.Background(), "Garage", "rewind")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrorCodeValidationError, appErr.Code)
	require.Equal(t, "Invalid action 'rewind'. Must be one of: play, pause, stop, next, previous", appErr.Message)
}

func TestControlUnknownSpeaker(t *testing.T) {
	f := newFixture(t, "Kitchen")

	err := f.facade.Control(context.Background(), "Garage", "play")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrorCodeSpeakerNotFound, appErr.Code)
}

func TestPlayURIEmptyRejected(t *testing.T) {
	f := newFixture(t, "Kitchen")

	err := f.facade.PlayURI(context.Background(), "Kitchen", "")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrorCodeValidationError, appErr.Code)
	require.Empty(t, f.fakes["Kitchen"].PlayedURIs)
}

func TestPlayFavoriteSendsURIAndMetadata(t *testing.T) {
	f := newFixture(t, "Kitchen")
	f.loadFavorites(t, sonos.Favorite{
		Title:    "Jazz FM",
		URI:      "x-sonosapi-stream:s1",
		Metadata: "<DIDL-Lite>jazz</DIDL-Lite>",
	})

	require.NoError(t, f.facade.PlayFavorite(context.Background(), "Kitchen", "Jazz FM"))
	require.Equal(t, []string{"x-sonosapi-stream:s1"}, f.fakes["Kitchen"].PlayedURIs)
	require.Equal(t, []string{"<DIDL-Lite>jazz</DIDL-Lite>"}, f.fakes["Kitchen"].PlayedMeta)
}

func TestPlayFavoriteUnknownTitle(t *testing.T) {
	f := newFixture(t, "Kitchen")
	f.loadFavorites(t, sonos.Favorite{Title: "Jazz FM", URI: "u1"})

	err := f.facade.PlayFavorite(context.Background(), "Kitchen", "Rock FM")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrorCodeFavoriteNotFound, appErr.Code)
	require.Contains(t, appErr.Message, "Rock FM")
}

func TestPlayFavoriteIndexRequiresActiveGroup(t *testing.T) {
	f := newFixture(t, "Kitchen")
	f.loadFavorites(t, sonos.Favorite{Title: "Jazz FM", URI: "u1"})

	err := f.facade.PlayFavoriteIndex(context.Background(), 1)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrorCodeGroupOperation, appErr.Code)
	require.Equal(t, "No active group to play on", appErr.Message)
}

func TestPlayFavoriteIndexPlaysOnCoordinator(t *testing.T) {
	f := newFixture(t, "Kitchen", "Bedroom")
	f.loadFavorites(t,
		sonos.Favorite{Title: "One", URI: "u1"},
		sonos.Favorite{Title: "Two", URI: "u2"},
	)
	require.NoError(t, f.groups.SetGroup(context.Background(), []string{"Bedroom", "Kitchen"}))

	require.NoError(t, f.facade.PlayFavoriteIndex(context.Background(), 2))
	require.Equal(t, []string{"u2"}, f.fakes["Bedroom"].PlayedURIs)
	require.Empty(t, f.fakes["Kitchen"].PlayedURIs)
}

func TestPlayNextFavoriteAdvancesWithRollover(t *testing.T) {
	f := newFixture(t, "Kitchen")
	f.loadFavorites(t,
		sonos.Favorite{Title: "One", URI: "u1"},
		sonos.Favorite{Title: "Two", URI: "u2"},
		sonos.Favorite{Title: "Three", URI: "u3"},
	)
	require.NoError(t, f.groups.SetGroup(context.Background(), []string{"Kitchen"}))

	for _, want := range []int{1, 2, 3, 1, 2} {
		index, err := f.facade.PlayNextFavorite(context.Background())
		require.NoError(t, err)
		require.Equal(t, want, index)
	}
	require.Equal(t, []string{"u1", "u2", "u3", "u1", "u2"}, f.fakes["Kitchen"].PlayedURIs)
}

func TestPlayNextFavoriteWithEmptyCache(t *testing.T) {
	f := newFixture(t, "Kitchen")
	require.NoError(t, f.groups.SetGroup(context.Background(), []string{"Kitchen"}))

	_, err := f.facade.PlayNextFavorite(context.Background())
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrorCodeValidationError, appErr.Code)
	require.Equal(t, "No favorites available to play", appErr.Message)
}

func TestNowPlayingReadsCoordinator(t *testing.T) {
	f := newFixture(t, "Kitchen", "Bedroom")
	require.NoError(t, f.groups.SetGroup(context.Background(), []string{"Bedroom", "Kitchen"}))
	f.fakes["Bedroom"].Track = sonos.Track{Title: "Song", Artist: "Band"}

	track, err := f.facade.NowPlaying(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Song", track.Title)
	require.Equal(t, "Band", track.Artist)
}

func TestNowPlayingIdleIsEmptySnapshot(t *testing.T) {
	f := newFixture(t, "Kitchen")

	track, err := f.facade.NowPlaying(context.Background())
	require.NoError(t, err)
	require.Equal(t, sonos.Track{}, track)
}

func TestNowPlayingReadFailureIsEmptySnapshot(t *testing.T) {
	f := newFixture(t, "Kitchen")
	f.fakes["Kitchen"].NowPlayingErr = context.DeadlineExceeded

	track, err := f.facade.NowPlaying(context.Background())
	require.NoError(t, err)
	require.Equal(t, sonos.Track{}, track)
}

// Package playback issues transport commands against resolved speakers or
// the group coordinator. Playback state lives on the hardware; every read
// here is live, nothing is modeled locally.
package playback

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/mauriceverhoeven/zoneos/internal/apperrors"
	"github.com/mauriceverhoeven/zoneos/internal/favorites"
	"github.com/mauriceverhoeven/zoneos/internal/groups"
	"github.com/mauriceverhoeven/zoneos/internal/sonos"
	"github.com/mauriceverhoeven/zoneos/internal/speakers"
)

// Playback actions accepted by Control.
const (
	ActionPlay     = "play"
	ActionPause    = "pause"
	ActionStop     = "stop"
	ActionNext     = "next"
	ActionPrevious = "previous"
)

// Facade resolves speakers and favorites and forwards transport commands.
type Facade struct {
	registry *speakers.Registry
	cache    *favorites.Cache
	groups   *groups.Manager

	mu        sync.Mutex
	lastIndex int // last favorite index played on the group, 1-based
}

func NewFacade(registry *speakers.Registry, cache *favorites.Cache, groupManager *groups.Manager) *Facade {
	return &Facade{
		registry: registry,
		cache:    cache,
		groups:   groupManager,
	}
}

// Control executes a playback action on the named speaker.
func (f *Facade) Control(ctx context.Context, speakerName, action string) error {
	var call func(sonos.Player) error
	switch action {
	case ActionPlay:
		call = func(p sonos.Player) error { return p.Play(ctx) }
	case ActionPause:
		call = func(p sonos.Player) error { return p.Pause(ctx) }
	case ActionStop:
		call = func(p sonos.Player) error { return p.Stop(ctx) }
	case ActionNext:
		call = func(p sonos.Player) error { return p.Next(ctx) }
	case ActionPrevious:
		call = func(p sonos.Player) error { return p.Previous(ctx) }
	default:
		return apperrors.NewValidationError(fmt.Sprintf("Invalid action '%s'. Must be one of: play, pause, stop, next, previous", action))
	}

	player, err := f.registry.Get(speakerName)
	if err != nil {
		return err
	}
	if err := call(player); err != nil {
		return apperrors.NewPlaybackError(fmt.Sprintf("Failed to execute '%s' on %s", action, speakerName), err)
	}
	log.Printf("executed %q on %s", action, speakerName)
	return nil
}

// PlayURI plays audio from a URI on the named speaker. The URI is not
// validated beyond being non-empty; the device rejects malformed ones.
func (f *Facade) PlayURI(ctx context.Context, speakerName, uri string) error {
	if uri == "" {
		return apperrors.NewValidationError("URI must not be empty")
	}
	player, err := f.registry.Get(speakerName)
	if err != nil {
		return err
	}
	if err := player.PlayURI(ctx, uri, ""); err != nil {
		return apperrors.NewPlaybackError("Failed to play URI on "+speakerName, err)
	}
	log.Printf("playing URI on %s: %s", speakerName, uri)
	return nil
}

// PlayFavorite plays the favorite with the given title on the named
// speaker.
func (f *Facade) PlayFavorite(ctx context.Context, speakerName, title string) error {
	player, err := f.registry.Get(speakerName)
	if err != nil {
		return err
	}
	favorite, err := f.cache.GetByTitle(title)
	if err != nil {
		return err
	}
	if err := player.PlayURI(ctx, favorite.URI, favorite.Metadata); err != nil {
		return apperrors.NewPlaybackError(fmt.Sprintf("Failed to play favorite '%s' on %s", title, speakerName), err)
	}
	log.Printf("playing favorite %q on %s", title, speakerName)
	return nil
}

// PlayFavoriteIndex plays the favorite at the 1-based index on the group
// coordinator. An active group is required.
func (f *Facade) PlayFavoriteIndex(ctx context.Context, index int) error {
	favorite, err := f.cache.GetByIndex(index)
	if err != nil {
		return err
	}

	coordinator := f.groups.Coordinator()
	if coordinator == nil {
		return apperrors.NewGroupOperationError("No active group to play on", nil)
	}

	if err := coordinator.PlayURI(ctx, favorite.URI, favorite.Metadata); err != nil {
		return apperrors.NewPlaybackError(fmt.Sprintf("Failed to play favorite #%d on group", index), err)
	}

	f.mu.Lock()
	f.lastIndex = index
	f.mu.Unlock()

	log.Printf("playing favorite #%d %q on group", index, favorite.Title)
	return nil
}

// PlayNextFavorite advances to the next favorite with rollover, relative
// to the last index played on the group. Returns the index played.
func (f *Facade) PlayNextFavorite(ctx context.Context) (int, error) {
	count := f.cache.Len()
	if count == 0 {
		return 0, apperrors.NewValidationError("No favorites available to play")
	}

	f.mu.Lock()
	next := f.lastIndex%count + 1
	f.mu.Unlock()

	if err := f.PlayFavoriteIndex(ctx, next); err != nil {
		return 0, err
	}
	return next, nil
}

// NowPlaying reads the transient playback snapshot from the coordinator,
// or any speaker when no group exists. Idle systems and read failures
// both yield an all-empty snapshot.
func (f *Facade) NowPlaying(ctx context.Context) (sonos.Track, error) {
	if !f.registry.Initialized() {
		return sonos.Track{}, apperrors.NewNotInitialized()
	}

	player := f.groups.Coordinator()
	if player == nil {
		any, err := f.registry.GetAny()
		if err != nil {
			return sonos.Track{}, nil
		}
		player = any
	}

	track, err := player.NowPlaying(ctx)
	if err != nil {
		log.Printf("now-playing read failed on %s: %v", player.Name(), err)
		return sonos.Track{}, nil
	}
	return track, nil
}

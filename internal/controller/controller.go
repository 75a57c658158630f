// Package controller aggregates the managers behind a single facade and
// exposes them as the /api HTTP surface.
package controller

import (
	"context"

	"github.com/mauriceverhoeven/zoneos/internal/favorites"
	"github.com/mauriceverhoeven/zoneos/internal/groups"
	"github.com/mauriceverhoeven/zoneos/internal/playback"
	"github.com/mauriceverhoeven/zoneos/internal/sonos"
	"github.com/mauriceverhoeven/zoneos/internal/speakers"
)

// Controller is plain composition over the four managers; every method is
// a pass-through.
type Controller struct {
	Speakers  *speakers.Registry
	Favorites *favorites.Cache
	Groups    *groups.Manager
	Playback  *playback.Facade
}

func New(registry *speakers.Registry, cache *favorites.Cache, groupManager *groups.Manager, facade *playback.Facade) *Controller {
	return &Controller{
		Speakers:  registry,
		Favorites: cache,
		Groups:    groupManager,
		Playback:  facade,
	}
}

// Ready reports whether speaker discovery has completed. The HTTP layer
// answers 503 for every /api route until then.
func (c *Controller) Ready() bool {
	return c.Speakers.Initialized()
}

func (c *Controller) ListSpeakers() []string {
	return c.Speakers.List()
}

func (c *Controller) GetVolume(ctx context.Context, speaker string) (int, error) {
	return c.Speakers.GetVolume(ctx, speaker)
}

func (c *Controller) SetVolume(ctx context.Context, speaker string, volume int) error {
	return c.Speakers.SetVolume(ctx, speaker, volume)
}

func (c *Controller) ListFavorites() []sonos.Favorite {
	return c.Favorites.List()
}

func (c *Controller) RefreshFavorites(ctx context.Context) (int, error) {
	return c.Favorites.Refresh(ctx)
}

func (c *Controller) Control(ctx context.Context, speaker, action string) error {
	return c.Playback.Control(ctx, speaker, action)
}

func (c *Controller) PlayURI(ctx context.Context, speaker, uri string) error {
	return c.Playback.PlayURI(ctx, speaker, uri)
}

func (c *Controller) PlayFavorite(ctx context.Context, speaker, favorite string) error {
	return c.Playback.PlayFavorite(ctx, speaker, favorite)
}

func (c *Controller) PlayFavoriteIndex(ctx context.Context, index int) error {
	return c.Playback.PlayFavoriteIndex(ctx, index)
}

func (c *Controller) PlayNextFavorite(ctx context.Context) (int, error) {
	return c.Playback.PlayNextFavorite(ctx)
}

func (c *Controller) NowPlaying(ctx context.Context) (sonos.Track, error) {
	return c.Playback.NowPlaying(ctx)
}

func (c *Controller) SetGroup(ctx context.Context, speakerNames []string) error {
	return c.Groups.SetGroup(ctx, speakerNames)
}

func (c *Controller) GroupStatus(ctx context.Context) (groups.Status, error) {
	return c.Groups.Status(ctx)
}

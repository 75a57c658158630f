package sonos

import "context"

// Transport state values reported by Sonos hardware.
const (
	StatePlaying        = "PLAYING"
	StatePausedPlayback = "PAUSED_PLAYBACK"
	StateStopped        = "STOPPED"
)

// Player is one controllable speaker. The managers depend on this
// interface rather than the SOAP-backed Device so they can be exercised
// against scripted fakes.
type Player interface {
	// Name is the display name (Sonos room name), unique in a household.
	Name() string
	// UDN is the hardware identifier (RINCON_...), used for join URIs.
	UDN() string
	// Address is the device IP.
	Address() string

	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error

	Volume(ctx context.Context) (int, error)
	SetVolume(ctx context.Context, level int) error

	// PlayURI replaces the transport URI and starts playback. metadata is
	// optional DIDL-Lite required by some music services.
	PlayURI(ctx context.Context, uri, metadata string) error

	// Join makes this player a member of the coordinator's group.
	Join(ctx context.Context, coordinator Player) error
	// Unjoin restores this player as its own standalone group.
	Unjoin(ctx context.Context) error

	Favorites(ctx context.Context) ([]Favorite, error)
	NowPlaying(ctx context.Context) (Track, error)
	TransportState(ctx context.Context) (string, error)
	GroupInfo(ctx context.Context) (GroupInfo, error)
}

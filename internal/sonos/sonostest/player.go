// Package sonostest provides a scripted in-memory Player for manager and
// HTTP tests.
package sonostest

import (
	"context"
	"sync"

	"github.com/mauriceverhoeven/zoneos/internal/sonos"
)

// FakePlayer records every call and returns scripted results. The zero
// value is usable; set Err fields to script failures.
type FakePlayer struct {
	mu sync.Mutex

	PlayerName string
	PlayerUDN  string
	PlayerIP   string

	// Scripted state.
	VolumeLevel   int
	State         string
	Favs          []sonos.Favorite
	Track         sonos.Track
	Group         sonos.GroupInfo
	ControlErr    error
	VolumeErr     error
	PlayURIErr    error
	JoinErr       error
	UnjoinErr     error
	FavoritesErr  error
	NowPlayingErr error
	TransportErr  error
	GroupInfoErr  error

	// Recorded calls.
	Actions     []string
	PlayedURIs  []string
	PlayedMeta  []string
	SetVolumes  []int
	JoinedTo    []string
	JoinCount   int
	UnjoinCount int
}

// New returns a stopped fake with the given name. UDN and IP are derived
// from the name so topology lookups work without extra setup.
func New(name string) *FakePlayer {
	return &FakePlayer{
		PlayerName: name,
		PlayerUDN:  "RINCON_" + name,
		PlayerIP:   "192.0.2.1",
		State:      sonos.StateStopped,
	}
}

func (f *FakePlayer) Name() string    { return f.PlayerName }
func (f *FakePlayer) UDN() string     { return f.PlayerUDN }
func (f *FakePlayer) Address() string { return f.PlayerIP }

func (f *FakePlayer) record(action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ControlErr != nil {
		return f.ControlErr
	}
	f.Actions = append(f.Actions, action)
	switch action {
	case "play":
		f.State = sonos.StatePlaying
	case "pause":
		f.State = sonos.StatePausedPlayback
	case "stop":
		f.State = sonos.StateStopped
	}
	return nil
}

func (f *FakePlayer) Play(ctx context.Context) error     { return f.record("play") }
func (f *FakePlayer) Pause(ctx context.Context) error    { return f.record("pause") }
func (f *FakePlayer) Stop(ctx context.Context) error     { return f.record("stop") }
func (f *FakePlayer) Next(ctx context.Context) error     { return f.record("next") }
func (f *FakePlayer) Previous(ctx context.Context) error { return f.record("previous") }

func (f *FakePlayer) Volume(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.VolumeErr != nil {
		return 0, f.VolumeErr
	}
	return f.VolumeLevel, nil
}

func (f *FakePlayer) SetVolume(ctx context.Context, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.VolumeErr != nil {
		return f.VolumeErr
	}
	f.VolumeLevel = level
	f.SetVolumes = append(f.SetVolumes, level)
	return nil
}

func (f *FakePlayer) PlayURI(ctx context.Context, uri, metadata string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PlayURIErr != nil {
		return f.PlayURIErr
	}
	f.PlayedURIs = append(f.PlayedURIs, uri)
	f.PlayedMeta = append(f.PlayedMeta, metadata)
	f.State = sonos.StatePlaying
	return nil
}

func (f *FakePlayer) Join(ctx context.Context, coordinator sonos.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.JoinErr != nil {
		return f.JoinErr
	}
	f.JoinCount++
	f.JoinedTo = append(f.JoinedTo, coordinator.Name())
	return nil
}

func (f *FakePlayer) Unjoin(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UnjoinErr != nil {
		return f.UnjoinErr
	}
	f.UnjoinCount++
	return nil
}

func (f *FakePlayer) Favorites(ctx context.Context) ([]sonos.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FavoritesErr != nil {
		return nil, f.FavoritesErr
	}
	return append([]sonos.Favorite(nil), f.Favs...), nil
}

func (f *FakePlayer) NowPlaying(ctx context.Context) (sonos.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NowPlayingErr != nil {
		return sonos.Track{}, f.NowPlayingErr
	}
	return f.Track, nil
}

func (f *FakePlayer) TransportState(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TransportErr != nil {
		return "", f.TransportErr
	}
	return f.State, nil
}

func (f *FakePlayer) GroupInfo(ctx context.Context) (sonos.GroupInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GroupInfoErr != nil {
		return sonos.GroupInfo{}, f.GroupInfoErr
	}
	if f.Group.CoordinatorUDN == "" {
		return sonos.GroupInfo{CoordinatorUDN: f.PlayerUDN, MemberNames: []string{f.PlayerName}}, nil
	}
	return f.Group, nil
}

// TotalJoins sums joins across players, handy for asserting that a call
// performed no transport work.
func TotalJoins(players ...*FakePlayer) int {
	total := 0
	for _, p := range players {
		p.mu.Lock()
		total += p.JoinCount
		p.mu.Unlock()
	}
	return total
}

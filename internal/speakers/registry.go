// Package speakers holds the set of discovered speakers, keyed by display
// name. The registry is populated once at startup; there is no dynamic
// re-discovery.
package speakers

import (
	"context"
	"log"
	"sync"

	"github.com/mauriceverhoeven/zoneos/internal/apperrors"
	"github.com/mauriceverhoeven/zoneos/internal/sonos"
)

// Source enumerates reachable players. The server wires the SSDP+probe
// implementation; tests inject fakes.
type Source func(ctx context.Context) ([]sonos.Player, error)

// Registry maps display names to players, preserving discovery order.
type Registry struct {
	mu          sync.RWMutex
	order       []string
	byName      map[string]sonos.Player
	initialized bool
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]sonos.Player)}
}

// Discover populates the registry from the source. Zero speakers is a
// failure; the previous contents (normally empty) are kept in that case.
func (r *Registry) Discover(ctx context.Context, source Source) error {
	players, err := source(ctx)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return apperrors.NewNoSpeakersAvailable()
	}

	order := make([]string, 0, len(players))
	byName := make(map[string]sonos.Player, len(players))
	for _, player := range players {
		name := player.Name()
		if _, dup := byName[name]; dup {
			log.Printf("duplicate speaker name %q, keeping first", name)
			continue
		}
		byName[name] = player
		order = append(order, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = order
	r.byName = byName
	r.initialized = true
	return nil
}

// Initialized reports whether discovery has completed successfully.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Get returns the speaker with the exact display name.
func (r *Registry) Get(name string) (sonos.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.initialized {
		return nil, apperrors.NewNotInitialized()
	}
	player, ok := r.byName[name]
	if !ok {
		return nil, apperrors.NewSpeakerNotFound(name)
	}
	return player, nil
}

// GetAny returns an arbitrary speaker, used for household-wide queries
// that any member can answer.
func (r *Registry) GetAny() (sonos.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.initialized {
		return nil, apperrors.NewNotInitialized()
	}
	if len(r.order) == 0 {
		return nil, apperrors.NewNoSpeakersAvailable()
	}
	return r.byName[r.order[0]], nil
}

// List returns all known names in discovery order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// All returns the players in discovery order.
func (r *Registry) All() []sonos.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]sonos.Player, 0, len(r.order))
	for _, name := range r.order {
		players = append(players, r.byName[name])
	}
	return players
}

// ByUDN returns the player with the given hardware identifier.
func (r *Registry) ByUDN(udn string) (sonos.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, player := range r.byName {
		if player.UDN() == udn {
			return player, true
		}
	}
	return nil, false
}

// GetVolume reads the current volume of the named speaker.
func (r *Registry) GetVolume(ctx context.Context, name string) (int, error) {
	player, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	volume, err := player.Volume(ctx)
	if err != nil {
		return 0, apperrors.NewPlaybackError("Failed to get volume for "+name, err)
	}
	return volume, nil
}

// SetVolume sets the volume of the named speaker. Levels outside [0,100]
// fail validation before any transport call.
func (r *Registry) SetVolume(ctx context.Context, name string, level int) error {
	if level < 0 || level > 100 {
		return apperrors.NewValidationError("Volume must be an integer between 0 and 100")
	}
	player, err := r.Get(name)
	if err != nil {
		return err
	}
	if err := player.SetVolume(ctx, level); err != nil {
		return apperrors.NewPlaybackError("Failed to set volume for "+name, err)
	}
	return nil
}

// Package groups reconciles multi-room group membership against a desired
// speaker set. Reconciliation is best-effort: a transport failure aborts
// the operation but already-applied joins and unjoins are kept, not rolled
// back. Callers converge by re-posting the full desired set.
package groups

import (
	"context"
	"log"
	"sync"

	"github.com/mauriceverhoeven/zoneos/internal/apperrors"
	"github.com/mauriceverhoeven/zoneos/internal/sonos"
	"github.com/mauriceverhoeven/zoneos/internal/speakers"
)

// Status reports the tracked group members and their live volumes.
type Status struct {
	Members []string       `json:"members"`
	Volumes map[string]int `json:"volumes"`
}

// Manager tracks the single active group. Concurrent SetGroup calls are
// last-write-wins; the lock only keeps the tracking consistent.
type Manager struct {
	mu          sync.Mutex
	registry    *speakers.Registry
	coordinator sonos.Player
	members     []string
	memberSet   map[string]struct{}
}

func NewManager(registry *speakers.Registry) *Manager {
	return &Manager{
		registry:  registry,
		memberSet: make(map[string]struct{}),
	}
}

// SetGroup makes actual group membership match the desired names. The
// first name designates the coordinator, purely positionally; callers
// that care about audio ownership pass their preferred coordinator first.
func (m *Manager) SetGroup(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return apperrors.NewValidationError("No speakers provided for group")
	}

	// Resolve everything up front; an unknown name aborts the whole
	// operation before any speaker is touched.
	players := make([]sonos.Player, 0, len(names))
	desired := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := desired[name]; dup {
			continue
		}
		player, err := m.registry.Get(name)
		if err != nil {
			return err
		}
		desired[name] = struct{}{}
		players = append(players, player)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coordinator := players[0]

	// Unjoin current members that left the desired set.
	for _, name := range append([]string(nil), m.members...) {
		if _, keep := desired[name]; keep {
			continue
		}
		player, err := m.registry.Get(name)
		if err == nil {
			if err := player.Unjoin(ctx); err != nil {
				return apperrors.NewGroupOperationError("Failed to remove "+name+" from group", err)
			}
		}
		m.untrack(name)
		log.Printf("removed %s from group", name)
	}

	sameCoordinator := m.coordinator != nil && m.coordinator.Name() == coordinator.Name()

	// A coordinator change while the new coordinator is still joined to
	// the old group: detach it first so others can join behind it.
	if !sameCoordinator && len(m.members) > 0 {
		if _, tracked := m.memberSet[coordinator.Name()]; tracked {
			if err := coordinator.Unjoin(ctx); err != nil {
				return apperrors.NewGroupOperationError("Failed to promote "+coordinator.Name()+" to coordinator", err)
			}
			m.untrack(coordinator.Name())
		}
	}

	// Record the coordinator before joining so a partial failure leaves
	// accurate tracking behind and the retry skips completed joins.
	m.coordinator = coordinator
	m.track(coordinator.Name())

	// Join newcomers. Members already in the coordinator's group are
	// skipped, making a repeated identical call free of transport calls.
	for _, player := range players[1:] {
		if _, joined := m.memberSet[player.Name()]; joined && sameCoordinator {
			continue
		}
		if err := player.Join(ctx, coordinator); err != nil {
			return apperrors.NewGroupOperationError("Failed to add "+player.Name()+" to group", err)
		}
		m.track(player.Name())
		log.Printf("added %s to group", player.Name())
	}

	// Fully reconciled: normalize tracking to the given order.
	m.members = m.members[:0]
	for _, player := range players {
		m.members = append(m.members, player.Name())
	}
	return nil
}

// Status returns the tracked member names and a live volume reading for
// each member. Members whose volume read fails are listed without one.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	if !m.registry.Initialized() {
		return Status{}, apperrors.NewNotInitialized()
	}

	m.mu.Lock()
	members := append([]string(nil), m.members...)
	m.mu.Unlock()

	status := Status{Members: members, Volumes: make(map[string]int, len(members))}
	for _, name := range members {
		volume, err := m.registry.GetVolume(ctx, name)
		if err != nil {
			log.Printf("volume read failed for %s: %v", name, err)
			continue
		}
		status.Volumes[name] = volume
	}
	return status, nil
}

// Coordinator returns the current group coordinator, or nil when no group
// has been formed.
func (m *Manager) Coordinator() sonos.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coordinator
}

// Members returns the tracked member names.
func (m *Manager) Members() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.members...)
}

// Initialize forms the startup group from all discovered speakers. When a
// speaker is already playing or paused, its existing hardware group is
// adopted as-is instead of interrupting the stream by regrouping.
func (m *Manager) Initialize(ctx context.Context) error {
	players := m.registry.All()
	if len(players) == 0 {
		log.Printf("no speakers available for group initialization")
		return nil
	}

	for _, player := range players {
		state, err := player.TransportState(ctx)
		if err != nil {
			continue
		}
		if state != sonos.StatePlaying && state != sonos.StatePausedPlayback {
			continue
		}

		info, err := player.GroupInfo(ctx)
		if err != nil {
			log.Printf("failed to read existing group for %s: %v", player.Name(), err)
			break
		}
		m.adopt(info)
		log.Printf("preserved existing group around %s (%d members, content is playing)", player.Name(), len(info.MemberNames))
		return nil
	}

	// Nothing playing: regroup everyone behind the first speaker.
	coordinator := players[0]
	for _, player := range players {
		if err := player.Unjoin(ctx); err != nil {
			return apperrors.NewGroupOperationError("Failed to initialize group", err)
		}
	}
	for _, player := range players[1:] {
		if err := player.Join(ctx, coordinator); err != nil {
			return apperrors.NewGroupOperationError("Failed to initialize group", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.coordinator = coordinator
	m.members = m.members[:0]
	m.memberSet = make(map[string]struct{}, len(players))
	for _, player := range players {
		m.members = append(m.members, player.Name())
		m.memberSet[player.Name()] = struct{}{}
	}
	log.Printf("initialized group with coordinator %s and %d members", coordinator.Name(), len(players))
	return nil
}

func (m *Manager) adopt(info sonos.GroupInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.members = m.members[:0]
	m.memberSet = make(map[string]struct{}, len(info.MemberNames))
	for _, name := range info.MemberNames {
		if _, err := m.registry.Get(name); err != nil {
			continue
		}
		m.members = append(m.members, name)
		m.memberSet[name] = struct{}{}
	}

	if coordinator, ok := m.registry.ByUDN(info.CoordinatorUDN); ok {
		m.coordinator = coordinator
	} else if len(m.members) > 0 {
		if player, err := m.registry.Get(m.members[0]); err == nil {
			m.coordinator = player
		}
	}
}

func (m *Manager) track(name string) {
	if _, ok := m.memberSet[name]; ok {
		return
	}
	m.memberSet[name] = struct{}{}
	m.members = append(m.members, name)
}

func (m *Manager) untrack(name string) {
	if _, ok := m.memberSet[name]; !ok {
		return
	}
	delete(m.memberSet, name)
	for i, member := range m.members {
		if member == name {
			m.members = append(m.members[:i], m.members[i+1:]...)
			break
		}
	}
}

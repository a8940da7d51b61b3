// internal/room/store.go
package room

import (
	"sync"

	"github.com/jason-s-yu/stack/internal/game"
	"github.com/sirupsen/logrus"
)

// Factory builds the runtime for a new room.
type Factory func(roomID string) *game.StackGame

// Store maps room ids to their game runtime. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	rooms   map[string]*game.StackGame
	factory Factory
}

// NewStore returns an empty registry that creates rooms with factory.
func NewStore(factory Factory) *Store {
	return &Store{rooms: make(map[string]*game.StackGame), factory: factory}
}

// GetOrCreate returns the room for roomID, creating it if absent. created
// reports whether this call made the room. Concurrent callers for the same id
// always receive the same instance.
func (s *Store) GetOrCreate(roomID string) (g *game.StackGame, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.rooms[roomID]; ok {
		return g, false
	}
	g = s.factory(roomID)
	s.rooms[roomID] = g
	logrus.WithFields(logrus.Fields{"room": roomID, "game": g.ID}).Info("room created")
	return g, true
}

// Get returns the room for roomID, if any.
func (s *Store) Get(roomID string) (*game.StackGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.rooms[roomID]
	return g, ok
}

// Remove closes and forgets a room.
func (s *Store) Remove(roomID string) {
	s.mu.Lock()
	g, ok := s.rooms[roomID]
	delete(s.rooms, roomID)
	s.mu.Unlock()
	if ok {
		g.Close()
	}
}

// RemoveIfIdle closes and forgets roomID only while it still maps to g and
// nobody is connected to g. A player joining concurrently either lands in g
// before the check, keeping it, or finds g closed and retries into a new room.
func (s *Store) RemoveIfIdle(roomID string, g *game.StackGame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rooms[roomID] != g || !g.CloseIfIdle() {
		return false
	}
	delete(s.rooms, roomID)
	logrus.WithFields(logrus.Fields{"room": roomID, "game": g.ID}).Info("room removed")
	return true
}

// Len returns the number of rooms.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Close stops every room's timers.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, g := range s.rooms {
		g.Close()
		delete(s.rooms, id)
	}
}

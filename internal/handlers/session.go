package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

// session is one in-memory game. mu serializes every action on ctrl.
type session struct {
	game.NopListener

	mu      sync.Mutex
	id      uuid.UUID
	ctrl    *game.Controller
	result  *game.WinReport
	touched time.Time
}

func (s *session) Started(mines.Difficulty) { s.result = nil }
func (s *session) Won(r game.WinReport)     { s.result = &r }

func (s *session) dto() *GameSessionDTO {
	return NewGameSessionDTO(s.id.String(), s.ctrl, s.result)
}

type sessions struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*session
}

func newSessions() *sessions {
	return &sessions{byID: make(map[uuid.UUID]*session)}
}

func (ss *sessions) add(s *session) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.byID[s.id] = s
}

func (ss *sessions) get(id uuid.UUID) (*session, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.byID[id]
	return s, ok
}

func (ss *sessions) len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.byID)
}

// sweep drops sessions untouched since before deadline.
func (ss *sessions) sweep(deadline time.Time) int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for id, s := range ss.byID {
		if !s.mu.TryLock() {
			continue
		}
		idle := s.touched.Before(deadline)
		s.mu.Unlock()
		if idle {
			delete(ss.byID, id)
			n++
		}
	}
	return n
}

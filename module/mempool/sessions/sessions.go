package sessions

import (
	"sync"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module/mempool"
)

// Sessions is a concurrency-safe map of the tasks being solved.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[dispute.TaskID]*dispute.Session
}

var _ mempool.Sessions = (*Sessions)(nil)

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[dispute.TaskID]*dispute.Session)}
}

func (s *Sessions) Add(session *dispute.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.TaskID] = session.Copy()
}

func (s *Sessions) ByTask(id dispute.TaskID) (*dispute.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return session.Copy(), true
}

func (s *Sessions) Remove(id dispute.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

package bot

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/history"
)

// session holds per-user state: the single-flight analysis guard and the
// in-memory history list. The history is loaded from the store once per
// session and kept as the source of truth afterwards; the store only ever
// receives wholesale snapshots of it.
type session struct {
	userID int64

	mu       sync.Mutex
	inFlight bool
	loaded   bool
	items    []history.Item
}

// beginAnalysis marks an analysis as in flight. It returns false when one
// is already pending, which makes a second trigger a no-op.
func (s *session) beginAnalysis() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *session) endAnalysis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
}

// history returns the user's history, loading the persisted snapshot on
// first access. Load problems have already been degraded to an empty list
// by the store.
func (s *session) history(store history.Store) []history.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(store)
	return s.items
}

// appendHistory prepends item, enforces the cap and persists the snapshot.
// A failed write is logged but doesn't fail the analysis that produced the
// item.
func (s *session) appendHistory(store history.Store, item history.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(store)
	s.items = history.Prepend(s.items, item)
	if err := store.Save(s.userID, s.items); err != nil {
		log.Warn().Err(err).Int64("user_id", s.userID).Msg("failed to persist history snapshot")
	}
}

// clearHistory drops the in-memory list and the persisted snapshot.
func (s *session) clearHistory(store history.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.loaded = true
	if err := store.Clear(s.userID); err != nil {
		log.Warn().Err(err).Int64("user_id", s.userID).Msg("failed to clear history")
	}
}

func (s *session) ensureLoadedLocked(store history.Store) {
	if s.loaded {
		return
	}
	items, err := store.Load(s.userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", s.userID).Msg("failed to load history, starting empty")
		items = nil
	}
	s.items = items
	s.loaded = true
}

// sessionRegistry hands out one session per Telegram user.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[int64]*session)}
}

func (r *sessionRegistry) get(userID int64) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		s = &session{userID: userID}
		r.sessions[userID] = s
	}
	return s
}

package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/cmlabs-hris/usermanager/internal/service/form"
)

var ErrBusy = errors.New("request already in progress")

// Workspace is the client state of one browser session. Access to the
// presenter is serialized. Only one mutation may be in flight: a second one
// fails fast with ErrBusy so a double submit is not sent twice, while views
// and field syncs just wait their turn.
type Workspace struct {
	mu        sync.Mutex
	busy      atomic.Bool
	presenter *Presenter
}

func (w *Workspace) View(fn func(p *Presenter) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.presenter)
}

// Mutate claims the mutation slot and then waits for the presenter like View.
func (w *Workspace) Mutate(fn func(p *Presenter) error) error {
	if !w.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer w.busy.Store(false)

	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.presenter)
}

type storeEntry struct {
	workspace *Workspace
	lastSeen  time.Time
}

// Store keeps one Workspace per session id.
type Store struct {
	client  employee.Client
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*storeEntry
}

func NewStore(client employee.Client, idleTTL time.Duration) *Store {
	return &Store{
		client:  client,
		idleTTL: idleTTL,
		now:     time.Now,
		entries: make(map[string]*storeEntry),
	}
}

// Get returns the workspace for sessionID, creating it on first use.
func (s *Store) Get(sessionID string) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		entry = &storeEntry{
			workspace: &Workspace{presenter: NewPresenter(s.client, form.NewReconciler())},
		}
		s.entries[sessionID] = entry
	}
	entry.lastSeen = s.now()
	return entry.workspace
}

func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// EvictIdle drops workspaces not used within the idle TTL. It has the
// signature of a cron job.
func (s *Store) EvictIdle(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	evicted := 0
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		slog.Info("Idle workspaces evicted", "count", evicted, "remaining", len(s.entries))
	}
	return nil
}

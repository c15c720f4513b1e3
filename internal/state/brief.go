// internal/state/brief.go
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecurringBrief is a campaign brief generated on a cron schedule.
type RecurringBrief struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Brief     string    `json:"brief"`
	Schedule  string    `json:"schedule"` // cron expression
	Notify    string    `json:"notify,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	LastRun   time.Time `json:"last_run,omitzero"`
}

// BriefStore is a JSON-file-backed store for recurring briefs. All
// briefs live in a single briefs.json file.
type BriefStore struct {
	root string
	mu   sync.Mutex
}

// NewBriefStore creates a new file-backed BriefStore rooted at the
// given directory.
func NewBriefStore(root string) *BriefStore {
	return &BriefStore{root: root}
}

func (s *BriefStore) path() string {
	return filepath.Join(s.root, "briefs.json")
}

func (s *BriefStore) load() ([]*RecurringBrief, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return []*RecurringBrief{}, nil
		}
		return nil, fmt.Errorf("read briefs: %w", err)
	}
	var briefs []*RecurringBrief
	if err := json.Unmarshal(data, &briefs); err != nil {
		return nil, fmt.Errorf("unmarshal briefs: %w", err)
	}
	return briefs, nil
}

func (s *BriefStore) save(briefs []*RecurringBrief) error {
	data, err := json.MarshalIndent(briefs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal briefs: %w", err)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp briefs: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp briefs: %w", err)
	}
	return nil
}

// Add registers a new recurring brief and returns it.
func (s *BriefStore) Add(name, brief, schedule, notify string) (*RecurringBrief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	briefs, err := s.load()
	if err != nil {
		return nil, err
	}
	rb := &RecurringBrief{
		ID:        uuid.New().String(),
		Name:      name,
		Brief:     brief,
		Schedule:  schedule,
		Notify:    notify,
		Enabled:   true,
		CreatedAt: time.Now(),
	}
	briefs = append(briefs, rb)
	if err := s.save(briefs); err != nil {
		return nil, err
	}
	return rb, nil
}

// List returns all recurring briefs.
func (s *BriefStore) List() ([]*RecurringBrief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the brief matching the given ID or name.
func (s *BriefStore) Get(idOrName string) (*RecurringBrief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	briefs, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, rb := range briefs {
		if rb.ID == idOrName || rb.Name == idOrName {
			return rb, nil
		}
	}
	return nil, fmt.Errorf("brief not found: %s", idOrName)
}

// Remove deletes the brief matching the given ID or name.
func (s *BriefStore) Remove(idOrName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	briefs, err := s.load()
	if err != nil {
		return err
	}
	for i, rb := range briefs {
		if rb.ID == idOrName || rb.Name == idOrName {
			return s.save(append(briefs[:i], briefs[i+1:]...))
		}
	}
	return fmt.Errorf("brief not found: %s", idOrName)
}

// SetEnabled toggles a brief's enabled flag.
func (s *BriefStore) SetEnabled(idOrName string, enabled bool) error {
	return s.update(idOrName, func(rb *RecurringBrief) {
		rb.Enabled = enabled
	})
}

// MarkRun records that a brief just ran.
func (s *BriefStore) MarkRun(id string, at time.Time) error {
	return s.update(id, func(rb *RecurringBrief) {
		rb.LastRun = at
	})
}

func (s *BriefStore) update(idOrName string, fn func(*RecurringBrief)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	briefs, err := s.load()
	if err != nil {
		return err
	}
	for _, rb := range briefs {
		if rb.ID == idOrName || rb.Name == idOrName {
			fn(rb)
			return s.save(briefs)
		}
	}
	return fmt.Errorf("brief not found: %s", idOrName)
}

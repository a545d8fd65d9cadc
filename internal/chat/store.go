package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

const storeFilename = "conversations.json"

// Store persists conversations as a single JSON document on disk. All
// operations rewrite the file; callers hold full conversation values, so the
// store never hands out shared mutable state.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{
		path: filepath.Join(baseDir, storeFilename),
	}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// List returns all conversations, most recently updated first. A missing file
// yields an empty list.
func (s *Store) List() ([]Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Get returns the conversation with the given id.
func (s *Store) Get(id uuid.UUID) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.load()
	if err != nil {
		return Conversation{}, err
	}
	for _, c := range conversations {
		if c.ID == id {
			return c, nil
		}
	}

	return Conversation{}, fmt.Errorf("conversation %s not found", id)
}

// Create persists a new empty conversation and returns it.
func (s *Store) Create() (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.load()
	if err != nil {
		return Conversation{}, err
	}

	c := NewConversation()
	conversations = append([]Conversation{c}, conversations...)
	if err := s.save(conversations); err != nil {
		return Conversation{}, err
	}

	return c, nil
}

// Update replaces the stored conversation with the same id.
func (s *Store) Update(c Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.load()
	if err != nil {
		return err
	}

	found := false
	for i := range conversations {
		if conversations[i].ID == c.ID {
			conversations[i] = c
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("conversation %s not found", c.ID)
	}

	return s.save(conversations)
}

// Delete removes the conversation with the given id. Deleting an unknown id is
// not an error.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.load()
	if err != nil {
		return err
	}

	kept := conversations[:0]
	for _, c := range conversations {
		if c.ID != id {
			kept = append(kept, c)
		}
	}

	return s.save(kept)
}

func (s *Store) load() ([]Conversation, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read conversations file: %w", err)
	}

	var conversations []Conversation
	if err := json.Unmarshal(data, &conversations); err != nil {
		return nil, fmt.Errorf("unmarshal conversations: %w", err)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})

	return conversations, nil
}

func (s *Store) save(conversations []Conversation) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	data, err := json.MarshalIndent(conversations, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal conversations: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write conversations file: %w", err)
	}

	return os.Rename(tmp, s.path)
}

// Package settings is the on-device store for per-provider credentials,
// system prompts, and daemon options. It backs the credential and
// system-prompt collaborator interfaces consumed by the gateway.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/jdehlin/aigent/internal/catalog"
)

const (
	DefaultPort             = 8473
	DefaultHost             = "127.0.0.1"
	DefaultSettingsFilename = "settings.json"
)

// Settings is the on-disk document. API keys and system prompts are keyed by
// provider display name.
type Settings struct {
	Host          string            `json:"host,omitempty"`
	Port          int               `json:"port,omitempty"`
	AuthKey       string            `json:"auth_key,omitempty"`
	APIKeys       map[string]string `json:"api_keys,omitempty"`
	SystemPrompts map[string]string `json:"system_prompts,omitempty"`
	TavilyAPIKey  string            `json:"tavily_api_key,omitempty"`
}

// Manager loads and persists settings, serving reads from an atomic snapshot
// so concurrent dispatches never observe a half-written document.
type Manager struct {
	path  string
	value atomic.Value
	mu    sync.Mutex // serializes read-modify-write cycles
}

func NewManager(baseDir string) *Manager {
	return &Manager{
		path: filepath.Join(baseDir, DefaultSettingsFilename),
	}
}

func (m *Manager) Load() (*Settings, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	applyDefaults(&s)
	m.value.Store(&s)

	return &s, nil
}

// Get returns the current snapshot, falling back to defaults when no settings
// file exists yet.
func (m *Manager) Get() *Settings {
	if v := m.value.Load(); v != nil {
		return v.(*Settings)
	}

	s, err := m.Load()
	if err != nil {
		def := &Settings{}
		applyDefaults(def)
		return def
	}

	return s
}

func (m *Manager) Save(s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	m.value.Store(s)

	return nil
}

func (m *Manager) GetPath() string {
	return m.path
}

func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// APIKey returns the credential configured for p, if any.
func (m *Manager) APIKey(p catalog.Provider) (string, bool) {
	key, ok := m.Get().APIKeys[p.DisplayName()]
	return key, ok && key != ""
}

// HasAPIKey reports whether a credential is configured for p.
func (m *Manager) HasAPIKey(p catalog.Provider) bool {
	_, ok := m.APIKey(p)
	return ok
}

// SetAPIKey stores the credential for p.
func (m *Manager) SetAPIKey(p catalog.Provider, key string) error {
	return m.mutate(func(s *Settings) {
		if s.APIKeys == nil {
			s.APIKeys = make(map[string]string)
		}
		s.APIKeys[p.DisplayName()] = key
	})
}

// DeleteAPIKey removes the credential for p.
func (m *Manager) DeleteAPIKey(p catalog.Provider) error {
	return m.mutate(func(s *Settings) {
		delete(s.APIKeys, p.DisplayName())
	})
}

// SystemPrompt returns the system prompt configured for p, or "".
func (m *Manager) SystemPrompt(p catalog.Provider) string {
	return m.Get().SystemPrompts[p.DisplayName()]
}

// SetSystemPrompt stores the system prompt for p; an empty prompt clears it.
func (m *Manager) SetSystemPrompt(p catalog.Provider, prompt string) error {
	return m.mutate(func(s *Settings) {
		if prompt == "" {
			delete(s.SystemPrompts, p.DisplayName())
			return
		}
		if s.SystemPrompts == nil {
			s.SystemPrompts = make(map[string]string)
		}
		s.SystemPrompts[p.DisplayName()] = prompt
	})
}

// TavilyKey returns the search fallback credential, or "".
func (m *Manager) TavilyKey() string {
	return m.Get().TavilyAPIKey
}

// SetTavilyKey stores the search fallback credential.
func (m *Manager) SetTavilyKey(key string) error {
	return m.mutate(func(s *Settings) {
		s.TavilyAPIKey = key
	})
}

func (m *Manager) mutate(fn func(*Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.Get()
	next := *current
	next.APIKeys = cloneMap(current.APIKeys)
	next.SystemPrompts = cloneMap(current.SystemPrompts)

	fn(&next)

	return m.Save(&next)
}

func applyDefaults(s *Settings) {
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.Host == "" {
		s.Host = DefaultHost
	}
}

func cloneMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

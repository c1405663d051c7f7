// Package handoff carries a generated probe script from the command that
// produced it to the next one that displays it. A saved script is consumed
// by the first Take and never survives it.
package handoff

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/plexsphere/weftctl/internal/fsutil"
)

// Key is the fixed name the pending script is stored under.
const Key = "quickTestCmds"

// Config holds the configuration for the handoff store.
type Config struct {
	// Dir is where the pending script is kept.
	// Default: $XDG_RUNTIME_DIR/weftctl, or <tmp>/weftctl-<uid>
	Dir string `yaml:"dir"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Dir == "" {
		c.Dir = DefaultDir()
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return errors.New("handoff: config: Dir is required")
	}
	return nil
}

// DefaultDir returns the session-scoped directory for the handoff file.
func DefaultDir() string {
	if d := os.Getenv("XDG_RUNTIME_DIR"); d != "" {
		return filepath.Join(d, "weftctl")
	}
	return filepath.Join(os.TempDir(), "weftctl-"+strconv.Itoa(os.Getuid()))
}

// Store keeps at most one pending script.
type Store struct {
	dir string
}

// NewStore creates a Store in dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Save replaces the pending script with script, verbatim.
func (s *Store) Save(script string) error {
	if err := fsutil.WriteFileAtomic(s.dir, Key, []byte(script), 0o600); err != nil {
		return fmt.Errorf("handoff: save: %w", err)
	}
	return nil
}

// Take returns the pending script and clears it. ok is false when nothing
// is pending. The file is renamed before it is read so that concurrent
// takers cannot both receive the same script.
func (s *Store) Take() (script string, ok bool, err error) {
	path := filepath.Join(s.dir, Key)
	claimed := filepath.Join(s.dir, fmt.Sprintf(".%s-taken-%d", Key, os.Getpid()))

	if err := os.Rename(path, claimed); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("handoff: claim: %w", err)
	}
	defer os.Remove(claimed)

	data, err := os.ReadFile(claimed)
	if err != nil {
		return "", false, fmt.Errorf("handoff: read: %w", err)
	}
	return string(data), true, nil
}

// Pending reports whether a script is waiting without consuming it.
func (s *Store) Pending() (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, Key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("handoff: stat: %w", err)
}

// Package confutil loads the optional client configuration file. Settings
// resolve in order: built-in defaults, then the config file, then flags.
package confutil

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/zurutech/dicey-go/ipc"
)

// Config carries the tunables a user can persist instead of passing on
// every invocation.
type Config struct {
	// Address of the server to connect to, in "unix:PATH" or
	// "npipe:NAME" form.
	Address string

	// Timeout bounds a single request round trip.
	Timeout time.Duration

	// EventQueueSize sizes the buffer for incoming events.
	EventQueueSize int
}

// Default returns the built-in settings used when no config file exists.
func Default() Config {
	return Config{
		Timeout:        ipc.DefaultTimeout,
		EventQueueSize: ipc.DefaultEventQueueSize,
	}
}

// Dir returns the directory holding the config file. DICEY_CONFIG_DIR
// overrides the per-user default.
func Dir() string {
	if dir := os.Getenv("DICEY_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dicey")
}

// Load reads the config file under dir, applying defaults for anything
// unset. A missing file is not an error.
func Load(dir string) (Config, error) {
	cfg := Default()
	if dir == "" {
		return cfg, nil
	}

	tree, err := loadConfigTree(filepath.Join(dir, "config.toml"))
	if err != nil || tree == nil {
		return cfg, err
	}

	if v, ok := tree.Get("address").(string); ok {
		cfg.Address = v
	}
	if v, ok := tree.Get("timeout_ms").(int64); ok {
		if v <= 0 {
			return cfg, errors.Errorf("timeout_ms must be positive, got %d", v)
		}
		cfg.Timeout = time.Duration(v) * time.Millisecond
	}
	if v, ok := tree.Get("event_queue_size").(int64); ok {
		if v <= 0 {
			return cfg, errors.Errorf("event_queue_size must be positive, got %d", v)
		}
		cfg.EventQueueSize = int(v)
	}

	return cfg, nil
}

// loadConfigTree loads a client config toml tree
func loadConfigTree(fp string) (*toml.Tree, error) {
	f, err := os.Open(fp)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to load config from %s", fp)
	}
	defer f.Close()
	t, err := toml.LoadReader(f)
	if err != nil {
		return t, errors.Wrap(err, "failed to parse config")
	}
	return t, nil
}

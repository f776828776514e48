package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the user configuration, read from
// ~/.config/railsmith/config.toml. Every field is optional; the zero
// value is a working default.
type Config struct {
	Cache struct {
		// Dir overrides the XDG cache directory.
		Dir string `toml:"dir"`
		// Disable turns off result caching entirely.
		Disable bool `toml:"disable"`
	} `toml:"cache"`

	Backup struct {
		// Dir overrides where snapshot backups are stored.
		Dir string `toml:"dir"`
	} `toml:"backup"`

	Redis struct {
		// Addr points the serve command at a shared redis cache
		// (host:port). Empty means file cache.
		Addr string `toml:"addr"`
	} `toml:"redis"`

	Defaults struct {
		// Types restricts operations to these note types when no
		// --types flag is given ("right", "left", "single", "both").
		Types []string `toml:"types"`
		// Interpolation is the default resample mode ("linear" or
		// "smooth").
		Interpolation string `toml:"interpolation"`
	} `toml:"defaults"`
}

// LoadConfig reads the user config file. A missing or unreadable file
// yields the zero config; a malformed file is also ignored rather than
// blocking every command.
func LoadConfig() *Config {
	cfg := &Config{}
	dir, err := configDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	_, _ = toml.DecodeFile(path, cfg)
	return cfg
}

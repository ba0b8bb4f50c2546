package emu

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"

	"nescore/emu/log"
	"nescore/hw"
)

type Config struct {
	Emulation EmulationConfig `toml:"emulation"`
	Video     VideoConfig     `toml:"video"`
	Input     InputConfig     `toml:"input"`

	TraceOut io.Writer `toml:"-"`
}

type EmulationConfig struct {
	Speed      Speed  `toml:"speed"`
	FrameLimit uint64 `toml:"frame_limit"` // 0 means unlimited
	Script     string `toml:"script"`
}

type VideoConfig struct {
	StatsviewAddr string `toml:"statsview_addr"`
}

// InputConfig maps keyboard keys to the buttons of the first controller.
type InputConfig struct {
	Keys map[string]string `toml:"keys"`
}

// KeyMap returns the key to button mapping. Unknown buttons and keys made of
// more than one character are reported as errors.
func (icfg InputConfig) KeyMap() (map[byte]hw.Button, error) {
	km := make(map[byte]hw.Button, len(icfg.Keys))
	for key, name := range icfg.Keys {
		if len(key) != 1 {
			return nil, errors.Errorf("invalid key %q, must be a single character", key)
		}
		b, ok := hw.ButtonByName(name)
		if !ok {
			return nil, errors.Errorf("key %q: unknown button %q", key, name)
		}
		km[key[0]] = b
	}
	return km, nil
}

func DefaultConfig() Config {
	return Config{
		Emulation: EmulationConfig{Speed: Normal},
		Video:     VideoConfig{StatsviewAddr: "localhost:12600"},
		Input: InputConfig{
			Keys: map[string]string{
				"k": "A",
				"j": "B",
				"g": "Select",
				"h": "Start",
				"w": "Up",
				"s": "Down",
				"a": "Left",
				"d": "Right",
			},
		},
	}
}

// ConfigDir returns the nescore configuration directory, creating it if needed.
var ConfigDir = sync.OnceValue(func() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		log.ModEmu.Fatalf("failed to locate user config directory: %v", err)
	}
	dir = filepath.Join(dir, "nescore")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// DefaultConfigPath is the path of the configuration file inside ConfigDir.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), cfgFilename)
}

// LoadConfigOrDefault loads the configuration at path, or provides the default
// one if the file doesn't exist. Values absent from the file keep their
// default.
func LoadConfigOrDefault(path string) (Config, error) {
	cfg := DefaultConfig()
	_, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		log.ModEmu.InfoZ("no config file, using defaults").String("path", path).End()
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// SaveConfig writes cfg at path.
func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return os.WriteFile(path, buf, 0o644)
}

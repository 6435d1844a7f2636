package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PixPMusic/gopher-launchkey/internal/actions"
	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"github.com/PixPMusic/gopher-launchkey/internal/midi"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DefaultPortHint matches the Launchkey's DAW port pair
const DefaultPortHint = "MIDI 2"

// DeviceConfig selects the surface and its ports
type DeviceConfig struct {
	Type     midi.DeviceType `yaml:"type"`
	InPort   string          `yaml:"in_port,omitempty"`   // MIDI input port name
	OutPort  string          `yaml:"out_port,omitempty"`  // MIDI output port name
	PortHint string          `yaml:"port_hint,omitempty"` // used when ports are empty
}

// ChainConfig places a chain at a visual position
type ChainConfig struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	MixerChannel int    `yaml:"mixer_channel"`
}

// NewChainConfig creates a chain with a generated ID
func NewChainConfig(name string, mixerChannel int) ChainConfig {
	return ChainConfig{
		ID:           uuid.New().String(),
		Name:         name,
		MixerChannel: mixerChannel,
	}
}

// Config holds application configuration
type Config struct {
	Device DeviceConfig `yaml:"device"`
	// ForwardPort receives keyboard notes and pass-through messages
	ForwardPort string `yaml:"forward_port,omitempty"`
	// SettleDelay overrides the device's delay before the first pad refresh
	SettleDelay time.Duration     `yaml:"settle_delay,omitempty"`
	LogLevel    string            `yaml:"log_level"`
	Chains      []ChainConfig     `yaml:"chains"`
	Bindings    []actions.Binding `yaml:"bindings"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{
		Device: DeviceConfig{
			Type:     midi.DeviceTypeLaunchkeyMini,
			PortHint: DefaultPortHint,
		},
		LogLevel: "info",
		Chains:   []ChainConfig{},
		Bindings: []actions.Binding{},
	}
	return cfg
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "gopher-launchkey"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default location, returning defaults if
// not found
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the config from path, returning defaults if not found
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Ensure slices are not nil
	if cfg.Chains == nil {
		cfg.Chains = []ChainConfig{}
	}
	if cfg.Bindings == nil {
		cfg.Bindings = []actions.Binding{}
	}
	if cfg.Device.Type == "" {
		cfg.Device.Type = midi.DeviceTypeLaunchkeyMini
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the engine relies on
func (c *Config) Validate() error {
	known := false
	for _, t := range midi.KnownDeviceTypes() {
		if c.Device.Type == t {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown device type %q", c.Device.Type)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay cannot be negative")
	}

	var errs []error
	for i, ch := range c.Chains {
		if !host.ValidMixerChannel(ch.MixerChannel) {
			errs = append(errs, fmt.Errorf("chain %d (%s): mixer_channel %d out of range 0-%d",
				i, ch.Name, ch.MixerChannel, host.MaxMixerChannel))
		}
	}
	return errors.Join(errs...)
}

// Save writes the config to the default location
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Routing returns the chain layout in position order
func (c *Config) Routing() []host.Channel {
	out := make([]host.Channel, 0, len(c.Chains))
	for _, ch := range c.Chains {
		out = append(out, host.Channel{Mixer: ch.MixerChannel, Chain: ch.Name})
	}
	return out
}

// AddChain appends a chain to the layout
func (c *Config) AddChain(chain ChainConfig) {
	c.Chains = append(c.Chains, chain)
}

// RemoveChain removes a chain by ID
func (c *Config) RemoveChain(id string) {
	for i, ch := range c.Chains {
		if ch.ID == id {
			c.Chains = append(c.Chains[:i], c.Chains[i+1:]...)
			return
		}
	}
}

// GetBindingStore returns a BindingStore populated with the config's bindings
func (c *Config) GetBindingStore() *actions.BindingStore {
	return actions.NewBindingStore(c.Bindings)
}

// SyncBindingStore updates the config's bindings from a BindingStore
func (c *Config) SyncBindingStore(store *actions.BindingStore) {
	c.Bindings = store.Bindings
}

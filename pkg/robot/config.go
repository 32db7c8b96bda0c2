package robot

import (
	"encoding/json"
	"os"

	"github.com/lesurgeon/lesurgeon/pkg/ports"
)

const DefaultConfigFile = "lesurgeon.json"

// Config holds the rig configuration. Arms are identified by USB serial
// number, never by device path: paths shuffle when the USB topology
// changes, serials do not. Ports are resolved fresh on every invocation.
type Config struct {
	Leader   ArmConfig `json:"leader"`
	Follower ArmConfig `json:"follower"`
}

// ArmConfig holds the persisted identity and calibration for a single arm.
type ArmConfig struct {
	Serial      string      `json:"serial"`
	Calibration Calibration `json:"calibration,omitempty"`
}

// IsCalibrated returns true if the arm has calibration data
func (a *ArmConfig) IsCalibrated() bool {
	return len(a.Calibration) > 0
}

// Targets returns the serial numbers to resolve, falling back to the rig's
// stock serials when identify has not been run.
func (c *Config) Targets() ports.Targets {
	t := ports.DefaultTargets()
	if c.Leader.Serial != "" {
		t.LeaderSerial = c.Leader.Serial
	}
	if c.Follower.Serial != "" {
		t.FollowerSerial = c.Follower.Serial
	}
	return t
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}

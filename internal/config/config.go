// Package config loads the proxy's YAML configuration file. Parsing
// itself is an ambient concern (spec §1 names configuration file
// parsing as an external collaborator); this package is the core's
// only contact point with it.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"growatt-proxy/internal/dispatch"
)

type Config struct {
	ListenAddress   string `yaml:"listen_address"`
	ListenPort      int    `yaml:"listen_port"`
	UpstreamAddress string `yaml:"upstream_address"`
	UpstreamPort    int    `yaml:"upstream_port"`

	Logging LoggingConfig       `yaml:"logging"`
	MQTT    dispatch.MQTTConfig `yaml:"mqtt"`

	// DTCMapping filters published register ids per device-type code
	// (spec §4.4 step 6, §6). Absence of a DTC entry means every
	// register in the active map is emitted.
	DTCMapping map[int][]int `yaml:"dtc_mapping"`

	Control ControlConfig `yaml:"control"`
}

type LoggingConfig struct {
	Output                    string `yaml:"output"` // "stdout" or "file"
	Level                     string `yaml:"level"`
	File                      string `yaml:"file"`
	SeparateLogsPerDatalogger bool   `yaml:"separate_logs_per_datalogger"`
	MaxFileSizeBytes          int64  `yaml:"max_file_size_bytes"`
	MaxBackups                int    `yaml:"max_backups"`
}

// ControlConfig configures the operator-facing command socket and the
// read-only JSON admin endpoint.
type ControlConfig struct {
	ListenAddress string `yaml:"listen_address"`
	ListenPort    int    `yaml:"listen_port"`
	AdminPort     int    `yaml:"admin_port"`
}

// Load reads and parses the YAML config file at path, applying
// defaults first, matching the teacher's pattern of setting defaults
// on the struct literal before unmarshalling over them.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddress:   "0.0.0.0",
		ListenPort:      5279,
		UpstreamAddress: "server.growatt.com",
		UpstreamPort:    5279,
		Logging: LoggingConfig{
			Output:           "stdout",
			Level:            "info",
			MaxFileSizeBytes: 20 * 1024 * 1024,
			MaxBackups:       4,
		},
		Control: ControlConfig{
			ListenAddress: "127.0.0.1",
			ListenPort:    15279,
			AdminPort:     8080,
		},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AllowedRegisters returns the per-DTC register allow-list. A DTC with
// no entry in DTCMapping allows every register id in allKeys.
func (c *Config) AllowedRegisters(dtc int, allKeys []int) []int {
	if ids, ok := c.DTCMapping[dtc]; ok {
		return ids
	}
	return allKeys
}

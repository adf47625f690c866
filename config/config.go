/*------------------------------------------------------------------------------
* config.go : YAML startup configuration
*
*          A flat struct decoded from file, zero-valued fields patched to
*          documented defaults after decode rather than relying on yaml
*          struct-tag defaults (gopkg.in/yaml.v2 has none).
*-----------------------------------------------------------------------------*/

package config

import (
	"os"

	"gahm"
	"gahm/pressure"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ArchiveConfig configures the optional track/solution archive collaborators.
type ArchiveConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
	MongoURI    string `yaml:"mongo_uri"`
}

// ServerConfig configures the HTTP query API server.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the full startup configuration surface.
type Config struct {
	PressureMethod         string  `yaml:"pressure_method"`
	WindReductionFactor    float64 `yaml:"wind_reduction_factor"`
	OneToTenFactor         float64 `yaml:"one_to_ten_factor"` // loaded, but not read by the vortex evaluator
	BackgroundPressureMbar float64 `yaml:"background_pressure_mbar"`

	Archive ArchiveConfig `yaml:"archive"`
	Server  ServerConfig  `yaml:"server"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		PressureMethod:         string(pressure.DefaultMethod),
		WindReductionFactor:    gahm.DefaultWindReductionFactor,
		OneToTenFactor:         gahm.DefaultOneToTenFactor,
		BackgroundPressureMbar: gahm.DefaultBackgroundMb,
		Server:                 ServerConfig{ListenAddr: ":8080"},
	}
}

// Load reads and decodes a YAML config file at path, filling any
// missing/empty field with its sec 6 default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &gahm.IOError{Op: "read config " + path, Err: err}
	}
	var onDisk Config
	if err := yaml.Unmarshal(data, &onDisk); err != nil {
		return Config{}, errors.Wrap(err, "parsing config yaml")
	}
	applyOverrides(&cfg, onDisk)
	return cfg, nil
}

func applyOverrides(cfg *Config, onDisk Config) {
	if onDisk.PressureMethod != "" {
		cfg.PressureMethod = onDisk.PressureMethod
	}
	if onDisk.WindReductionFactor != 0 {
		cfg.WindReductionFactor = onDisk.WindReductionFactor
	}
	if onDisk.OneToTenFactor != 0 {
		cfg.OneToTenFactor = onDisk.OneToTenFactor
	}
	if onDisk.BackgroundPressureMbar != 0 {
		cfg.BackgroundPressureMbar = onDisk.BackgroundPressureMbar
	}
	if onDisk.Archive.PostgresDSN != "" {
		cfg.Archive.PostgresDSN = onDisk.Archive.PostgresDSN
	}
	if onDisk.Archive.MongoURI != "" {
		cfg.Archive.MongoURI = onDisk.Archive.MongoURI
	}
	if onDisk.Server.ListenAddr != "" {
		cfg.Server.ListenAddr = onDisk.Server.ListenAddr
	}
}

// PressureMethodValue resolves the configured method string to a
// pressure.Method, defaulting to pressure.DefaultMethod on an unknown value.
func (c Config) PressureMethodValue() pressure.Method {
	switch pressure.Method(c.PressureMethod) {
	case pressure.Dvorak, pressure.AH77, pressure.KnaffZehr, pressure.ASGS2012, pressure.CourtneyKnaff, pressure.TwoSlope:
		return pressure.Method(c.PressureMethod)
	default:
		return pressure.DefaultMethod
	}
}

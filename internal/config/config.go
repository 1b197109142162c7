package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/eval"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orchestrator"
)

// EnvPrefix prefixes every environment override, e.g. DECISION_GATE_DEFER_RISK.
const EnvPrefix = "DECISION"

// #region config
// Config is the full process configuration.
type Config struct {
	Logging logging.Config  `mapstructure:"logging" yaml:"logging"`
	Store   StoreConfig     `mapstructure:"store" yaml:"store"`
	Codec   CodecConfig     `mapstructure:"codec" yaml:"codec"`
	Eval    eval.EvalConfig `mapstructure:"eval" yaml:"eval"`

	orchestrator.Config `mapstructure:",squash" yaml:",inline"`
}

// StoreConfig locates the decision ledger. An empty Path disables persistence.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// CodecConfig locates the remote signal service. An empty Address keeps the
// built-in collapse strategies.
type CodecConfig struct {
	Address string        `mapstructure:"address" yaml:"address"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Default returns the shipped configuration.
func Default() Config {
	return Config{
		Logging: logging.DefaultConfig(),
		Store:   StoreConfig{Path: "decisions.db"},
		Codec:   CodecConfig{Timeout: 2 * time.Second},
		Eval:    eval.DefaultEvalConfig(),
		Config:  orchestrator.DefaultConfig(),
	}
}

// #endregion config

// #region load
// Load reads path over the defaults and applies DECISION_ env overrides.
// A missing file is not an error; an unreadable or malformed one is.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return Config{}, fmt.Errorf("encode defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, fmt.Errorf("read defaults: %w", err)
	}

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			v.SetConfigFile(path)
			if err := v.MergeInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(statErr) {
			return Config{}, fmt.Errorf("stat config %s: %w", path, statErr)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// #endregion load

// #region write
// WriteDefault writes the shipped configuration to path as YAML, creating
// parent directories as needed.
func WriteDefault(path string) error {
	return Write(path, Default())
}

// Write encodes c to path as YAML.
func Write(path string, c Config) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// #endregion write

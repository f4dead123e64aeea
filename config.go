/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tablecalc

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rulego/tablecalc/logger"
)

// Config is the file form of the Environment options:
//
//	log_level = "debug"
//	log_format = "json"
//	backend = "compiled"
//	parallelism = 4
type Config struct {
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	Backend     string `toml:"backend"`
	Parallelism int    `toml:"parallelism"`
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Backend:   string(BackendInterpreted),
	}
}

// LoadConfig reads a TOML file over DefaultConfig
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML text over DefaultConfig; unknown keys are rejected
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks every field without building anything
func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.LogFormat)
	}
	if _, err := ParseBackend(c.Backend); err != nil {
		return err
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism cannot be negative: %d", c.Parallelism)
	}
	return nil
}

// Options converts the config into Environment options. log_format "json"
// logs through zap, anything else through the text logger on stderr.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	level, _ := logger.ParseLevel(c.LogLevel)
	backend, _ := ParseBackend(c.Backend)

	var log logger.Logger
	if strings.EqualFold(c.LogFormat, "json") {
		zl, err := logger.NewJSONLogger(level)
		if err != nil {
			return nil, err
		}
		log = zl
	} else {
		log = logger.NewLogger(level, os.Stderr)
	}
	return []Option{
		WithLogger(log),
		WithBackend(backend),
		WithParallelism(c.Parallelism),
	}, nil
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration from a YAML file in the user
// scope and merges environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "tabmaker/internal/log"
)

// AppConfig is the user-editable configuration persisted to config.yaml.
// Environment variables are read-only overrides applied at load time.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Logging       LoggingConfig `yaml:"logging"`
	Render        RenderConfig  `yaml:"render"`
	PDF           PDFConfig     `yaml:"pdf"`
	Library       LibraryConfig `yaml:"library"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// RenderConfig holds conversion defaults. Metadata values fill keys a song
// does not set itself.
type RenderConfig struct {
	DefaultFormat string            `yaml:"default_format"`
	Metadata      map[string]string `yaml:"metadata,omitempty"`
}

type PDFConfig struct {
	PageSize   string  `yaml:"page_size"`
	FontSize   float64 `yaml:"font_size"`
	ChordColor string  `yaml:"chord_color"` // "#rrggbb"
}

// LibraryConfig locates the default songbook used by index and search.
type LibraryConfig struct {
	Root string `yaml:"root"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Logging:       LoggingConfig{Level: "warn", Format: "console"},
		Render:        RenderConfig{DefaultFormat: "chordpro"},
		PDF:           PDFConfig{PageSize: "A4", FontSize: 11, ChordColor: "#000000"},
		Library:       LibraryConfig{Root: "."},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath   = "TAB_CONFIG"
	EnvOutputFormat = "TAB_OUTPUT_FORMAT"
	EnvPDFPageSize  = "TAB_PDF_PAGE_SIZE"
	EnvPDFFontSize  = "TAB_PDF_FONT_SIZE"
	EnvLibraryRoot  = "TAB_LIBRARY"
	EnvLogLevel     = applog.EnvLevel
	EnvLogFormat    = applog.EnvFormat
	EnvLogSource    = applog.EnvSource
	EnvLogFile      = applog.EnvFile
)

// ConfigPath returns the per-user config file path. TAB_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "TabMaker")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "TabMaker")
	default:
		home := os.Getenv("HOME")
		if home == "" {
			return "", errors.New("cannot resolve config directory")
		}
		base = filepath.Join(home, ".config", "tabmaker")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file, if present, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit file. A missing file yields the defaults;
// a file that is not valid YAML is an error.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes cfg to the user config file.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path, creating parent directories.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Marshal encodes cfg as YAML.
func Marshal(cfg AppConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
	if v := strings.TrimSpace(src.Render.DefaultFormat); v != "" {
		dst.Render.DefaultFormat = strings.ToLower(v)
	}
	if len(src.Render.Metadata) > 0 {
		dst.Render.Metadata = make(map[string]string, len(src.Render.Metadata))
		for k, v := range src.Render.Metadata {
			dst.Render.Metadata[strings.ToLower(strings.TrimSpace(k))] = v
		}
	}
	if v := strings.TrimSpace(src.PDF.PageSize); v != "" {
		dst.PDF.PageSize = v
	}
	if src.PDF.FontSize > 0 {
		dst.PDF.FontSize = src.PDF.FontSize
	}
	if v := strings.TrimSpace(src.PDF.ChordColor); v != "" {
		dst.PDF.ChordColor = v
	}
	if v := strings.TrimSpace(src.Library.Root); v != "" {
		dst.Library.Root = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvOutputFormat)); v != "" {
		cfg.Render.DefaultFormat = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvPDFPageSize)); v != "" {
		cfg.PDF.PageSize = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPDFFontSize)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.PDF.FontSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLibraryRoot)); v != "" {
		cfg.Library.Root = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// envKeys maps dotted config keys to the variables that override them.
var envKeys = map[string]string{
	"render.default_format": EnvOutputFormat,
	"pdf.page_size":         EnvPDFPageSize,
	"pdf.font_size":         EnvPDFFontSize,
	"library.root":          EnvLibraryRoot,
	"logging.level":         EnvLogLevel,
	"logging.format":        EnvLogFormat,
	"logging.source":        EnvLogSource,
	"logging.file":          EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// LogOptions converts the logging section for log.Init.
func (l LoggingConfig) LogOptions() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}

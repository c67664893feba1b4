package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	fsw "github.com/corey/bmsearch/internal/adapters/fsnotify"
	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"gopkg.in/yaml.v3"
)

// DefaultHistoryLimit is how many runs are kept per project when the
// config file does not say otherwise.
const DefaultHistoryLimit = 500

// Settings is the effective per-project configuration. Command-line flags
// override individual fields after loading.
type Settings struct {
	Alphabet     *boyermoore.Alphabet
	Verify       bool
	Trace        bool
	History      bool
	HistoryLimit int // 0 keeps every run
	Color        string
	Debounce     time.Duration
}

// DefaultSettings returns the configuration used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Alphabet:     boyermoore.Bytes,
		History:      true,
		HistoryLimit: DefaultHistoryLimit,
		Color:        "auto",
		Debounce:     fsw.DefaultDebounce,
	}
}

// yamlSettings is the YAML-serialized form of Settings. Pointer fields tell
// an absent key from a zero value.
type yamlSettings struct {
	Alphabet     *string `yaml:"alphabet,omitempty"`
	Verify       *bool   `yaml:"verify,omitempty"`
	Trace        *bool   `yaml:"trace,omitempty"`
	History      *bool   `yaml:"history,omitempty"`
	HistoryLimit *int    `yaml:"history_limit,omitempty"`
	Color        *string `yaml:"color,omitempty"`
	DebounceMs   *int    `yaml:"debounce_ms,omitempty"`
}

// LoadSettings reads a config.yaml. A missing file yields the defaults.
// Unknown keys and invalid values are errors naming the file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseSettings decodes YAML config data over the defaults.
func ParseSettings(data []byte) (*Settings, error) {
	var ys yamlSettings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ys); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return convertSettings(ys)
}

// convertSettings applies the keys present in ys to the defaults.
func convertSettings(ys yamlSettings) (*Settings, error) {
	s := DefaultSettings()
	if ys.Alphabet != nil {
		a, err := boyermoore.AlphabetByName(*ys.Alphabet)
		if err != nil {
			return nil, err
		}
		s.Alphabet = a
	}
	if ys.Verify != nil {
		s.Verify = *ys.Verify
	}
	if ys.Trace != nil {
		s.Trace = *ys.Trace
	}
	if ys.History != nil {
		s.History = *ys.History
	}
	if ys.HistoryLimit != nil {
		if *ys.HistoryLimit < 0 {
			return nil, fmt.Errorf("history_limit must be >= 0, got %d", *ys.HistoryLimit)
		}
		s.HistoryLimit = *ys.HistoryLimit
	}
	if ys.Color != nil {
		if err := ValidateColor(*ys.Color); err != nil {
			return nil, err
		}
		s.Color = *ys.Color
	}
	if ys.DebounceMs != nil {
		if *ys.DebounceMs <= 0 {
			return nil, fmt.Errorf("debounce_ms must be > 0, got %d", *ys.DebounceMs)
		}
		s.Debounce = time.Duration(*ys.DebounceMs) * time.Millisecond
	}
	return s, nil
}

// ValidateColor accepts the --color modes.
func ValidateColor(mode string) error {
	switch mode {
	case "auto", "always", "never":
		return nil
	}
	return fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
}

// YAML renders the effective settings in config.yaml form.
func (s *Settings) YAML() ([]byte, error) {
	name := s.Alphabet.Name()
	debounce := int(s.Debounce / time.Millisecond)
	return yaml.Marshal(yamlSettings{
		Alphabet:     &name,
		Verify:       &s.Verify,
		Trace:        &s.Trace,
		History:      &s.History,
		HistoryLimit: &s.HistoryLimit,
		Color:        &s.Color,
		DebounceMs:   &debounce,
	})
}

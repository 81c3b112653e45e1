package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so the config file can use values like "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalYAML accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}

	switch node.Tag {
	case "!!int", "!!float":
		var seconds float64
		if err := node.Decode(&seconds); err != nil {
			return err
		}
		d.Duration = time.Duration(seconds * float64(time.Second))
		return nil
	}

	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, node.Value, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML emits the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// File represents the structure of the .sitecrawl configuration file.
// Every field is optional; pointer durations distinguish "unset" from zero.
type File struct {
	// Delay is the pause between page fetches.
	Delay *Duration `yaml:"delay,omitempty"`

	// Timeout is the per-request timeout.
	Timeout *Duration `yaml:"timeout,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// ContentSelector is the CSS selector of the main-content region.
	ContentSelector string `yaml:"contentSelector,omitempty"`

	// Workers is the number of concurrent fetch workers.
	Workers int `yaml:"workers,omitempty"`

	// MaxPages caps the number of visited pages.
	MaxPages int `yaml:"maxPages,omitempty"`

	// OutputDir is the output directory for saved pages.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Headers are custom HTTP headers added to every request.
	Headers map[string]string `yaml:"headers,omitempty"`
}

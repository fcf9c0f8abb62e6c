// Package yaml loads tenk configuration files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/tenk"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "tenk.yaml"

// LoadConfig reads the config at path over tenk.DefaultConfig. A missing
// file yields the defaults. Unknown keys and invalid values return EINVALID.
func LoadConfig(path string) (tenk.Config, error) {
	cfg := tenk.DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := DecodeConfig(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DecodeConfig decodes YAML data into cfg, keeping values the data does not
// set, and validates the result.
func DecodeConfig(data []byte, cfg *tenk.Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return tenk.Errorf(tenk.EINVALID, "parse config: %v", err)
	}
	return cfg.Validate()
}

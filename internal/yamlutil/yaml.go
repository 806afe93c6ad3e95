// Package yamlutil decodes the two kinds of YAML mdsite reads, site config
// files and table blocks embedded in notes, and encodes the resolved config.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Size caps per document kind. A table block lives inside a note, so it is
// held to a much smaller limit than a config file.
var (
	MaxConfigSize = 1 << 20
	MaxBlockSize  = 64 << 10
)

var (
	ErrEmpty          = errors.New("yamlutil: empty document")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrTooLarge       = errors.New("yamlutil: document too large")
)

// DecodeConfig decodes a config file into v. Unknown keys are errors so that
// misspelled settings are reported instead of silently ignored.
func DecodeConfig(data []byte, v any) error {
	if err := check(data, v, MaxConfigSize); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: config: %w", err)
	}
	return nil
}

// DecodeBlock decodes the body of a fenced block into v. Unknown keys are
// ignored.
func DecodeBlock(data []byte, v any) error {
	if err := check(data, v, MaxBlockSize); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: block: %w", err)
	}
	return nil
}

// EncodeConfig renders v with two-space indentation and indented sequences,
// the layout of a hand-written site.yaml.
func EncodeConfig(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: encode: %w", err)
	}
	return out, nil
}

func check(data []byte, v any, limit int) error {
	if v == nil {
		return ErrNilDestination
	}
	if len(data) == 0 {
		return ErrEmpty
	}
	if len(data) > limit {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), limit)
	}
	return nil
}

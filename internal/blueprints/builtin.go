package blueprints

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/starter.yaml
var builtinStarter []byte

// Builtin returns the embedded starter blueprint, so the binary is usable
// with no blueprint dirs configured.
func Builtin() (*Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(builtinStarter, &bp); err != nil {
		return nil, fmt.Errorf("unmarshal builtin blueprint: %w", err)
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return &bp, nil
}

package prefabs

import (
	"fmt"
	"strings"

	"github.com/milk9111/watercycle/common"
	"gopkg.in/yaml.v3"
)

const (
	CurveLinear = "linear"
	CurveKeys   = "keys"
	CurveScript = "script"
)

// CurveSpec describes an input response curve:
//
//	{kind: linear, gain: 1}
//	{kind: keys, keys: [[-1, -1], [0, 0], [1, 1]]}
//	{kind: script, script: ease_in.tengo}
type CurveSpec struct {
	Kind   string         `yaml:"kind"`
	Gain   float64        `yaml:"gain"`
	Keys   []KeyframeSpec `yaml:"keys"`
	Script string         `yaml:"script"`
}

// KeyframeSpec is written as [x, y].
type KeyframeSpec struct {
	X, Y float64
}

func (k *KeyframeSpec) UnmarshalYAML(value *yaml.Node) error {
	var xy []float64
	if err := value.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("keyframe must be [x, y], got %d values", len(xy))
	}
	k.X, k.Y = xy[0], xy[1]
	return nil
}

func (k KeyframeSpec) MarshalYAML() (any, error) {
	return []float64{k.X, k.Y}, nil
}

func (c CurveSpec) kind() string {
	k := strings.ToLower(strings.TrimSpace(c.Kind))
	if k == "" {
		return CurveLinear
	}
	return k
}

func (c CurveSpec) validate() error {
	switch c.kind() {
	case CurveLinear:
		return nil
	case CurveKeys:
		if len(c.Keys) == 0 {
			return fmt.Errorf("keys curve needs at least one keyframe")
		}
		return nil
	case CurveScript:
		if strings.TrimSpace(c.Script) == "" {
			return fmt.Errorf("script curve needs a script")
		}
		return nil
	}
	return fmt.Errorf("unknown curve kind %q", c.Kind)
}

// Build turns c into a curve. Scripts are loaded and compiled here.
func (c CurveSpec) Build() (common.Curve, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	switch c.kind() {
	case CurveKeys:
		keys := make([]common.Keyframe, 0, len(c.Keys))
		for _, k := range c.Keys {
			keys = append(keys, common.Keyframe{X: k.X, Y: k.Y})
		}
		return common.NewKeyframeCurve(keys...), nil
	case CurveScript:
		return LoadScriptCurve(c.Script)
	}
	return common.LinearCurve{Gain: c.Gain}, nil
}

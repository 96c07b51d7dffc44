package prefabs

import (
	"fmt"
	"log"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/watercycle/common"
)

// ScriptCurve evaluates a tengo script as a response curve. The script reads
// the global x and must assign the global y:
//
//	math := import("math")
//	y := x * math.abs(x)
type ScriptCurve struct {
	mu       sync.Mutex
	path     string
	compiled *tengo.Compiled
	failed   bool
}

var _ common.Curve = (*ScriptCurve)(nil)

// LoadScriptCurve loads name from prefabs/scripts and compiles it.
func LoadScriptCurve(name string) (*ScriptCurve, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return NewScriptCurve(name, src)
}

// NewScriptCurve compiles src and checks it defines y for x = 0.
func NewScriptCurve(name string, src []byte) (*ScriptCurve, error) {
	script := tengo.NewScript(src)
	_ = script.Add("x", 0.0)
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile script %s: %w", name, err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("prefabs: run script %s: %w", name, err)
	}
	if !compiled.IsDefined("y") {
		return nil, fmt.Errorf("prefabs: script %s does not define y", name)
	}
	return &ScriptCurve{path: name, compiled: compiled}, nil
}

// Evaluate runs the script for x. A script that fails at runtime is logged
// once and then behaves as the identity curve.
func (c *ScriptCurve) Evaluate(x float64) float64 {
	if c == nil || c.compiled == nil {
		return x
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failed {
		return x
	}
	if err := c.compiled.Set("x", x); err != nil {
		c.fail(err)
		return x
	}
	if err := c.compiled.Run(); err != nil {
		c.fail(err)
		return x
	}
	return c.compiled.Get("y").Float()
}

func (c *ScriptCurve) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

func (c *ScriptCurve) fail(err error) {
	c.failed = true
	log.Printf("prefabs: curve script %s failed, falling back to identity: %v", c.path, err)
}

package fields

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// PluginRunner evaluates a descriptor's Code reference against a raw value.
// Plugins are an explicit trust boundary: configuration that names them can
// run arbitrary programs, so Render only calls a runner when
// RenderOptions.AllowPlugins is set.
type PluginRunner interface {
	Run(code string, value any, fields map[string]any) (any, error)
}

// DefaultPluginTimeout bounds a single plugin invocation.
const DefaultPluginTimeout = 10 * time.Second

// ExecRunner runs plugins as external processes. A code of the form
// "#path:function" runs the executable at path with function as its only
// argument; any other code runs through "sh -c". The process receives
// {"field": value, "fields": record} as JSON on stdin. Its trimmed stdout is
// decoded as JSON when possible and used as a plain string otherwise.
type ExecRunner struct {
	Shell   string
	Timeout time.Duration
}

// Run executes the plugin referenced by code.
func (e *ExecRunner) Run(code string, value any, fields map[string]any) (any, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultPluginTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd, err := e.command(ctx, code)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{"field": value, "fields": fields})
	if err != nil {
		return nil, fmt.Errorf("encoding plugin input: %w", err)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("plugin failed: %w", err)
		}
		return nil, fmt.Errorf("plugin failed: %w: %s", err, msg)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, nil
	}
	var decoded any
	if json.Unmarshal(out, &decoded) == nil {
		return decoded, nil
	}
	return string(out), nil
}

func (e *ExecRunner) command(ctx context.Context, code string) (*exec.Cmd, error) {
	if ref, ok := strings.CutPrefix(code, "#"); ok {
		path, function, found := strings.Cut(ref, ":")
		if !found || path == "" || function == "" {
			return nil, fmt.Errorf("plugin reference %q: want #path:function", code)
		}
		return exec.CommandContext(ctx, path, function), nil
	}
	shell := e.Shell
	if shell == "" {
		shell = "sh"
	}
	return exec.CommandContext(ctx, shell, "-c", code), nil
}

// DisabledRunner refuses every plugin. It is installed when configuration
// does not enable plugins, as a second line behind RenderOptions.
type DisabledRunner struct{}

// Run always returns ErrPluginDisabled.
func (DisabledRunner) Run(string, any, map[string]any) (any, error) {
	return nil, ErrPluginDisabled
}

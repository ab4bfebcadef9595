package cmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/trackr/internal/match"
	"github.com/papapumpkin/trackr/internal/schema"
)

func TestParseFieldArgs(t *testing.T) {
	t.Parallel()
	got, err := parseFieldArgs([]string{"priority=Major", "labels=a, b", "note=x=y", "priority=Minor"})
	if err != nil {
		t.Fatalf("parseFieldArgs: %v", err)
	}
	want := map[string]string{"priority": "Minor", "labels": "a, b", "note": "x=y"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseFieldArgs([]string{bad}); err == nil {
			t.Errorf("parseFieldArgs(%q): expected error", bad)
		}
	}
}

func TestBuildPayload(t *testing.T) {
	t.Parallel()
	s, _ := testSession()
	defs := map[string]schema.Field{
		"priority": {ID: "priority", Name: "Priority", Schema: &schema.Schema{Type: "priority"},
			AllowedValues: []match.AllowedValue{{Name: "Major"}, {Name: "Minor"}}},
		"labels": {ID: "labels", Name: "Labels", Schema: &schema.Schema{Type: "array", Items: "string"}},
	}

	got, err := s.buildPayload(defs, map[string]string{"priority": "minor", "labels": "x", "bogus": "1"})
	if err != nil {
		t.Fatalf("buildPayload: %v", err)
	}
	want := map[string]any{
		"priority": map[string]any{"name": "Minor"},
		"labels":   []any{"x"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	_, err = s.buildPayload(defs, map[string]string{"priority": "Blocker"})
	if !errors.Is(err, match.ErrNotAllowed) {
		t.Errorf("error = %v, want ErrNotAllowed", err)
	}
}

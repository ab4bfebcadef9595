package match

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func values(names ...string) []AllowedValue {
	out := make([]AllowedValue, 0, len(names))
	for _, n := range names {
		out = append(out, AllowedValue{Value: n})
	}
	return out
}

func TestCheckValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		candidate string
		allowed   string
		want      Score
	}{
		{"verbatim", "Done", "Done", Exact},
		{"lowercase form", "done", "Done", Exact},
		{"normalized form", "in_progress", "In Progress", Exact},
		{"uppercase input", "DONE", "Done", Exact},
		{"prefix word", "test", "test one", Partial},
		{"suffix word", "one", "test one", Partial},
		{"hyphen segment", "beta", "alpha-beta-gamma", Partial},
		{"inside a word", "est", "test one", NoMatch},
		{"prefix without boundary", "pyth", "python", NoMatch},
		{"unrelated", "blue", "red", NoMatch},
		{"empty input", "", "red", NoMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CheckValue(tt.candidate, tt.allowed); got != tt.want {
				t.Errorf("CheckValue(%q, %q) = %d, want %d", tt.candidate, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestValidateOne_ExactBeatsPartial(t *testing.T) {
	t.Parallel()
	got, err := ValidateOne("Language", "python", values("python", "python 4.0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "python" {
		t.Errorf("got %q, want %q", got, "python")
	}
}

func TestValidateOne_ExactListedAfterPartial(t *testing.T) {
	t.Parallel()
	got, err := ValidateOne("Language", "python", values("python 4.0", "python 3", "python"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "python" {
		t.Errorf("got %q, want %q", got, "python")
	}
}

func TestValidateOne_Ambiguous(t *testing.T) {
	t.Parallel()
	_, err := ValidateOne("Phase", "test", values("test one", "test two"))
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
	var ve *ValueError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValueError, got %T", err)
	}
	if ve.Field != "Phase" || ve.Value != "test" {
		t.Errorf("ValueError = %+v", ve)
	}
	if diff := cmp.Diff([]string{"test one", "test two"}, ve.Candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateOne_SinglePartial(t *testing.T) {
	t.Parallel()
	got, err := ValidateOne("Phase", "two", values("test one", "test two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "test two" {
		t.Errorf("got %q, want %q", got, "test two")
	}
}

func TestValidateOne_NotAllowed(t *testing.T) {
	t.Parallel()
	_, err := ValidateOne("Color", "purple", values("Red", "Green"))
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
}

func TestValidateOne_SkipsArchivedAndDisabled(t *testing.T) {
	t.Parallel()
	allowed := []AllowedValue{
		{Name: "1.0", Archived: true},
		{Name: "1.0-hotfix", Disabled: true},
		{Name: "2.0"},
	}
	if _, err := ValidateOne("Fix Version", "1.0", allowed); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("archived value matched: err = %v", err)
	}
	got, err := ValidateOne("Fix Version", "2.0", allowed)
	if err != nil || got != "2.0" {
		t.Errorf("ValidateOne(2.0) = %q, %v", got, err)
	}
}

func TestValidateOne_NoAllowedValuesPassesThrough(t *testing.T) {
	t.Parallel()
	got, err := ValidateOne("Story Points", "whatever", nil)
	if err != nil || got != "whatever" {
		t.Errorf("ValidateOne() = %q, %v; want passthrough", got, err)
	}
}

func TestValidateMany_PreservesOrder(t *testing.T) {
	t.Parallel()
	allowed := values("Frontend", "Backend", "Database Layer")
	got, err := ValidateMany("Components", []string{"database", "frontend", "Backend"}, allowed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Database Layer", "Frontend", "Backend"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateMany_IndependentCandidates(t *testing.T) {
	t.Parallel()
	// "one" partially matches a single value while "test two" is exact for
	// another; each input is judged on its own.
	got, err := ValidateMany("Phase", []string{"one", "test two"}, values("test one", "test two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"test one", "test two"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateMany_FailureAbortsBatch(t *testing.T) {
	t.Parallel()
	got, err := ValidateMany("Labels", []string{"Red", "nope"}, values("Red", "Green"))
	if err == nil {
		t.Fatal("expected error")
	}
	if got != nil {
		t.Errorf("partial result returned: %v", got)
	}
}

func TestResolve_ReturnsChildren(t *testing.T) {
	t.Parallel()
	allowed := []AllowedValue{
		{ID: "1", Value: "Hardware", Children: []AllowedValue{{ID: "11", Value: "Disk"}}},
		{ID: "2", Value: "Software"},
	}
	av, err := Resolve("Area", "hardware", allowed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if av.ID != "1" || len(av.Children) != 1 {
		t.Errorf("Resolve() = %+v", av)
	}
}

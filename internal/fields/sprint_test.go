package fields

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSprint(t *testing.T) {
	t.Parallel()
	got, err := ParseSprint("com.atlassian.greenhopper.service.sprint.Sprint@14b1c359[id=1,rapidViewId=12,state=ACTIVE,name=Sprint 7,goal=,velocity=1.5,flag=true,startDate=<null>]")
	if err != nil {
		t.Fatalf("ParseSprint: %v", err)
	}
	want := map[string]any{
		"id":          1,
		"rapidViewId": 12,
		"state":       "ACTIVE",
		"name":        "Sprint 7",
		"goal":        "",
		"velocity":    1.5,
		"flag":        true,
		"startDate":   nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSprint_CommaInValue(t *testing.T) {
	t.Parallel()
	got, err := ParseSprint("Sprint@1[id=3,goal=ship it, then rest,name=S3]")
	if err != nil {
		t.Fatalf("ParseSprint: %v", err)
	}
	if got["goal"] != "ship it, then rest" {
		t.Errorf("goal = %q", got["goal"])
	}
	if got["name"] != "S3" {
		t.Errorf("name = %q", got["name"])
	}
}

func TestParseSprint_Malformed(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"no brackets", "Sprint@1]id=1[", "Sprint@1[orphan,id=1]"} {
		if _, err := ParseSprint(in); !errors.Is(err, ErrBadSprint) {
			t.Errorf("ParseSprint(%q) error = %v, want ErrBadSprint", in, err)
		}
	}
}

func TestRenderSprints(t *testing.T) {
	t.Parallel()
	closed := "Sprint@a[id=1,state=CLOSED,name=Old]"
	future := "Sprint@b[id=2,state=FUTURE,name=Next]"
	active := "Sprint@c[id=3,state=ACTIVE,name=Now]"

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"active wins", []any{closed, active, future}, "Now"},
		{"last when none active", []any{closed, future}, "Next"},
		{"several active", []any{active, map[string]any{"id": 4.0, "state": "active", "name": "Also"}}, "Now, Also"},
		{"single string", closed, "Old"},
	}
	for _, tt := range tests {
		got, err := renderSprints(tt.value, false)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %#v, want %#v", tt.name, got, tt.want)
		}
	}
}

func TestRenderSprints_AsObject(t *testing.T) {
	t.Parallel()
	got, err := renderSprints([]any{"Sprint@a[id=1,state=CLOSED,name=Old]"}, true)
	if err != nil {
		t.Fatalf("renderSprints: %v", err)
	}
	want := map[string]any{"id": 1, "state": "CLOSED", "name": "Old"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

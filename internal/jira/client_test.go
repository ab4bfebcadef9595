package jira

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

// fakeTracker serves canned responses keyed by "METHOD path" and records
// every request it receives.
func fakeTracker(t *testing.T, routes map[string]string) (*Client, *[]recorded) {
	t.Helper()
	var seen []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Auth: r.Header.Get("Authorization")}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			if err := json.Unmarshal(data, &rec.Body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		seen = append(seen, rec)

		resp, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"errorMessages":["Issue does not exist"],"errors":{}}`)
			return
		}
		if resp == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if strings.HasPrefix(resp, "!") {
			w.WriteHeader(http.StatusBadRequest)
			resp = resp[1:]
		}
		io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithCredentials("", "tok")), &seen
}

func TestClient_Fields(t *testing.T) {
	t.Parallel()
	c, seen := fakeTracker(t, map[string]string{
		"GET /rest/api/2/field": `[{"id":"summary","name":"Summary","schema":{"type":"string","system":"summary"}},
			{"id":"customfield_10020","name":"Sprint","custom":true,"schema":{"type":"array","items":"string","custom":"com.pyxis.greenhopper.jira:gh-sprint"}}]`,
	})
	fields, err := c.Fields(context.Background())
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if len(fields) != 2 || fields[1].Schema.Custom != "com.pyxis.greenhopper.jira:gh-sprint" {
		t.Errorf("unexpected fields: %+v", fields)
	}
	if got := (*seen)[0].Auth; got != "Bearer tok" {
		t.Errorf("Authorization = %q, want bearer token", got)
	}
}

func TestClient_BasicAuth(t *testing.T) {
	t.Parallel()
	c, seen := fakeTracker(t, map[string]string{"GET /rest/api/2/serverInfo": `{"version":"9.4.0"}`})
	WithCredentials("ann", "secret")(c)
	info, err := c.ServerInfo(context.Background())
	if err != nil {
		t.Fatalf("ServerInfo: %v", err)
	}
	if info.Version != "9.4.0" {
		t.Errorf("version = %q", info.Version)
	}
	if !strings.HasPrefix((*seen)[0].Auth, "Basic ") {
		t.Errorf("Authorization = %q, want basic", (*seen)[0].Auth)
	}
}

func TestClient_CreateMeta(t *testing.T) {
	t.Parallel()
	c, seen := fakeTracker(t, map[string]string{
		"GET /rest/api/2/issue/createmeta": `{"projects":[{"key":"ABC","issuetypes":[
			{"id":"1","name":"Bug","fields":{"priority":{"name":"Priority","schema":{"type":"priority"},
				"allowedValues":[{"id":"1","name":"Major"}]}}},
			{"id":"2","name":"Story","fields":{}}]}]}`,
	})

	fields, err := c.CreateMeta(context.Background(), "abc", "bug")
	if err != nil {
		t.Fatalf("CreateMeta: %v", err)
	}
	p, ok := fields["priority"]
	if !ok || p.ID != "priority" || len(p.AllowedValues) != 1 || p.AllowedValues[0].Name != "Major" {
		t.Errorf("priority = %+v", p)
	}
	q := (*seen)[0].Query
	for _, want := range []string{"projectKeys=abc", "issuetypeNames=bug", "expand=projects.issuetypes.fields"} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}

	if _, err := c.CreateMeta(context.Background(), "ABC", "Epic"); !errors.Is(err, ErrNoIssueType) {
		t.Errorf("error = %v, want ErrNoIssueType", err)
	}
}

func TestClient_IssueLifecycle(t *testing.T) {
	t.Parallel()
	c, seen := fakeTracker(t, map[string]string{
		"POST /rest/api/2/issue":               `{"id":"10001","key":"ABC-7"}`,
		"GET /rest/api/2/issue/ABC-7":          `{"id":"10001","key":"ABC-7","fields":{"summary":"Hello","priority":{"name":"Major"}}}`,
		"PUT /rest/api/2/issue/ABC-7":          "",
		"POST /rest/api/2/issue/ABC-7/comment": `{"id":"1"}`,
		"POST /rest/api/2/issueLink":           "",
	})
	ctx := context.Background()

	key, err := c.CreateIssue(ctx, map[string]any{"summary": "Hello"})
	if err != nil || key != "ABC-7" {
		t.Fatalf("CreateIssue = %q, %v", key, err)
	}
	issue, err := c.Issue(ctx, key)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issue.Fields["summary"] != "Hello" {
		t.Errorf("fields = %v", issue.Fields)
	}
	if err := c.UpdateIssue(ctx, key, map[string]any{"labels": []any{"x"}}); err != nil {
		t.Fatalf("UpdateIssue: %v", err)
	}
	if err := c.AddComment(ctx, key, "looks good"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if err := c.LinkIssues(ctx, "Blocks", key, "ABC-8"); err != nil {
		t.Fatalf("LinkIssues: %v", err)
	}

	wantBodies := []map[string]any{
		{"fields": map[string]any{"summary": "Hello"}},
		nil,
		{"fields": map[string]any{"labels": []any{"x"}}},
		{"body": "looks good"},
		{
			"type":         map[string]any{"name": "Blocks"},
			"inwardIssue":  map[string]any{"key": "ABC-7"},
			"outwardIssue": map[string]any{"key": "ABC-8"},
		},
	}
	if len(*seen) != len(wantBodies) {
		t.Fatalf("got %d requests, want %d", len(*seen), len(wantBodies))
	}
	for i, want := range wantBodies {
		if diff := cmp.Diff(want, (*seen)[i].Body); diff != "" {
			t.Errorf("request %d body mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestClient_APIErrors(t *testing.T) {
	t.Parallel()
	c, _ := fakeTracker(t, map[string]string{
		"POST /rest/api/2/issue": `!{"errorMessages":[],"errors":{"priority":"invalid priority","summary":"required"}}`,
	})

	_, err := c.Issue(context.Background(), "NOPE-1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	_, err = c.CreateIssue(context.Background(), map[string]any{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	want := []string{"priority: invalid priority", "summary: required"}
	if apiErr.Status != http.StatusBadRequest || !cmp.Equal(apiErr.Messages, want) {
		t.Errorf("APIError = %+v", apiErr)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("400 must not match ErrNotFound")
	}
}

func TestClient_LinkTypes(t *testing.T) {
	t.Parallel()
	c, _ := fakeTracker(t, map[string]string{
		"GET /rest/api/2/issueLinkType": `{"issueLinkTypes":[{"id":"1","name":"Blocks","inward":"is blocked by","outward":"blocks"}]}`,
	})
	types, err := c.LinkTypes(context.Background())
	if err != nil {
		t.Fatalf("LinkTypes: %v", err)
	}
	want := []LinkType{{ID: "1", Name: "Blocks", Inward: "is blocked by", Outward: "blocks"}}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_SatisfiesTracker(t *testing.T) {
	t.Parallel()
	var _ Tracker = New("http://example.invalid")
}

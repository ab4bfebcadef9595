// Package jira is a thin REST client for a JIRA-like issue tracker. It covers
// the calls trackr needs: field metadata, issue get/create/update, comments
// and links.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/papapumpkin/trackr/internal/logging"
	"github.com/papapumpkin/trackr/internal/schema"
)

const apiPrefix = "/rest/api/2"

// Client talks to the tracker's REST API. HTTP is exposed so a request cache
// can be installed on it without changing call sites.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	User    string
	Token   string

	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

// WithCredentials sets basic auth when user is non-empty and bearer auth
// otherwise.
func WithCredentials(user, token string) Option {
	return func(c *Client) {
		c.User = user
		c.Token = token
	}
}

// WithLogger sets the request trace logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the tracker at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.BaseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case c.User != "":
		req.SetBasicAuth(c.User, c.Token)
	case c.Token != "":
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("tracker request", "method", method, "path", path, "status", resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Messages = eb.messages()
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

// Fields lists every field definition the tracker knows.
func (c *Client) Fields(ctx context.Context) ([]schema.Field, error) {
	var fields []schema.Field
	if err := c.do(ctx, http.MethodGet, "/field", nil, nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// CreateMeta returns the fields, with allowed values, that an issue of
// issueType in project accepts on creation. Both are matched by key or name.
func (c *Client) CreateMeta(ctx context.Context, project, issueType string) (map[string]schema.Field, error) {
	q := url.Values{}
	q.Set("projectKeys", project)
	q.Set("issuetypeNames", issueType)
	q.Set("expand", "projects.issuetypes.fields")

	var meta createMetaResponse
	if err := c.do(ctx, http.MethodGet, "/issue/createmeta", q, nil, &meta); err != nil {
		return nil, err
	}
	for _, p := range meta.Projects {
		if !strings.EqualFold(p.Key, project) {
			continue
		}
		for _, it := range p.IssueTypes {
			if strings.EqualFold(it.Name, issueType) || it.ID == issueType {
				return withIDs(it.Fields), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrNoIssueType, issueType, project)
}

// EditMeta returns the fields of an existing issue that may be edited.
func (c *Client) EditMeta(ctx context.Context, key string) (map[string]schema.Field, error) {
	var meta editMetaResponse
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key)+"/editmeta", nil, nil, &meta); err != nil {
		return nil, err
	}
	return withIDs(meta.Fields), nil
}

// withIDs fills each field's ID from its map key; metadata endpoints key
// fields by id and omit it from the body on some servers.
func withIDs(fields map[string]schema.Field) map[string]schema.Field {
	for id, f := range fields {
		if f.ID == "" {
			f.ID = id
			fields[id] = f
		}
	}
	return fields
}

// Issue retrieves an issue by key.
func (c *Client) Issue(ctx context.Context, key string) (*Issue, error) {
	var issue Issue
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key), nil, nil, &issue); err != nil {
		return nil, err
	}
	if issue.Fields == nil {
		issue.Fields = map[string]any{}
	}
	return &issue, nil
}

// CreateIssue creates an issue from a field payload and returns its key.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]any) (string, error) {
	var created struct {
		Key string `json:"key"`
	}
	if err := c.do(ctx, http.MethodPost, "/issue", nil, map[string]any{"fields": fields}, &created); err != nil {
		return "", err
	}
	return created.Key, nil
}

// UpdateIssue sets fields on an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	return c.do(ctx, http.MethodPut, "/issue/"+url.PathEscape(key), nil, map[string]any{"fields": fields}, nil)
}

// AddComment adds a comment to an issue.
func (c *Client) AddComment(ctx context.Context, key, body string) error {
	return c.do(ctx, http.MethodPost, "/issue/"+url.PathEscape(key)+"/comment", nil, map[string]any{"body": body}, nil)
}

// LinkTypes lists the link types the tracker supports.
func (c *Client) LinkTypes(ctx context.Context) ([]LinkType, error) {
	var resp struct {
		IssueLinkTypes []LinkType `json:"issueLinkTypes"`
	}
	if err := c.do(ctx, http.MethodGet, "/issueLinkType", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.IssueLinkTypes, nil
}

// LinkIssues links inward to outward with the named link type.
func (c *Client) LinkIssues(ctx context.Context, linkType, inward, outward string) error {
	body := map[string]any{
		"type":         map[string]any{"name": linkType},
		"inwardIssue":  map[string]any{"key": inward},
		"outwardIssue": map[string]any{"key": outward},
	}
	return c.do(ctx, http.MethodPost, "/issueLink", nil, body, nil)
}

// ServerInfo returns information about the tracker instance.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.do(ctx, http.MethodGet, "/serverInfo", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

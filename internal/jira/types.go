package jira

import (
	"context"

	"github.com/papapumpkin/trackr/internal/schema"
)

// Tracker defines the tracker operations trackr commands use.
// *Client satisfies this interface.
type Tracker interface {
	Fields(ctx context.Context) ([]schema.Field, error)
	CreateMeta(ctx context.Context, project, issueType string) (map[string]schema.Field, error)
	EditMeta(ctx context.Context, key string) (map[string]schema.Field, error)
	Issue(ctx context.Context, key string) (*Issue, error)
	CreateIssue(ctx context.Context, fields map[string]any) (string, error)
	UpdateIssue(ctx context.Context, key string, fields map[string]any) error
	AddComment(ctx context.Context, key, body string) error
	LinkTypes(ctx context.Context) ([]LinkType, error)
	LinkIssues(ctx context.Context, linkType, inward, outward string) error
	ServerInfo(ctx context.Context) (*ServerInfo, error)
}

// Issue is a tracker record: its key and the raw value of every field.
type Issue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// LinkType is one kind of issue link, e.g. "Blocks".
type LinkType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

// ServerInfo describes the tracker instance.
type ServerInfo struct {
	BaseURL     string `json:"baseUrl"`
	Version     string `json:"version"`
	ServerTitle string `json:"serverTitle"`
}

type createMetaResponse struct {
	Projects []struct {
		Key        string `json:"key"`
		IssueTypes []struct {
			ID     string                  `json:"id"`
			Name   string                  `json:"name"`
			Fields map[string]schema.Field `json:"fields"`
		} `json:"issuetypes"`
	} `json:"projects"`
}

type editMetaResponse struct {
	Fields map[string]schema.Field `json:"fields"`
}

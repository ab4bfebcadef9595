package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trackr/internal/cache"
	"github.com/papapumpkin/trackr/internal/config"
	"github.com/papapumpkin/trackr/internal/fields"
	"github.com/papapumpkin/trackr/internal/jira"
	"github.com/papapumpkin/trackr/internal/logging"
	"github.com/papapumpkin/trackr/internal/ui"
)

// session holds everything one command invocation needs. The request cache
// is installed on the tracker client's HTTP client and saved by close.
type session struct {
	cfg     config.Config
	logger  *slog.Logger
	printer *ui.Printer
	tracker jira.Tracker
	cache   *cache.Cache
	client  *jira.Client
}

// newSession loads configuration. When online is set it also creates the
// tracker client and installs the request cache.
func newSession(cmd *cobra.Command, online bool) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &session{
		cfg:     cfg,
		logger:  logging.New(cfg.Verbose),
		printer: ui.New(),
	}
	if !online {
		return s, nil
	}
	if err := cfg.RequireURL(); err != nil {
		return nil, err
	}

	s.client = jira.New(cfg.URL,
		jira.WithCredentials(cfg.User, cfg.Token),
		jira.WithLogger(s.logger),
	)
	s.tracker = s.client

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if cfg.Cache.Enabled && !noCache {
		patterns, err := cache.CompilePatterns(cfg.Cache.Patterns)
		if err != nil {
			return nil, err
		}
		s.cache = cache.Load(cfg.Cache.File,
			cache.WithExpire(cfg.CacheExpire()),
			cache.WithPatterns(patterns),
			cache.WithLogger(s.logger),
		)
		s.cache.Install(s.client.HTTP)
	}
	return s, nil
}

// close removes the cache from the client and persists it. Cache failures
// are logged, never returned.
func (s *session) close() {
	if s.cache == nil {
		return
	}
	cache.Uninstall(s.client.HTTP)
	if err := s.cache.Save(s.cfg.Cache.File); err != nil {
		s.logger.Warn("saving request cache", "error", err)
	}
}

// overrides loads the user field override file.
func (s *session) overrides() ([]fields.Definition, error) {
	defs, err := fields.LoadOverrides(s.cfg.FieldsFile)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded field overrides", "path", s.cfg.FieldsFile, "count", len(defs))
	return defs, nil
}

// serverDefinitions fetches the tracker's field list. Offline sessions have
// none.
func (s *session) serverDefinitions(ctx context.Context) ([]fields.Definition, error) {
	if s.tracker == nil {
		return nil, nil
	}
	list, err := s.tracker.Fields(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching field list: %w", err)
	}
	return fields.FromSchema(list), nil
}

// registry builds the field registry from the server field list followed
// by the user overrides.
func (s *session) registry(ctx context.Context) (*fields.Registry, error) {
	server, err := s.serverDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.overrides()
	if err != nil {
		return nil, err
	}
	return s.buildRegistry(server, user), nil
}

func (s *session) buildRegistry(server, user []fields.Definition) *fields.Registry {
	defs := make([]fields.Definition, 0, len(server)+len(user))
	defs = append(defs, server...)
	defs = append(defs, user...)
	return fields.Build(defs, fields.BuildOptions{PromoteCustom: s.cfg.PromoteCustom})
}

// renderer creates a renderer over reg. The plugin runner is only real when
// configuration allows plugins.
func (s *session) renderer(reg *fields.Registry) *fields.Renderer {
	var runner fields.PluginRunner = fields.DisabledRunner{}
	if s.cfg.AllowPlugins {
		runner = &fields.ExecRunner{}
	}
	return fields.NewRenderer(reg, fields.WithPluginRunner(runner))
}

func (s *session) renderOptions(verbose bool) fields.RenderOptions {
	return fields.RenderOptions{Verbose: verbose, AllowPlugins: s.cfg.AllowPlugins}
}

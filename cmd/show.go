package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trackr/internal/fields"
	"github.com/papapumpkin/trackr/internal/jira"
	"github.com/papapumpkin/trackr/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <issue-key>",
	Short: "Fetch an issue and display its fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Display a saved issue JSON file without contacting the tracker",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	for _, c := range []*cobra.Command{showCmd, renderCmd} {
		c.Flags().Bool("verbose-fields", false, "include fields marked verbose")
		c.Flags().Bool("json", false, "print structured values as JSON")
		c.Flags().Bool("all", false, "also display fields the registry does not know")
	}
	showCmd.Flags().Bool("watch-fields", false, "re-render whenever the field override file changes")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(renderCmd)
}

type displayFlags struct {
	verbose bool
	json    bool
	all     bool
}

func readDisplayFlags(cmd *cobra.Command) displayFlags {
	var f displayFlags
	f.verbose, _ = cmd.Flags().GetBool("verbose-fields")
	f.json, _ = cmd.Flags().GetBool("json")
	f.all, _ = cmd.Flags().GetBool("all")
	return f
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	issue, err := s.tracker.Issue(ctx, args[0])
	if err != nil {
		return err
	}
	server, err := s.serverDefinitions(ctx)
	if err != nil {
		return err
	}
	user, err := s.overrides()
	if err != nil {
		return err
	}

	flags := readDisplayFlags(cmd)
	if err := s.display(issue, s.buildRegistry(server, user), flags); err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch-fields")
	if !watch {
		return nil
	}
	return s.watchFields(ctx, issue, server, flags)
}

// watchFields re-displays issue each time the override file changes, until
// ctx is cancelled.
func (s *session) watchFields(ctx context.Context, issue *jira.Issue, server []fields.Definition, flags displayFlags) error {
	w, err := fields.NewWatcher(s.cfg.FieldsFile)
	if err != nil {
		return fmt.Errorf("watching %s: %w", s.cfg.FieldsFile, err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching %s: %w", s.cfg.FieldsFile, err)
	}
	defer w.Stop()
	s.printer.Info("watching " + w.Path + " for changes (ctrl-c to stop)")

	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-w.Reloads:
			if r.Err != nil {
				s.printer.Error(r.Err.Error())
				continue
			}
			fmt.Fprintln(s.printer.Out())
			if err := s.display(issue, s.buildRegistry(server, r.Defs), flags); err != nil {
				return err
			}
		}
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	issue, err := readIssueFile(args[0])
	if err != nil {
		return err
	}
	reg, err := s.registry(cmd.Context())
	if err != nil {
		return err
	}
	return s.display(issue, reg, readDisplayFlags(cmd))
}

// readIssueFile accepts either an issue object with a "fields" member or a
// bare field map.
func readIssueFile(path string) (*jira.Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var issue jira.Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if issue.Fields == nil {
		if err := json.Unmarshal(data, &issue.Fields); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return &issue, nil
}

// renderedField is one field in JSON output.
type renderedField struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// collect renders every displayable field of issue in registry order,
// followed by unregistered fields in key order when all is set.
func collect(r *fields.Renderer, issue *jira.Issue, opts fields.RenderOptions, all bool) []renderedField {
	reg := r.Registry()
	var out []renderedField
	for _, key := range reg.Keys() {
		name, value := r.Render(key, issue.Fields, opts)
		if value == nil {
			continue
		}
		out = append(out, renderedField{ID: key, Name: name, Value: value})
	}
	if !all {
		return out
	}

	var extra []string
	for key := range issue.Fields {
		if _, known := reg.Lookup(key); known || fields.IsDedicated(key) {
			continue
		}
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		value, err := r.RenderKind(fields.KindAuto, issue.Fields[key], issue.Fields, opts.AsObject)
		if err != nil || value == nil || value == "" {
			continue
		}
		out = append(out, renderedField{ID: key, Name: key, Value: value})
	}
	return out
}

func (s *session) display(issue *jira.Issue, reg *fields.Registry, flags displayFlags) error {
	r := s.renderer(reg)
	opts := s.renderOptions(flags.verbose)
	opts.AsObject = flags.json
	rendered := collect(r, issue, opts, flags.all)

	if flags.json {
		enc := json.NewEncoder(s.printer.Out())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"key":         issue.Key,
			"summary":     issue.Fields["summary"],
			"description": issue.Fields["description"],
			"fields":      rendered,
		})
	}

	summary, _ := issue.Fields["summary"].(string)
	if issue.Key != "" || summary != "" {
		s.printer.Heading(issue.Key, summary)
	}
	rows := make([]ui.Row, 0, len(rendered))
	for _, f := range rendered {
		rows = append(rows, ui.Row{Name: f.Name, Value: fields.Stringify(f.Value)})
	}
	s.printer.Fields(rows)
	if desc, ok := issue.Fields["description"].(string); ok {
		s.printer.Text("Description", desc)
	}
	return nil
}

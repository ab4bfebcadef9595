package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trackr/internal/input"
	"github.com/papapumpkin/trackr/internal/schema"
)

var createCmd = &cobra.Command{
	Use:   "create <project> <issue-type> <summary>",
	Short: "Create an issue",
	Long: "Create an issue. Field values given with -f name=value are matched against the\n" +
		"project's create metadata: names may be abbreviated, list fields take comma-separated\n" +
		"values, and option values are matched against the allowed values.",
	Args: cobra.ExactArgs(3),
	RunE: runCreate,
}

var editCmd = &cobra.Command{
	Use:   "edit <issue-key>",
	Short: "Set fields on an existing issue",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	createCmd.Flags().StringP("description", "d", "", "issue description")
	createCmd.Flags().StringArrayP("field", "f", nil, "field value as name=value (repeatable)")
	editCmd.Flags().StringArrayP("field", "f", nil, "field value as name=value (repeatable)")
	_ = editCmd.MarkFlagRequired("field")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(editCmd)
}

// parseFieldArgs splits repeated name=value flags. A later flag for the same
// name replaces an earlier one.
func parseFieldArgs(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		name, value, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("field %q: want name=value", a)
		}
		out[name] = value
	}
	return out, nil
}

// buildPayload transmogrifies values against defs, resolving aliases from
// the field registry as well as the tracker's own names.
func (s *session) buildPayload(defs map[string]schema.Field, values map[string]string) (map[string]any, error) {
	user, err := s.overrides()
	if err != nil {
		return nil, err
	}
	reg := s.buildRegistry(nil, user)
	t := input.New(defs,
		input.WithAliases(reg.Aliases()),
		input.WithLogger(s.logger),
	)
	return t.Transmogrify(values)
}

func runCreate(cmd *cobra.Command, args []string) error {
	project, issueType, summary := args[0], args[1], args[2]
	raw, _ := cmd.Flags().GetStringArray("field")
	values, err := parseFieldArgs(raw)
	if err != nil {
		return err
	}

	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.close()

	defs, err := s.tracker.CreateMeta(cmd.Context(), project, issueType)
	if err != nil {
		return err
	}
	payload, err := s.buildPayload(defs, values)
	if err != nil {
		return err
	}

	payload["project"] = map[string]any{"key": project}
	payload["issuetype"] = map[string]any{"name": issueType}
	payload["summary"] = summary
	if desc, _ := cmd.Flags().GetString("description"); desc != "" {
		payload["description"] = desc
	}

	key, err := s.tracker.CreateIssue(cmd.Context(), payload)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.printer.Out(), key)
	s.printer.Success("created " + key)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	key := args[0]
	raw, _ := cmd.Flags().GetStringArray("field")
	values, err := parseFieldArgs(raw)
	if err != nil {
		return err
	}

	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.close()

	defs, err := s.tracker.EditMeta(cmd.Context(), key)
	if err != nil {
		return err
	}
	payload, err := s.buildPayload(defs, values)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return fmt.Errorf("no editable fields matched %s", strings.Join(sortedKeys(values), ", "))
	}
	if err := s.tracker.UpdateIssue(cmd.Context(), key, payload); err != nil {
		return err
	}
	s.printer.Success("updated " + key)
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

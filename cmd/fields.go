package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trackr/internal/fields"
	"github.com/papapumpkin/trackr/internal/match"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the merged field registry",
	Long: "List every field the tracker and the override file define, in display order, with the\n" +
		"renderer each one uses. With --init, write an override file scaffold for the custom fields.",
	Args: cobra.NoArgs,
	RunE: runFields,
}

func init() {
	fieldsCmd.Flags().Bool("all", false, "include hidden fields")
	fieldsCmd.Flags().Bool("init", false, "write an override file for the tracker's custom fields")
	fieldsCmd.Flags().Bool("force", false, "overwrite an existing override file (with --init)")
	fieldsCmd.Flags().Bool("offline", false, "list built-in fields and overrides without contacting the tracker")

	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, _ []string) error {
	offline, _ := cmd.Flags().GetBool("offline")
	s, err := newSession(cmd, !offline)
	if err != nil {
		return err
	}
	defer s.close()

	if initFile, _ := cmd.Flags().GetBool("init"); initFile {
		if offline {
			return fmt.Errorf("--init needs the tracker field list; drop --offline")
		}
		force, _ := cmd.Flags().GetBool("force")
		return s.initOverrides(cmd, force)
	}

	reg, err := s.registry(cmd.Context())
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")
	entries := reg.Describe()
	if !all {
		shown := entries[:0]
		for _, e := range entries {
			if e.Strategy != "hidden" {
				shown = append(shown, e)
			}
		}
		entries = shown
	}
	s.printer.Registry(entries)
	return nil
}

// initOverrides writes one definition per custom field, each with a short
// alias derived from its name.
func (s *session) initOverrides(cmd *cobra.Command, force bool) error {
	path := s.cfg.FieldsFile
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	list, err := s.tracker.Fields(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching field list: %w", err)
	}
	var defs []fields.Definition
	for _, f := range list {
		if !f.Custom {
			continue
		}
		defs = append(defs, fields.Definition{
			ID:     f.ID,
			Name:   f.Name,
			Alias:  match.Normalize(f.Name),
			Schema: f.Schema,
		})
	}
	if err := fields.SaveOverrides(path, defs); err != nil {
		return err
	}
	s.printer.Success(fmt.Sprintf("wrote %d field definition(s) to %s", len(defs), path))
	return nil
}

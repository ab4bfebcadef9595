package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trackr/internal/config"
	"github.com/papapumpkin/trackr/internal/fields"
	"github.com/papapumpkin/trackr/internal/jira"
	"github.com/papapumpkin/trackr/internal/logging"
	"github.com/papapumpkin/trackr/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check configuration, the field override file and tracker access",
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := ui.New()
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ok := true
		check := func(label string, err error) {
			printer.Check(label, err)
			if err != nil {
				ok = false
			}
		}

		check("configuration", cfg.Validate())

		_, err = fields.LoadOverrides(cfg.FieldsFile)
		check("field overrides "+cfg.FieldsFile, err)

		if err := cfg.RequireURL(); err != nil {
			check("tracker", err)
		} else {
			client := jira.New(cfg.URL,
				jira.WithCredentials(cfg.User, cfg.Token),
				jira.WithLogger(logging.New(cfg.Verbose)),
			)
			info, err := client.ServerInfo(cmd.Context())
			var apiErr *jira.APIError
			if errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 403) {
				err = fmt.Errorf("credentials rejected: %w", err)
			}
			label := "tracker " + cfg.URL
			if err == nil && info.Version != "" {
				label += " (version " + info.Version + ")"
			}
			check(label, err)
		}

		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

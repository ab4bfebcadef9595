package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trackr/internal/match"
)

var commentCmd = &cobra.Command{
	Use:   "comment <issue-key> <text>",
	Short: "Add a comment to an issue",
	Args:  cobra.ExactArgs(2),
	RunE:  runComment,
}

var linkCmd = &cobra.Command{
	Use:   "link <issue-key> <link-type> <other-key>",
	Short: "Link two issues",
	Long: "Link two issues. The link type is matched against the tracker's link types, so\n" +
		"\"block\" selects \"Blocks\" when it is the only match.",
	Args: cobra.ExactArgs(3),
	RunE: runLink,
}

func init() {
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(linkCmd)
}

func runComment(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.tracker.AddComment(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	s.printer.Success("commented on " + args[0])
	return nil
}

func runLink(cmd *cobra.Command, args []string) error {
	inward, typeName, outward := args[0], args[1], args[2]
	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.close()

	types, err := s.tracker.LinkTypes(cmd.Context())
	if err != nil {
		return err
	}
	allowed := make([]match.AllowedValue, 0, len(types))
	for _, lt := range types {
		allowed = append(allowed, match.AllowedValue{ID: lt.ID, Name: lt.Name})
	}
	name, err := match.ValidateOne("link type", typeName, allowed)
	if err != nil {
		return err
	}

	if err := s.tracker.LinkIssues(cmd.Context(), name, inward, outward); err != nil {
		return err
	}
	s.printer.Success(fmt.Sprintf("linked %s %s %s", inward, name, outward))
	return nil
}

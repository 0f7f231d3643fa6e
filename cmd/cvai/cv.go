package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cvai-core/internal/models"
)

var cvCmd = &cobra.Command{
	Use:   "cv",
	Short: "Manage stored CVs",
}

var cvListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored CVs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cvs, err := app.Store.ListCVs(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), cvs)
	},
}

var (
	cvAddName     string
	cvAddSections []string
)

var cvAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a new CV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sections, err := parseSections(cvAddSections)
		if err != nil {
			return err
		}
		cv, err := app.Store.SaveCV(cmd.Context(), models.CV{Name: cvAddName, Sections: sections})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), cv)
	},
}

var cvDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored CV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Store.DeleteCV(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

// parseSections reads "Title=Content" pairs.
func parseSections(raw []string) ([]models.Section, error) {
	out := make([]models.Section, 0, len(raw))
	for _, r := range raw {
		title, content, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("section %q must be Title=Content", r)
		}
		out = append(out, models.Section{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)})
	}
	return out, nil
}

func init() {
	cvAddCmd.Flags().StringVar(&cvAddName, "name", "", "CV name (required)")
	cvAddCmd.Flags().StringArrayVar(&cvAddSections, "section", nil, "Section as Title=Content (repeatable)")
	_ = cvAddCmd.MarkFlagRequired("name")

	cvCmd.AddCommand(cvListCmd, cvAddCmd, cvDeleteCmd)
	rootCmd.AddCommand(cvCmd)
}

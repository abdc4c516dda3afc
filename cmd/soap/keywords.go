package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/soapbox/internal/categorize"
	"github.com/Veraticus/soapbox/internal/cli"
	"github.com/Veraticus/soapbox/internal/model"
)

func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Inspect the section keyword table",
		Long: `Inspect the keywords used to route dictation into SOAP sections.

Extra keywords can be loaded at startup from a YAML file named by keywords.file
in the config (or SOAP_KEYWORDS_FILE). Use 'soap keywords export' for a template.`,
	}
	cmd.AddCommand(keywordsShowCmd())
	cmd.AddCommand(keywordsExportCmd())
	cmd.AddCommand(keywordsTestCmd())
	return cmd
}

func keywordsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active keyword table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			keywords, err := loadKeywords()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Section keywords"))
			for _, section := range model.Sections() {
				fmt.Fprintln(out, cli.BoldStyle.Render(section.Title()))
				fmt.Fprintf(out, "  %s\n\n", strings.Join(keywords.For(section), ", "))
			}
			return nil
		},
	}
}

func keywordsExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active keyword table as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			keywords, err := loadKeywords()
			if err != nil {
				return err
			}

			if output == "" {
				return categorize.EncodeKeywords(cmd.OutOrStdout(), keywords)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer func() { _ = f.Close() }()

			if err := categorize.EncodeKeywords(f, keywords); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Exported keywords to "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")
	return cmd
}

func keywordsTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <text>",
		Short: "Show which section a phrase would be routed to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, err := loadKeywords()
			if err != nil {
				return err
			}
			section := categorize.NewCategorizer(keywords).Detect(strings.Join(args, " "), "")
			fmt.Fprintln(cmd.OutOrStdout(), section)
			return nil
		},
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seo-optimizer/inspector/analyzer"
	"github.com/seo-optimizer/inspector/keywords"
	"github.com/seo-optimizer/inspector/report"
)

// readMarkup returns the contents of path, or "" when path is empty.
func readMarkup(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read html file: %w", err)
	}
	return string(b), nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func analyzeCommand() *cobra.Command {
	var (
		asJSON   bool
		htmlFile string
	)
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Collect SEO signals of a page and list its issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			defer func() { _ = d.logger.Sync() }()

			markup, err := readMarkup(htmlFile)
			if err != nil {
				return err
			}

			svc := analyzer.NewService(d.fetcher, analyzer.Options{Logger: d.logger, Prober: d.prober})
			snap, err := svc.Analyze(cmd.Context(), analyzer.Request{URL: args[0], HTML: markup})
			if err != nil {
				return err
			}

			rep := analyzer.NewReport(snap)
			if asJSON {
				return writeJSON(cmd, rep)
			}
			report.NewRenderer(cmd.OutOrStdout()).RenderReport(rep)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	cmd.Flags().StringVar(&htmlFile, "html-file", "", "analyse this saved DOM instead of fetching the URL")
	return cmd
}

func keywordsCommand() *cobra.Command {
	var (
		asJSON   bool
		htmlFile string
		top      int
	)
	cmd := &cobra.Command{
		Use:   "keywords <url>",
		Short: "Show keyword density of a page for 1 to 5 word phrases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			defer func() { _ = d.logger.Sync() }()

			markup, err := readMarkup(htmlFile)
			if err != nil {
				return err
			}

			engine := keywords.NewEngine(d.fetcher, keywords.Options{Logger: d.logger})
			a, err := engine.Analyze(cmd.Context(), keywords.Request{URL: args[0], HTML: markup})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, a)
			}
			report.NewRenderer(cmd.OutOrStdout()).RenderKeywords(a, top)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	cmd.Flags().StringVar(&htmlFile, "html-file", "", "analyse this saved DOM instead of fetching the URL")
	cmd.Flags().IntVar(&top, "top", 10, "rows per table (0 for all)")
	return cmd
}

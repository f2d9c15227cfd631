package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"contentpilot/internal/model"
	"contentpilot/pkg/prompts"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Run schema migrations and convert legacy single-medium plans to channel lists.
With --seed, the default prompt templates are inserted when missing.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Seed default prompt templates")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.Background()) }()

	if err := a.Migrate(ctx); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Database migrated"))

	if migrateSeed {
		n, err := a.Store().SeedTemplates(ctx, defaultTemplates())
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Seeded %d prompt template(s)", n)))
	}
	return nil
}

// defaultTemplates turns the built-in system prompts into editable templates.
func defaultTemplates() []model.PromptTemplate {
	p := prompts.Defaults()
	describe := func(s string) *string { return &s }
	return []model.PromptTemplate{
		{
			Name:        prompts.TemplateContentGenerator,
			Description: describe("System prompt for free-form content generation"),
			Prompt:      p.System.Content,
		},
		{
			Name:        prompts.TemplateSEOAnalyzer,
			Description: describe("System prompt for SEO scoring"),
			Prompt:      p.System.SEO,
		},
		{
			Name:        prompts.TemplateDocumentAnalyzer,
			Description: describe("System prompt for PDF summaries and risk ratings"),
			Prompt:      p.System.Document,
		},
	}
}

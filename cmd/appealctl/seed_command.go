package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/appeal-routing-api/internal/repository"
	"github.com/noah-isme/appeal-routing-api/pkg/database"
)

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load the demo applications into PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			db, err := database.NewPostgres(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer db.Close()

			repo := repository.NewApplicationRepository(db)
			if err := repo.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			if err := repository.SeedDemoApplications(cmd.Context(), repo); err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			demo := repository.DemoApplications()
			rows := make([][]string, 0, len(demo))
			for _, app := range demo {
				rows = append(rows, []string{app.ID, app.StudentName, string(app.Type), string(app.CurrentStage), string(app.Status)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Student", "Type", "Current Stage", "Status"}, rows))
			return nil
		},
	}
}

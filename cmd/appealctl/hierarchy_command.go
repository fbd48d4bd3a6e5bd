package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/appeal-routing-api/internal/models"
	"github.com/noah-isme/appeal-routing-api/internal/routing"
)

func newHierarchyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hierarchy",
		Short: "Show the approval chain and where each appeal type ends",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"#", "Role", "Stage", "Next"}, hierarchyRows()))
			fmt.Fprintln(out, renderTable([]string{"Appeal Type", "Final Stage"}, appealTypeRows()))
			return nil
		},
	}
}

func hierarchyRows() [][]string {
	roles := routing.ApproverRoles()
	rows := make([][]string, 0, len(roles))
	for i, role := range roles {
		stage, _ := routing.StageFor(role)
		next := "-"
		if n, ok := routing.NextRole(role); ok {
			next = string(n)
		}
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), string(role), string(stage), next})
	}
	return rows
}

func appealTypeRows() [][]string {
	rows := make([][]string, 0, len(models.AppealTypes))
	for _, t := range models.AppealTypes {
		rows = append(rows, []string{string(t), string(routing.FinalStage(t))})
	}
	return rows
}

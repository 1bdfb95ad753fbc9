package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/calendarrun/internal/advisor"
	"github.com/sawpanic/calendarrun/internal/assemble"
	"github.com/sawpanic/calendarrun/internal/io"
	"github.com/sawpanic/calendarrun/internal/present"
)

func init() {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate every scenario in a YAML file",
		Long: `Evaluate a list of named scenarios. Scenarios may carry expect_color and
expect_strategy; any mismatch or rejected input makes the command exit 3.`,
		Args: cobra.NoArgs,
		RunE: runBatch,
	}

	batchCmd.Flags().StringP("file", "f", "", "Scenario YAML file (required)")
	batchCmd.Flags().BoolP("json", "j", false, "Output outcomes as JSON")
	batchCmd.Flags().String("out", "", "Also write outcomes as JSON lines to this file")
	_ = batchCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	defer flushMetrics()

	path, _ := cmd.Flags().GetString("file")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outPath, _ := cmd.Flags().GetString("out")

	scenarios, err := assemble.LoadScenarios(path)
	if err != nil {
		return err
	}
	log.Info().Str("file", path).Int("scenarios", len(scenarios)).Msg("Running batch")

	outcomes, err := app.service.EvaluateBatch(cmd.Context(), scenarios)
	if err != nil {
		return err
	}

	if outPath != "" {
		lines, err := present.JSONLines(outcomes)
		if err != nil {
			return err
		}
		if err := io.WriteLinesAtomic(outPath, lines); err != nil {
			return err
		}
		log.Info().Str("path", outPath).Msg("Batch outcomes written")
	}

	if jsonOutput {
		err = present.RenderJSON(os.Stdout, outcomes)
	} else {
		err = textRenderer().RenderBatch(batchRows(outcomes))
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	if failed > 0 {
		return &exitError{code: 3, err: fmt.Errorf("%d of %d scenarios failed", failed, len(outcomes))}
	}
	return nil
}

func batchRows(outcomes []advisor.Outcome) []present.BatchRow {
	rows := make([]present.BatchRow, 0, len(outcomes))
	for _, o := range outcomes {
		row := present.BatchRow{Name: o.Name, Problem: o.Error}
		if o.ErrorExpected {
			row.Strategy, row.Problem = "rejected as expected", ""
		}
		if o.Recommendation != nil {
			row.Color = o.Recommendation.Color.String()
			row.Strategy = string(o.Recommendation.Strategy.Code)
		}
		if len(o.Mismatches) > 0 {
			row.Problem = strings.Join(o.Mismatches, "; ")
		}
		rows = append(rows, row)
	}
	return rows
}

package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/calendarrun/internal/assemble"
	"github.com/sawpanic/calendarrun/internal/io"
	"github.com/sawpanic/calendarrun/internal/policy"
	"github.com/sawpanic/calendarrun/internal/present"
)

var evaluateForm = assemble.DefaultForm()

func init() {
	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Grade one double calendar setup",
		Long: `Evaluate a single setup given on the command line. Unset flags keep
the defaults shown in --help. The ATR guardrail only runs with --use-atr;
without --atr-threshold the limit is half the strike width.`,
		Example: `  calendarrun evaluate -u QQQ --spot 450 --put-strike 440 --call-strike 460 \
    --front-iv-put 22 --back-iv-put 21 --front-iv-call 20 --back-iv-call 19 \
    --iv-rank 35 --days-to-event 10 --vix 15`,
		Args: cobra.NoArgs,
		RunE: runEvaluate,
	}

	evaluateForm.BindFlags(evaluateCmd.Flags())
	evaluateCmd.Flags().BoolP("json", "j", false, "Output in JSON format")
	evaluateCmd.Flags().String("out", "", "Also write the recommendation as JSON to this file")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	defer flushMetrics()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	outPath, _ := cmd.Flags().GetString("out")

	in, err := evaluateForm.Build()
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	rec, err := app.service.Evaluate(cmd.Context(), in)
	if err != nil {
		if errors.Is(err, policy.ErrInvalidInput) {
			return &exitError{code: 2, err: err}
		}
		return err
	}

	if outPath != "" {
		if err := io.WriteJSONAtomic(outPath, rec); err != nil {
			return err
		}
		log.Info().Str("path", outPath).Msg("Recommendation written")
	}

	if jsonOutput {
		return present.RenderJSON(os.Stdout, rec)
	}
	return textRenderer().Render(rec)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sawpanic/calendarrun/internal/present"
)

func init() {
	thresholdsCmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Display the active threshold set",
		Long: `Display the thresholds evaluations run against: the built-in defaults,
or the file given by --thresholds / CALENDARRUN_THRESHOLDS_PATH.`,
		Args: cobra.NoArgs,
		RunE: runThresholds,
	}

	thresholdsCmd.Flags().Bool("yaml", false, "Output as YAML (loadable with --thresholds)")
	thresholdsCmd.Flags().BoolP("json", "j", false, "Output in JSON format")

	rootCmd.AddCommand(thresholdsCmd)
}

func runThresholds(cmd *cobra.Command, args []string) error {
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	th := app.thresholds
	switch {
	case yamlOutput:
		data, err := th.YAML()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case jsonOutput:
		return present.RenderJSON(os.Stdout, th)
	}

	source := "built-in defaults"
	if app.cfg.ThresholdsPath != "" {
		source = app.cfg.ThresholdsPath
	}
	fmt.Printf("📁 Thresholds from: %s\n", source)
	fmt.Printf("═══════════════════════════════════════════════\n")
	for _, line := range th.Describe() {
		fmt.Printf("   %s\n", line)
	}
	return nil
}

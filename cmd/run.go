package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/lead"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var (
	runIndustry string
	runCountry  string
	runReport   string
	runFull     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate leads for an industry and country",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, err := getPipeline(cfg)
		if err != nil {
			return err
		}

		inputs := model.Inputs{Industry: runIndustry, Country: runCountry}
		result, err := p.Run(ctx, inputs)
		if err != nil {
			if unit, ok := pipeline.IsExecutionError(err); ok {
				zap.L().Error("run failed", zap.String("unit", unit))
			}
			return eris.Wrap(err, "pipeline run")
		}

		leads := lead.FromRecords(extract.Extract(result.Raw))

		zap.L().Info("run complete",
			zap.String("run_id", result.RunID),
			zap.Int("leads", len(leads)),
			zap.Int("total_tokens", result.Usage.TotalTokens),
			zap.Float64("total_cost", result.Usage.TotalCost),
		)

		if runReport != "" {
			report := lead.RenderReport(inputs, leads, result.Usage, result.RunID)
			if err := os.WriteFile(runReport, []byte(report), 0o644); err != nil {
				return eris.Wrap(err, "write report")
			}
			zap.L().Info("report written", zap.String("path", runReport))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if runFull {
			return enc.Encode(struct {
				RunID string                 `json:"run_id"`
				Leads []model.Lead           `json:"leads"`
				Usage any                    `json:"usage"`
				Trace model.ExecutionContext `json:"trace"`
			}{result.RunID, leads, result.Usage, result.Context})
		}
		return enc.Encode(leads)
	},
}

func init() {
	runCmd.Flags().StringVar(&runIndustry, "industry", "", "target industry (required)")
	runCmd.Flags().StringVar(&runCountry, "country", "", "target country (required)")
	runCmd.Flags().StringVar(&runReport, "report", "", "write a markdown report to this path")
	runCmd.Flags().BoolVar(&runFull, "full", false, "print full run payload including per-unit outputs")
	_ = runCmd.MarkFlagRequired("industry")
	_ = runCmd.MarkFlagRequired("country")
	rootCmd.AddCommand(runCmd)
}

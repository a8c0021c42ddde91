package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/airnalytics/air-modernity/internal/application/segmentation"
)

// newPipelineCmd builds the batch run command.
func newPipelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pipeline",
		Short: "Run the full scoring and segmentation pipeline",
		Long: "Reads the per-aircraft dataset, aggregates per-airline modernity\n" +
			"features, filters small fleets, clusters the airlines, trains the\n" +
			"surrogate classifier, and writes all artifacts to the output directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := getCLIContext(cmd)
			if err != nil {
				return err
			}

			summary, err := segmentation.NewPipeline(cc.Config, cc.Logger).Run()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s finished in %s\n", summary.RunID, summary.Elapsed.Round(summaryRounding))
			fmt.Fprintf(out, "  airlines:       %d (%d scored after fleet-size filter)\n", summary.Airlines, summary.Scored)
			fmt.Fprintf(out, "  clusters:       %d (inertia %.4f)\n", summary.Clusters, summary.Inertia)
			fmt.Fprintf(out, "  knn accuracy:   %.4f\n", summary.Accuracy)
			fmt.Fprintf(out, "  artifacts:      %s\n", cc.Config.Output.Dir)
			return nil
		},
	}
}

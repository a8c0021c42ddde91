package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/airnalytics/air-modernity/internal/application/segmentation"
	"github.com/airnalytics/air-modernity/internal/domain/fleet"
)

const summaryRounding = time.Millisecond

// newPredictCmd builds the single-airline what-if command.
func newPredictCmd() *cobra.Command {
	var v fleet.FeatureVector

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Assign a cluster to a hypothetical airline profile",
		Long: "Loads the scaler and classifier artifacts from a previous pipeline\n" +
			"run and reports which segment the given feature values fall into.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := getCLIContext(cmd)
			if err != nil {
				return err
			}

			p, err := segmentation.LoadPredictor(cc.Config.Output.Dir)
			if err != nil {
				return err
			}
			cluster, err := p.Predict(v)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cluster: %d\n", cluster)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&v.FleetSize, "fleet-size", 0, "number of aircraft in the fleet")
	f.Float64Var(&v.DiversityScore, "diversity-score", 0, "count of distinct aircraft types in the fleet")
	f.Float64Var(&v.ModernityIndex, "modernity-index", 0, "share of post-2015 aircraft, in [0,1]")
	f.Float64Var(&v.NewGenShare, "new-gen-share", 0, "share of new-generation aircraft, in [0,1]")
	for _, name := range []string{"fleet-size", "diversity-score", "modernity-index", "new-gen-share"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

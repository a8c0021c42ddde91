package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/airnalytics/air-modernity/internal/application/segmentation"
	httpapi "github.com/airnalytics/air-modernity/internal/interfaces/http"
)

// newServeCmd builds the HTTP scoring server command.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the what-if predictor over HTTP",
		Long: "Loads the scaler and classifier artifacts from a previous pipeline\n" +
			"run and serves cluster assignment and evaluation metrics over REST.",
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
			srv := httpapi.NewServer(cc.Config, cc.Logger, p, cc.Config.Output.Dir)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-sig:
				return srv.Stop(context.Background())
			}
		},
	}
}

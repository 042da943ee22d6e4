package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/debugtap/debugtap/internal/capture"
	"github.com/debugtap/debugtap/internal/config"
	"github.com/debugtap/debugtap/internal/logging"
	"github.com/debugtap/debugtap/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Capture debug output in an interactive viewer",
	Long: `Start capturing and browse messages in a scrolling full-screen
viewer. The backlog is bounded (tui.max_messages); oldest entries are
dropped first. Press p to pause auto-scrolling, q to quit.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("mutex-name", "", "override the exclusivity mutex name")
	_ = viper.BindPFlag("capture.mutex_name", watchCmd.Flags().Lookup("mutex-name"))

	watchCmd.Flags().Int("max-messages", 0, "bound on the in-memory backlog")
	_ = viper.BindPFlag("tui.max_messages", watchCmd.Flags().Lookup("max-messages"))
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Close()

	eng := capture.New(
		capture.WithMutexName(cfg.Capture.MutexName),
		capture.WithLogger(logger.Slog()),
	)

	app := tui.New(eng, cfg, logger.WithComponent("viewer"))
	return app.Run()
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/debugtap/debugtap/internal/capture"
	"github.com/debugtap/debugtap/internal/config"
	"github.com/debugtap/debugtap/internal/logging"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print captured debug output to stdout",
	Long: `Start capturing and print one line per message: the emitting
process id followed by the text, exactly as the process wrote it.

Examples:
  # Capture until ctrl+c
  debugtap listen

  # Run under a different exclusivity mutex
  debugtap listen --mutex-name myteam.capture`,
	RunE: runListen,
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().String("mutex-name", "", "override the exclusivity mutex name")
	_ = viper.BindPFlag("capture.mutex_name", listenCmd.Flags().Lookup("mutex-name"))
}

var listenPidStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

func runListen(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	err = eng.Start(func(pid uint32, text string) {
		fmt.Fprintf(out, "%s %s\n", listenPidStyle.Render(fmt.Sprintf("[%6d]", pid)), text)
	})
	if err != nil {
		if errors.Is(err, capture.ErrAlreadyCaptured) {
			return fmt.Errorf("another debug-output listener is already running: %w", err)
		}
		return err
	}
	defer eng.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(cmd.ErrOrStderr(), "listening for debug output, ctrl+c to stop")
	<-ctx.Done()

	return eng.Stop()
}

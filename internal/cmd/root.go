// Package cmd wires the debugtap command line: a plain console listener and
// an interactive viewer, both hosting the capture engine.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/debugtap/debugtap/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "debugtap",
	Short: "Capture system-wide debug output without a debugger",
	Long: `Debugtap listens to the Windows debug-output facility (the channel
behind OutputDebugString) and shows every string any process on the
machine emits, without attaching a debugger to anything.

Only one listener can capture at a time system-wide; debugtap reports
when another one already holds the channel.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/debugtap/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/debugtap")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("DEBUGTAP")
	// Replace dots with underscores for nested keys in env vars
	// e.g., DEBUGTAP_CAPTURE_MUTEX_NAME for capture.mutex_name
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

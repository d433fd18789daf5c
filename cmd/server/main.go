package main

import (
	"alcyxob/fitness-community/internal/config"
	"alcyxob/fitness-community/internal/logging"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configDir string
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fitness-community",
	Short: "Fitness community web app: workout plans and a forum",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.LoadConfig(configDir); err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
		logging.Setup(cfg.Log)
		return cfg.Validate()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory holding config.yaml")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

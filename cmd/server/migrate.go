package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables, collections and indexes, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cfg.Database)
		if err != nil {
			return err
		}
		defer closeStore(store)

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		logrus.Info("Migration completed")
		return nil
	},
}

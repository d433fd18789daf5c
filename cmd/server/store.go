package main

import (
	"alcyxob/fitness-community/internal/config"
	"alcyxob/fitness-community/internal/repository"
	"alcyxob/fitness-community/internal/repository/mongo"
	sqlstore "alcyxob/fitness-community/internal/repository/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// openStore connects to the backend named by database.driver.
func openStore(cfg config.DatabaseConfig) (repository.Store, error) {
	log := logrus.WithField("driver", cfg.Driver)

	if cfg.Driver == config.DriverMongo {
		client, err := mongo.ConnectDB(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
		}
		log.WithField("database", cfg.Name).Info("Database connection established")
		return mongo.NewStore(client, cfg.Name), nil
	}

	store, err := sqlstore.Open(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Database connection established")
	return store, nil
}

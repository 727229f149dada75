package main

import (
	"fmt"

	"household-ledger/internal/config"
	"household-ledger/internal/database"
	"household-ledger/internal/events"
	"household-ledger/internal/server"

	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ledger API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}

			db, err := database.Initialize(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer func() { _ = sqlDB.Close() }()
			}

			publisher, err := events.Connect(cfg.Events.AMQPURL, cfg.Events.Exchange, a.logger)
			if err != nil {
				return fmt.Errorf("failed to connect event publisher: %w", err)
			}
			defer func() { _ = publisher.Close() }()

			srv := server.New(cmd.Context(), server.Deps{
				Config:    cfg,
				DB:        db,
				Publisher: publisher,
				Logger:    a.logger,
			})

			return srv.Start(cmd.Context())
		},
	}
}

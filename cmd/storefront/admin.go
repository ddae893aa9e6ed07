package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adyime/DadapperDaze-sub001/cache"
	"github.com/Adyime/DadapperDaze-sub001/internal/catalog"
	"github.com/Adyime/DadapperDaze-sub001/internal/db"
	"github.com/Adyime/DadapperDaze-sub001/internal/logging"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the catalog tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			conn, err := db.Open(cmd.Context(), cfg.Database, logging.L())
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := catalog.Migrate(cmd.Context(), conn); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logging.L().Info("migrations applied", "driver", cfg.Database.Driver)
			return nil
		},
	}
}

func cacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the shared cache",
	}
	cmd.AddCommand(cachePurgeCmd(configPath))
	return cmd
}

func cachePurgeCmd(configPath *string) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached entries by key prefix",
		Long:  "Delete cached entries whose key starts with --prefix, e.g. \"category\" or \"product:list\". Only shared backends (redis, tiered) outlive this process.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			engine := cfg.Cache.Engine()
			if engine.Backend == cache.BackendMemory {
				return fmt.Errorf("cache purge: backend %q is private to each process", engine.Backend)
			}

			store, err := cache.NewStore(engine, logging.L())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteByPrefix(cmd.Context(), prefix); err != nil {
				return fmt.Errorf("cache purge: %w", err)
			}
			logging.L().Info("cache purged", "backend", engine.Backend, "prefix", prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix to delete (required)")
	_ = cmd.MarkFlagRequired("prefix")
	return cmd
}

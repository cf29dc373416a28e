package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	_ "txnsense/cmd/ingest-service/docs"
	"txnsense/internal/api"
	"txnsense/internal/config"
	"txnsense/internal/constants"
	"txnsense/internal/logger"
	"txnsense/pkg/bootstrap"
	"txnsense/pkg/logging"
	"txnsense/pkg/migrations"
)

// @title           txnsense ingest API
// @version         1.0
// @description     Turns raw bank SMS into normalized, categorized transactions.
// @BasePath        /api/v1

var (
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ingest-service",
		Short: "Bank SMS ingestion service",
		Long:  "Ingest Service extracts, categorizes and stores transactions from bank SMS",
		RunE:  serveCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfigFile(required bool) (string, error) {
	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile == "" && required {
		return "", fmt.Errorf("config file is required")
	}
	return configFile, nil
}

func loadConfigAndLogger(required bool) (*config.Config, logger.Logger, error) {
	earlyLog := logging.NewEarlyLog()

	path, err := resolveConfigFile(required)
	if err != nil {
		earlyLog.Error("Config file is required. Use --config flag or CONFIG_FILE environment variable")
		return nil, nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		earlyLog.Error("Failed to load config: %v", err)
		return nil, nil, err
	}

	log, err := logger.New(cfg.Logging, serviceName)
	if err != nil {
		earlyLog.Error("Failed to init logger: %v", err)
		return nil, nil, err
	}
	return cfg, log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP ingestion service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger(true)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.InfowCtx(ctx, "Starting Ingest Service")

			app := NewApp(cfg, log)
			if err := app.Initialize(ctx); err != nil {
				log.Fatalf("Failed to initialize application: %v", err)
			}

			if err := app.Run(ctx); err != nil && err != context.Canceled {
				log.ErrorwCtx(ctx, "Service stopped with error", "error", err)
				return err
			}
			log.InfowCtx(ctx, "Shutdown complete")
			return nil
		},
	}
}

// parseCmd runs the pipeline offline against an in-memory store. Messages come from
// the arguments, or one per line from stdin when no arguments are given.
func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [message...]",
		Short: "Parse messages offline and print the normalized transactions as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			os.Setenv("DATABASE_DRIVER", constants.DriverMemory)

			cfg, log, err := loadConfigAndLogger(false)
			if err != nil {
				return err
			}
			defer log.Sync()

			cfg.Currency.CacheBackend = "memory"
			cfg.Database.RunMigrations = false
			cfg.Broker.Kafka.Brokers = nil

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			service, err := buildPipeline(ctx, cfg, log, &bootstrap.Connections{}, nil)
			if err != nil {
				return err
			}

			messages := args
			if len(messages) == 0 {
				messages, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetEscapeHTML(false)
			failed := 0
			for _, message := range messages {
				tx, err := service.Ingest(ctx, message)
				if err != nil {
					failed++
					log.WarnwCtx(ctx, "Message rejected", "error", err)
					continue
				}
				if err := out.Encode(api.NewTransactionResponse(tx)); err != nil {
					return fmt.Errorf("failed to write result: %w", err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d messages rejected", failed, len(messages))
			}
			return nil
		},
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return lines, nil
}

func migrateCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back storage schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := args[0]
			if direction != "up" && direction != "down" {
				return fmt.Errorf("unknown direction %q (expected up or down)", direction)
			}

			cfg, log, err := loadConfigAndLogger(true)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			dc := bootstrap.NewDatabaseConnector(cfg, log)

			switch cfg.Database.Driver {
			case constants.DriverPostgres:
				db, err := dc.InitPostgreSQL(ctx)
				if err != nil {
					return err
				}
				defer db.Close()

				if direction == "up" {
					err = migrations.MigratePostgresUp(db)
				} else {
					err = migrations.MigratePostgresDown(db, steps)
				}
				if err != nil {
					return err
				}

				version, dirty, err := migrations.PostgresVersion(db)
				if err != nil {
					return err
				}
				log.InfowCtx(ctx, "Migration complete", "direction", direction, "version", version, "dirty", dirty)
			case constants.DriverMongoDB:
				if direction == "down" {
					return fmt.Errorf("mongodb indexes cannot be rolled back")
				}
				client, err := dc.InitMongoDB(ctx)
				if err != nil {
					return err
				}
				defer client.Disconnect(context.Background())

				if err := migrations.EnsureMongoIndexes(ctx, client.Database(cfg.Database.MongoDB.Database)); err != nil {
					return err
				}
				log.InfowCtx(ctx, "Mongo indexes ensured")
			default:
				log.InfowCtx(ctx, "Nothing to migrate", "driver", cfg.Database.Driver)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back (down only)")
	return cmd
}

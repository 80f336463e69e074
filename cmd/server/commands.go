package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/importer"
	"github.com/phrazzld/lingua-api/internal/platform/postgres"
	"github.com/phrazzld/lingua-api/internal/service/auth"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Running the binary without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lingua-api",
		Short:         "Spaced-repetition review API for language learners",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "Path to a config file (defaults to ./config.yaml when present)")
	root.PersistentFlags().String("env-file", ".env", "Path to a dotenv file loaded before the environment")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|version|reset|redo] [args...]",
		Short: "Run database migrations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAppConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := setupAppLogger(cfg)
			if err != nil {
				return err
			}
			db, err := setupAppDatabase(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			logger.Info("executing migrations", "command", args[0])
			return postgres.Migrate(cmd.Context(), db, logger, args[0], args[1:]...)
		},
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import flashcards from a spreadsheet into a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuidFlag(cmd, "user")
			if err != nil {
				return err
			}
			deckID, err := uuidFlag(cmd, "deck")
			if err != nil {
				return err
			}
			format, err := importer.FormatFromPath(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadAppConfig(cmd)
			if err != nil {
				return err
			}
			if sheet, _ := cmd.Flags().GetString("sheet"); sheet != "" {
				cfg.Import.SheetName = sheet
			}
			logger, err := setupAppLogger(cfg)
			if err != nil {
				return err
			}
			db, err := setupAppDatabase(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			app, err := newApplication(cfg, logger, db)
			if err != nil {
				_ = db.Close()
				return err
			}
			defer app.cleanup()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer func() { _ = file.Close() }()

			result, err := importer.New(app.cardService, cfg.Import, logger).
				Import(cmd.Context(), userID, deckID, file, format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d of %d rows\n", result.Imported, result.Processed)
			for _, skipped := range result.Skipped {
				fmt.Fprintf(out, "skipped %v\n", skipped)
			}
			return nil
		},
	}
	cmd.Flags().String("user", "", "Owner of the deck (UUID)")
	cmd.Flags().String("deck", "", "Target deck (UUID)")
	cmd.Flags().String("sheet", "", "Worksheet to read (overrides import.sheet_name)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("deck")
	return cmd
}

// newTokenCmd issues an access token for a user. Accounts are managed by an
// upstream identity service, so this exists for operators and local testing.
func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuidFlag(cmd, "user")
			if err != nil {
				return err
			}
			cfg, err := loadAppConfig(cmd)
			if err != nil {
				return err
			}
			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}
			token, err := jwtService.GenerateToken(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("user", "", "User ID to issue the token for (UUID)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	return app.Run(ctx)
}

func loadAppConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.LoadWithOptions(config.Options{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func uuidFlag(cmd *cobra.Command, name string) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s must be a UUID: %w", name, err)
	}
	return id, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/config"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/server"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/storage"
)

const (
	portFlag    = "port"
	envFileFlag = "env-file"
)

var serveFlags = map[string]cobraflags.Flag{
	portFlag: &cobraflags.StringFlag{
		Name:  portFlag,
		Value: "",
		Usage: "HTTP port (overrides PORT)",
	},
	envFileFlag: &cobraflags.StringFlag{
		Name:  envFileFlag,
		Value: "",
		Usage: "Env file to load before reading the environment (default .env if present)",
	},
}

var migrateFlags = map[string]cobraflags.Flag{
	envFileFlag: &cobraflags.StringFlag{
		Name:  envFileFlag,
		Value: "",
		Usage: "Env file to load before reading the environment (default .env if present)",
	},
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "socialfeed",
		Short:         "SocialFeed API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand())
	return root
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API",
		RunE:  serveCommand,
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables, then exit",
		RunE:  migrateCommand,
	}
	cobraflags.RegisterMap(cmd, migrateFlags)
	return cmd
}

// bootstrap charge la configuration et ouvre la base
func bootstrap(envFile string) (*config.Config, error) {
	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}

	cfg, err := config.LoadConfig(envFiles...)
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	logs.SetLevel(cfg.LogLevel)

	if err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
		return nil, err
	}
	logs.LogJSON("INFO", "Database connected", map[string]interface{}{
		"driver": cfg.DatabaseDriver,
	})
	return cfg, nil
}

func migrateCommand(cmd *cobra.Command, _ []string) error {
	if _, err := bootstrap(migrateFlags[envFileFlag].GetString()); err != nil {
		return err
	}
	defer database.Close()

	if err := server.Migrate(database.DB); err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	logs.LogJSON("INFO", "Migrations applied", nil)
	return nil
}

func serveCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := bootstrap(serveFlags[envFileFlag].GetString())
	if err != nil {
		return err
	}
	defer database.Close()

	if port := serveFlags[portFlag].GetString(); port != "" {
		cfg.Port = port
	}

	if err := server.Migrate(database.DB); err != nil {
		return fmt.Errorf("migration: %w", err)
	}

	auth.Init(cfg.JWTSecret, cfg.AccessTokenTTL)
	pagination.Configure(cfg.PageSize, cfg.MaxPageSize)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.S3Enabled() {
		if err := storage.InitS3(ctx, storage.S3Options{
			Bucket:          cfg.AWSBucket,
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}); err != nil {
			return err
		}
	} else {
		logs.LogJSON("WARN", "Object storage disabled, profile picture upload unavailable", nil)
	}

	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logs.LogJSON("INFO", "Server listening", map[string]interface{}{
			"port": cfg.Port,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logs.LogJSON("INFO", "Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

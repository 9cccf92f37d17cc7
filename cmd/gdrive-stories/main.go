package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	gdrivestories "github.com/vfa-khuongdv/gdrive-stories"
	"github.com/vfa-khuongdv/gdrive-stories/internal/config"
	"github.com/vfa-khuongdv/gdrive-stories/internal/logger"
)

const serviceName = "gdrive-stories"

var (
	cfgFile string
	envFile string
	rootCmd = &cobra.Command{
		Use:   "gdrive-stories",
		Short: "Serve recent Google Drive media as stories",
		Long: `gdrive-stories exposes the images and videos of one Google Drive folder
that were modified recently, and relays their content over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  serve,
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Print the current stories as JSON",
		RunE:  list,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is ./.env when present)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
}

func setup(ctx context.Context) (*gdrivestories.Manager, zerolog.Logger, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: cfgFile, EnvFile: envFile})
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log, err := logger.New(cfg.Log, serviceName)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	manager, err := gdrivestories.NewManager(ctx, cfg, log)
	if err != nil {
		return nil, log, err
	}
	return manager, log, nil
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := manager.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing manager")
		}
	}()

	if err := manager.Initialize(); err != nil {
		return err
	}

	log.Info().Str("addr", manager.Server().Addr()).Msg("Starting gdrive-stories")
	return manager.Serve(ctx)
}

func list(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	manager, _, err := setup(ctx)
	if err != nil {
		return err
	}
	defer manager.Close()

	records, err := manager.ListStories(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

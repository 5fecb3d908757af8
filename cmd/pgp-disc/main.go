package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/anthropics/pgp-disc/internal/biz/domain"
	"github.com/anthropics/pgp-disc/internal/biz/repo"
	"github.com/anthropics/pgp-disc/internal/biz/usecase"
	"github.com/anthropics/pgp-disc/internal/conf"
	"github.com/anthropics/pgp-disc/internal/data"
	"github.com/anthropics/pgp-disc/internal/infra/discord"
	"github.com/anthropics/pgp-disc/internal/infra/gpg"
	"github.com/anthropics/pgp-disc/internal/server"
	"github.com/anthropics/pgp-disc/internal/ui"
)

var (
	verbose bool
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "pgp-disc",
	Short: "PGP-encrypted overlay chat for a Discord channel",
	Long: `pgp-disc connects to a Discord channel and overlays end-to-end PGP
encryption on top of it. Armored blocks spotted in chat are captured for
decryption; outgoing messages can be encrypted to any keyring recipient via
the local gpg tool.`,
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	// Command history persistence is best effort: a broken store degrades
	// to in-memory history for this session.
	var historyRepo repo.HistoryRepo
	var seedHistory []string
	if store, err := data.NewHistoryStore(cfg.History.DBPath); err != nil {
		logger.Warn("history store unavailable", zap.Error(err))
	} else {
		historyRepo = store
		defer store.Close()
		if seedHistory, err = store.Recent(context.Background(), cfg.History.Limit); err != nil {
			logger.Warn("history load failed", zap.Error(err))
		}
	}

	gpgClient := gpg.NewClient(cfg.GPG.Binary, logger)

	discordClient := discord.NewClient(cfg.Discord.Token, logger)
	if err := discordClient.Start(); err != nil {
		return err
	}
	defer discordClient.Stop()

	commands := make(chan string, 64)
	uiEvents := make(chan domain.UIEvent, 1024)

	overrides := &domain.Overrides{}
	inbox := domain.NewInbox()
	router := usecase.NewRouter(cfg.Discord.ChannelID, overrides, inbox, gpgClient, discordClient, logger)
	dispatcher := server.NewDispatcher(router, discordClient.Events(), commands, uiEvents, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	program := tea.NewProgram(ui.NewModel(uiEvents, commands, seedHistory, historyRepo, logger))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("shell error: %w", err)
	}

	// End of command input: the dispatcher drains no further work.
	close(commands)
	return nil
}

func buildLogger(cfg *conf.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if verbose || cfg.Debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	// The terminal belongs to the shell; logs go to a file next to the
	// history database.
	logPath := filepath.Join(filepath.Dir(cfg.History.DBPath), "pgp-disc.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}
	zapCfg.OutputPaths = []string{logPath}
	zapCfg.ErrorOutputPaths = []string{logPath}

	return zapCfg.Build()
}

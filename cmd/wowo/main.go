// Command wowo is the Open Sawit chat terminal client.
//
// Usage:
//
//	wowo             # interactive chat TUI (login gate on first run)
//	wowo sessions    # list chat sessions for the logged-in user
//	wowo logout      # clear the stored user and session
//
// Configuration comes from the environment (WOWO_API_BASE_URL,
// WOWO_STATE_PATH, WOWO_LOG_FILE, WOWO_DEBUG); flags override it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/opensawit/wowo"
	"github.com/opensawit/wowo/api"
	bt "github.com/opensawit/wowo/bubbletea"
	"github.com/opensawit/wowo/config"
	"github.com/opensawit/wowo/state"
)

var (
	flagBaseURL string
	flagState   string
	flagLogFile string
	flagDebug   bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wowo",
	Short: "Chat bareng Wowo Chan dari terminal",
	Long: `wowo is the terminal client for the Open Sawit chat backend.

Run without arguments to open the interactive chat: a login gate, a session
sidebar, and a streaming chat view.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("base-url") {
			cfg.BaseURL = flagBaseURL
		}
		if cmd.Flags().Changed("state") {
			cfg.StatePath = flagState
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = flagLogFile
		}
		if cmd.Flags().Changed("debug") {
			cfg.Debug = flagDebug
		}
		if cfg.StatePath == "" {
			cfg.StatePath = state.DefaultPath()
		}

		// The TUI owns the terminal, so diagnostics only go to a file.
		if cfg.LogFile == "" {
			logger = zap.NewNop()
			return nil
		}
		zcfg := zap.NewProductionConfig()
		zcfg.OutputPaths = []string{cfg.LogFile}
		zcfg.ErrorOutputPaths = []string{cfg.LogFile}
		if cfg.Debug {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List chat sessions for the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := state.Load(cfg.StatePath)
		if err != nil {
			return err
		}
		if !st.User.Valid() {
			return fmt.Errorf("not logged in; run wowo to log in first")
		}

		backend := api.New(cfg.BaseURL)
		sessions, err := backend.Sessions(cmd.Context(), st.User.ID)
		if err != nil {
			return err
		}
		for _, s := range sessions {
			title := s.Title
			if title == "" {
				title = "Chat tanpa judul"
			}
			marker := " "
			if s.ID == st.SessionID {
				marker = "*"
			}
			fmt.Printf("%s %s  %s  %s\n", marker, s.ID, s.CreatedAt.Format("2006-01-02 15:04"), title)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored user and session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return state.Save(cfg.StatePath, state.State{})
	},
}

func runTUI() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := state.Load(cfg.StatePath)
	if err != nil {
		// Corrupt state degrades to the logged-out experience.
		logger.Warn("state load failed", zap.Error(err))
		st = state.State{}
	}
	if !st.User.Valid() {
		st = state.State{}
	}

	statePath := cfg.StatePath
	chat := wowo.NewChat(api.New(cfg.BaseURL),
		wowo.WithLogger(logger),
		wowo.WithUser(st.User),
		wowo.WithSessionID(st.SessionID),
		wowo.WithStateListener(func(u wowo.User, sessionID string) {
			if err := state.Save(statePath, state.State{User: u, SessionID: sessionID}); err != nil {
				logger.Warn("state save failed", zap.Error(err))
			}
		}),
	)

	if err := bt.Run(ctx, bt.New(chat, wowo.DefaultTheme())); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "backend base URL (overrides WOWO_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagState, "state", "", "state file path (overrides WOWO_STATE_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "diagnostics log file (overrides WOWO_LOG_FILE)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging (overrides WOWO_DEBUG)")
	rootCmd.AddCommand(sessionsCmd, logoutCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wowo: %v\n", err)
		os.Exit(1)
	}
}

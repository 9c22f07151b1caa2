package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"searchgate/config"
	"searchgate/core/audit"
	chatinterface "searchgate/interface/chat"
	"searchgate/memory"
	"searchgate/session"
	"searchgate/setup"
	"searchgate/ui"
)

const terminalChannel = "terminal"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "searchgate",
	Short: "Confirmation-gated web search for AI chat sessions",
	Long: `searchgate lets an AI ask for a web search that only runs after a human approves it.

Lines starting with "@ai " are treated as the AI's replies. When one contains
[SEARCH] "some query", a pending request is created and must be confirmed with
/confirm_search <id> within the confirmation window. /search <query> runs a
search immediately, subject to a cooldown.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "List context injected by approved searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		sessionName, _ := cmd.Flags().GetString("session")
		limit, _ := cmd.Flags().GetInt("limit")
		term, _ := cmd.Flags().GetString("search")
		if sessionName == "" {
			sessionName = cfg.Memory.Session
		}

		store, err := memory.NewStore(cfg.ResolvePath(cfg.Memory.DBPath))
		if err != nil {
			return err
		}
		defer store.Close()

		var memories []memory.Memory
		if term != "" {
			memories, err = store.Search(cmd.Context(), sessionName, term, limit)
		} else {
			memories, err = store.Recent(cmd.Context(), sessionName, limit)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(memories) == 0 {
			fmt.Fprintln(out, "No memories")
			return nil
		}
		for _, m := range memories {
			fmt.Fprintf(out, "#%d %s\n%s\n\n", m.ID, m.CreatedAt.Local().Format(time.DateTime), m.Content)
		}
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent search executions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := audit.NewLogger(cfg.ResolvePath(cfg.Audit.LogPath)).Recent(limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			status := fmt.Sprintf("%d results", e.ResultCount)
			if e.Error != "" {
				status = "error: " + e.Error
			}
			fmt.Fprintf(out, "%s  %-5s %-24s %q  %dms  %s\n",
				e.Timestamp.Local().Format(time.DateTime), e.Initiator, e.RequestID, e.Query, e.DurationMS, status)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(loadConfig())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default searchgate.yaml or $SEARCHGATE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	memoryCmd.Flags().String("session", "", "memory session (default from config)")
	memoryCmd.Flags().Int("limit", 10, "maximum number of memories")
	memoryCmd.Flags().String("search", "", "only memories containing this text")
	auditCmd.Flags().Int("limit", 20, "maximum number of entries")

	rootCmd.AddCommand(memoryCmd, auditCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it is missing
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		if configPath != "" || !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		}
		cfg = config.Default()
	}
	return cfg
}

func runChat(ctx context.Context) error {
	cfg := loadConfig()

	logger, err := setup.NewLogger(cfg.Logging, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	history := session.NewHistory(500)
	chatUI := chatinterface.NewInterface(os.Stdin, os.Stdout, history)

	bootstrap, err := setup.Initialize(ctx, cfg, chatUI, history, logger)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer bootstrap.Cleanup()

	engine := bootstrap.Engine
	logger.Debug("engine ready", zap.String("provider", bootstrap.Provider.Name()))

	fmt.Println("\n=== SearchGate ===")
	fmt.Printf("Provider: %s\n", bootstrap.Provider.Name())
	fmt.Println("Type help to see available commands")

	// Unblock the pending read on interrupt
	go func() {
		<-ctx.Done()
		os.Stdin.Close()
	}()

	for {
		line, err := chatUI.ReadInput()
		if ctx.Err() != nil {
			fmt.Println("\nGraceful shutdown.")
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			chatUI.DisplayError(err)
			return err
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "help", "-help", "--help":
			ui.PrintHelp(os.Stdout, cfg.Search)
			continue
		case "/pending":
			chatUI.DisplayPending(engine.Store().List(), engine.Store().TTL(), time.Now())
			continue
		case "/context":
			chatUI.DisplayContext(injectedContext(ctx, bootstrap, cfg.Memory.Session))
			continue
		}

		in := chatinterface.ParseInput(line, terminalChannel)
		chatUI.Record(in)

		var handled bool
		if in.Stream == chatinterface.StreamAgent {
			handled = engine.HandleAgentMessage(ctx, in.Message)
		} else {
			handled = engine.HandleUserMessage(ctx, in.Message)
		}

		if !handled {
			if in.Stream == chatinterface.StreamAgent {
				chatUI.DisplayResponse("AI: " + in.Message.Content)
			} else {
				chatUI.DisplayResponse("Not a command. Type help to see available commands")
			}
		}
	}
}

// injectedContext returns the last blocks injected for the AI
func injectedContext(ctx context.Context, b *setup.Bootstrap, sessionName string) []string {
	var blocks []string
	if b.Memory != nil {
		memories, err := b.Memory.Recent(ctx, sessionName, 10)
		if err == nil {
			for _, m := range memories {
				blocks = append(blocks, m.Content)
			}
			return blocks
		}
	}
	for _, m := range b.History.ByRole(session.RoleContext) {
		blocks = append(blocks, m.Content)
	}
	return blocks
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arialabs/aria/config"
	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/models"
	"github.com/arialabs/aria/internal/notify"
	"github.com/arialabs/aria/internal/tools"
)

const version = "1.0.0"

// NewRootCmd creates the root command. The effective configuration is
// loaded through the config manager: env vars seed the file on first
// run, after that the file is the source of truth and external edits
// are picked up live during chat sessions.
func NewRootCmd() (*cobra.Command, error) {
	manager, err := config.NewManager(config.WithInitialConfig(config.DefaultConfig()))
	if err != nil {
		return nil, err
	}

	rootCmd := &cobra.Command{
		Use:   "aria",
		Short: "Aria - AI-Powered Financial Assistant",
		Long: `Aria is a conversational financial assistant. It answers questions about
stocks by combining live market data (quotes, fundamentals, ratios, news,
calendars) with an LLM-backed synthesis engine.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start interactive chat
			return runChat(manager)
		},
	}

	rootCmd.AddCommand(newChatCmd(manager))
	rootCmd.AddCommand(newAskCmd(manager))
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newConfigCmd(manager))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd, nil
}

// Execute runs the CLI.
func Execute() error {
	rootCmd, err := NewRootCmd()
	if err != nil {
		return err
	}
	return rootCmd.Execute()
}

func newChatCmd(manager *config.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation with Aria",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(manager)
		},
	}
}

func newAskCmd(manager *config.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [MESSAGE]",
		Short: "Ask Aria a single question",
		Long: `Ask Aria a single question and print the answer.
Example: aria ask "Analyse AAPL" --comprehensive --channel email --to user@example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			channel, _ := cmd.Flags().GetString("channel")
			session, _ := cmd.Flags().GetString("session")
			comprehensive, _ := cmd.Flags().GetBool("comprehensive")
			to, _ := cmd.Flags().GetString("to")

			cfg := manager.Get()
			return runAsk(&cfg, message, models.RequestContext{
				SessionID:     session,
				Channel:       channel,
				Comprehensive: comprehensive,
			}, to)
		},
	}

	cmd.Flags().String("channel", "", "Delivery channel: web, email or sms")
	cmd.Flags().String("session", "", "Conversation session id")
	cmd.Flags().Bool("comprehensive", false, "Force the full analysis tool bundle")
	cmd.Flags().String("to", "", "Deliver the answer to an email address or phone number")

	return cmd
}

func runAsk(cfg *config.Config, message string, reqCtx models.RequestContext, to string) error {
	ctx := context.Background()

	app, err := BuildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	resp := app.Orchestrator.Process(ctx, message, reqCtx)
	printResponse(resp)

	if to == "" {
		return nil
	}
	return deliver(ctx, cfg, reqCtx.Channel, to, resp.Response)
}

func deliver(ctx context.Context, cfg *config.Config, channel, to, body string) error {
	switch channel {
	case consts.ChannelSMS:
		sender, err := notify.NewSMSSender(cfg.SMSBaseURL, cfg.SMSAccountSID, cfg.SMSAuthToken, cfg.SMSFrom)
		if err != nil {
			return err
		}
		return sender.Send(ctx, to, body)
	case consts.ChannelEmail:
		sender, err := notify.NewEmailSender(cfg.MailerBaseURL, cfg.MailerAPIKey, cfg.MailerFrom)
		if err != nil {
			return err
		}
		return sender.Send(ctx, to, "Votre analyse Aria", body)
	default:
		return fmt.Errorf("channel %q cannot deliver to an external address", channel)
	}
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the configured data source tools",
		Run: func(cmd *cobra.Command, args []string) {
			catalog := tools.DefaultCatalog()
			fmt.Println(titleStyle.Render("Data source catalog"))
			for _, d := range catalog.All() {
				status := enabledStyle.Render("enabled")
				if !d.Enabled {
					status = disabledStyle.Render("disabled")
				}
				fmt.Printf("  %-22s %-28s %s\n", d.ID, d.Name, status)
			}
		},
	}
}

func newConfigCmd(manager *config.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := manager.Get()
			fmt.Println(titleStyle.Render("Effective configuration"))
			fmt.Printf("  %-18s %s\n", "config_file", manager.Path())
			fmt.Printf("  %-18s %s\n", "llm_provider", cfg.LLMProvider)
			fmt.Printf("  %-18s %s\n", "model", cfg.Model)
			fmt.Printf("  %-18s %s\n", "llm_api_key", maskSecret(cfg.LLMAPIKey))
			fmt.Printf("  %-18s %s\n", "fmp_api_key", maskSecret(cfg.FMPAPIKey))
			fmt.Printf("  %-18s %s\n", "longport_app_key", maskSecret(cfg.LongportAppKey))
			fmt.Printf("  %-18s %s\n", "mailer_api_key", maskSecret(cfg.MailerAPIKey))
			fmt.Printf("  %-18s %s\n", "sms_account_sid", maskSecret(cfg.SMSAccountSID))
			fmt.Printf("  %-18s %s\n", "default_channel", cfg.DefaultChannel)
			fmt.Printf("  %-18s %d\n", "cache_capacity", cfg.CacheCapacity)
			fmt.Printf("  %-18s %v\n", "persist_history", cfg.PersistHistory)
			fmt.Printf("  %-18s %s\n", "data_dir", cfg.DataDir)
			if err := cfg.Validate(); err != nil {
				fmt.Println(errorStyle.Render(fmt.Sprintf("⚠️  %v", err)))
			} else {
				fmt.Println(enabledStyle.Render("✓ configuration valid"))
			}
		},
	}
}

func maskSecret(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aria version %s\n", version)
		},
	}
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2"

	"github.com/arialabs/aria/config"
	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/models"
)

// InteractiveSession handles interactive chat sessions
type InteractiveSession struct {
	app     *App
	reader  *bufio.Reader
	session string

	mu      sync.Mutex
	config  config.Config
	channel string
}

// NewInteractiveSession creates a new interactive session
func NewInteractiveSession(cfg config.Config, app *App) *InteractiveSession {
	return &InteractiveSession{
		app:     app,
		reader:  bufio.NewReader(os.Stdin),
		session: "cli",
		config:  cfg,
		channel: cfg.DefaultChannel,
	}
}

func runChat(manager *config.Manager) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := manager.Get()
	app, err := BuildApp(ctx, &cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	session := NewInteractiveSession(cfg, app)
	if err := manager.Watch(ctx, session.applyConfig); err != nil {
		log.Printf("config watch unavailable, edits to %s ignored: %v", manager.Path(), err)
	}
	return session.Start()
}

// applyConfig adopts settings that do not require rebuilding the app's
// clients. Called by the config watcher on external edits; a channel
// the user picked with /channel is kept.
func (s *InteractiveSession) applyConfig(next config.Config) {
	s.mu.Lock()
	previousDefault := s.config.DefaultChannel
	s.config = next
	if s.channel == previousDefault {
		s.channel = next.DefaultChannel
	}
	s.mu.Unlock()
	fmt.Println("\n⚙️  Configuration rechargée.")
}

func (s *InteractiveSession) currentChannel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

func (s *InteractiveSession) setChannel(channel string) {
	s.mu.Lock()
	s.channel = channel
	s.mu.Unlock()
}

// Start begins the interactive session
func (s *InteractiveSession) Start() error {
	s.showWelcome()
	return s.runMainLoop()
}

func (s *InteractiveSession) showWelcome() {
	fmt.Println("╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                       💬 Aria v" + version + "                           ║")
	fmt.Println("║                AI-Powered Financial Assistant                  ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("💡 Ask anything about a stock, in French or English:")
	fmt.Println("   Analyse AAPL          - Full analysis of a ticker")
	fmt.Println("   Des news sur TSLA ?   - Latest headlines")
	fmt.Println("   et MSFT ?             - Follow-up on the previous question")
	fmt.Println()
	fmt.Println("🔧 Commands:")
	fmt.Println("   /channel            - Switch the output channel (web/email/sms)")
	fmt.Println("   /reset              - Forget the current conversation")
	fmt.Println("   /help               - Show this help")
	fmt.Println("   /exit               - Quit")
	fmt.Println()
}

// runMainLoop runs the main interactive loop
func (s *InteractiveSession) runMainLoop() error {
	ctx := context.Background()

	for {
		fmt.Print("💬 Aria> ")

		input, err := s.reader.ReadString('\n')
		if err != nil {
			fmt.Printf("❌ Error reading input: %v\n", err)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if s.handleCommand(strings.ToLower(input)) {
				return nil
			}
			fmt.Println()
			continue
		}

		resp := s.app.Orchestrator.Process(ctx, input, models.RequestContext{
			SessionID: s.session,
			Channel:   s.currentChannel(),
		})
		printResponse(resp)
		fmt.Println()
	}
}

// handleCommand processes slash commands. Returns true to exit the loop.
func (s *InteractiveSession) handleCommand(cmd string) bool {
	switch cmd {
	case "/exit", "/quit", "/q":
		fmt.Println("👋 À bientôt !")
		return true

	case "/help", "/h", "/?":
		s.showWelcome()

	case "/reset":
		s.app.Orchestrator.History().Reset(s.session)
		fmt.Println("✅ Conversation reset.")

	case "/channel":
		if channel, err := promptForChannel(s.currentChannel()); err == nil {
			s.setChannel(channel)
			fmt.Printf("✅ Channel set to %s\n", channel)
		}

	default:
		fmt.Printf("❌ Unknown command: %s. Type /help for available commands.\n", cmd)
	}
	return false
}

// promptForChannel asks the user to pick an output channel.
func promptForChannel(current string) (string, error) {
	options := []string{consts.ChannelWeb, consts.ChannelEmail, consts.ChannelSMS}

	var selected string
	prompt := &survey.Select{
		Message: "Select output channel:",
		Options: options,
		Help:    "sms answers are truncated to fit a message, email and web are full length.",
		Default: current,
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}

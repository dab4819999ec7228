package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"maitred/internal/orchestrator"
)

// chatCmd starts the interactive conversation loop.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Starts a terminal conversation with the restaurant assistant.

Type your message and press enter. Special inputs:
  quit, exit, q   end the conversation
  reset           discard gathered details and start over
  info            show the current session state`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	sid := sessionID
	if sid == "" {
		sid = a.orchestrator.Sessions().GetOrCreate("").SessionID
	}

	rl, err := readline.New("you> ")
	if err != nil {
		return fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer rl.Close()

	fmt.Printf("Welcome to %s. How can we help you today?\n", cfg.Name)
	fmt.Println("(type 'quit' to leave, 'reset' to start over)")

	for {
		line, err := rl.Readline()
		if err != nil {
			// Ctrl-C on an empty line or Ctrl-D both end the conversation.
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("Goodbye!")
				return nil
			}
			return err
		}

		message := strings.TrimSpace(line)
		if message == "" {
			continue
		}

		switch strings.ToLower(message) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return nil
		case "reset":
			a.orchestrator.Sessions().Reset(sid)
			fmt.Println("maitred> Okay, let's start fresh. What can I do for you?")
			continue
		case "info":
			printSessionInfo(a.orchestrator.SessionInfo(sid))
			continue
		}

		response := a.orchestrator.HandleTurn(ctx, sid, message)
		fmt.Printf("maitred> %s\n", response.Text)

		if ctx.Err() != nil {
			return nil
		}
	}
}

func printSessionInfo(info orchestrator.SessionInfo) {
	fmt.Printf("session:  %s\n", info.SessionID)
	fmt.Printf("status:   %s\n", info.Status)
	fmt.Printf("turns:    %d\n", info.Turns)
	if info.CustomerID != nil {
		fmt.Printf("customer: %d\n", *info.CustomerID)
	} else {
		fmt.Println("customer: (not resolved)")
	}
	if len(info.Slots) == 0 {
		fmt.Println("slots:    (none)")
		return
	}
	keys := make([]string, 0, len(info.Slots))
	for k := range info.Slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("slot %s: %s\n", k, info.Slots[k])
	}
}

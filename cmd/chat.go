package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"leadscout/internal/chat"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the assistant a question, or start an interactive session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		sess := chat.NewSession()
		out := cmd.OutOrStdout()
		if len(args) > 0 {
			ask(ctx, a.chat, sess, strings.Join(args, " "), out)
			return nil
		}

		fmt.Fprintln(out, "Type a question, \"clear\" to reset the conversation or \"exit\" to quit.")
		sc := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !sc.Scan() {
				return sc.Err()
			}
			line := strings.TrimSpace(sc.Text())
			switch strings.ToLower(line) {
			case "":
				continue
			case "exit", "quit":
				return nil
			case "clear":
				sess.Clear()
				fmt.Fprintln(out, "Conversation cleared.")
				continue
			}
			ask(ctx, a.chat, sess, line, out)
		}
	},
}

func ask(ctx context.Context, r *chat.Router, sess *chat.Session, msg string, w io.Writer) {
	// scans behind some intents can take a while
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()
	reply := r.Handle(ctx, sess, msg)
	fmt.Fprintln(w, reply.Text)
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

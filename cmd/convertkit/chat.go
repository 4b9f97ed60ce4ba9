// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/internal/assistant"
	"github.com/pdiddy/convertkit/pkg/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the help assistant about the converters",
	Long: `chat starts an interactive help session. Ask how a converter works,
for tips, or for help with a problem. Type "exit" or press Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := assistant.New(cfg.Assistant)
		if err != nil {
			return err
		}
		return chatLoop(cmd.Context(), r, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// chatLoop reads one utterance per line and answers after the assistant's
// thinking delay. The conversation context lives for the whole session.
func chatLoop(ctx context.Context, r *assistant.Responder, in io.Reader, out, status io.Writer) error {
	botColor.Fprintln(out, r.Welcome())

	var convo types.ConversationContext
	scanner := bufio.NewScanner(in)
	for {
		userPrompt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit", "bye":
			return nil
		}

		if err := pause(ctx, r.ThinkingDelay(), status); err != nil {
			return err
		}
		var reply string
		reply, convo = r.Respond(line, convo)
		botColor.Fprintln(out, strings.TrimRight(reply, "\n"))
	}
}

// pause waits for d with a spinner, or until ctx is done.
func pause(ctx context.Context, d time.Duration, w io.Writer) error {
	if d <= 0 {
		return ctx.Err()
	}
	sp := thinking(w)
	sp.Start()
	defer sp.Stop()

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

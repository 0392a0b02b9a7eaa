package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"leadscout/internal/model"
	"leadscout/internal/storage"

	"github.com/spf13/cobra"
)

var respondMark bool

// respondCmd drafts and stores outreach text for one signal.
var respondCmd = &cobra.Command{
	Use:   "respond <signal-id>",
	Short: "Draft an outreach response for a stored signal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid signal id %q", args[0])
		}
		cfg := GetConfig()
		ctx, cancel := withTimeout(2 * time.Minute)
		defer cancel()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.store.Get(ctx, sid)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("signal %d not found", sid)
		}
		if err != nil {
			return err
		}
		resp, draft, err := a.outreach.Respond(ctx, a.store, s)
		if err != nil {
			return err
		}
		if respondMark {
			if err := a.store.SetStatus(ctx, sid, model.StatusResponded); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if draft.Fallback {
			fmt.Fprintln(out, "(generated without the language model)")
		}
		fmt.Fprintf(out, "Analysis:\n%s\n\nResponse:\n%s\n\nContext:\n%s\n", draft.Analysis, draft.Response, draft.Context)
		fmt.Fprintf(out, "\nstored response #%d for signal #%d\n", resp.ID, resp.SignalID)
		return nil
	},
}

func init() {
	respondCmd.Flags().BoolVar(&respondMark, "mark", false, "mark the signal as responded")
	rootCmd.AddCommand(respondCmd)
}

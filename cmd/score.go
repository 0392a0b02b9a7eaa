package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"leadscout/internal/model"
	"leadscout/internal/opportunity"
	"leadscout/internal/storage"

	"github.com/spf13/cobra"
)

var (
	scoreAll  bool
	scoreJSON bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [signal-id]",
	Short: "Score one stored signal, or all of them with --all",
	Args: func(cmd *cobra.Command, args []string) error {
		if scoreAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := withTimeout(time.Minute)
		defer cancel()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		out := cmd.OutOrStdout()

		if scoreAll {
			signals, err := a.store.ListAll(ctx, storage.DefaultLimit)
			if err != nil {
				return err
			}
			p := a.engine.ScoreAll(ctx, signals)
			if scoreJSON {
				return writeJSON(out, p)
			}
			fmt.Fprintf(out, "scored %d signals: %d hot, %d warm\n", len(p.All), len(p.Hot), len(p.Warm))
			for _, l := range p.All {
				fmt.Fprintf(out, "%5d  #%-20d %-10s %-22s %s\n", l.LeadScore, l.ID, l.Platform, l.Persona, l.URL)
			}
			return nil
		}

		sid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid signal id %q", args[0])
		}
		s, err := a.store.Get(ctx, sid)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("signal %d not found", sid)
		}
		if err != nil {
			return err
		}
		res := a.engine.Score(ctx, s)
		tier := opportunity.Classify(res.LeadScore)
		if scoreJSON {
			return writeJSON(out, map[string]any{"signalId": s.ID, "score": res, "opportunity": tier})
		}
		printScore(out, s, res.LeadScore, res.Persona, res.Urgency, tier)
		return nil
	},
}

func printScore(w io.Writer, s model.Signal, score int, persona string, urgency model.Urgency, tier opportunity.Tier) {
	fmt.Fprintf(w, "signal #%d (%s) %s\n", s.ID, s.Platform, s.URL)
	fmt.Fprintf(w, "  score     %d\n", score)
	fmt.Fprintf(w, "  persona   %s\n", persona)
	fmt.Fprintf(w, "  urgency   %s\n", urgency)
	fmt.Fprintf(w, "  tier      %s (%s priority, %s)\n", tier.Type, tier.Priority, tier.Timeline)
	fmt.Fprintf(w, "  action    %s\n", tier.Action)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreAll, "all", false, "score every stored signal")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print JSON")
	rootCmd.AddCommand(scoreCmd)
}

package cmd

import (
	"fmt"
	"strings"
	"time"

	"leadscout/internal/model"

	"github.com/spf13/cobra"
)

var (
	signalsLimit     int
	signalsPlatform  string
	signalsPriority  string
	signalsResponses bool
)

// signalsCmd lists stored signals, newest first.
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "List stored signals",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := withTimeout(30 * time.Second)
		defer cancel()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		out := cmd.OutOrStdout()

		if signalsResponses {
			rs, err := a.store.ListResponses(ctx, signalsLimit)
			if err != nil {
				return err
			}
			for _, r := range rs {
				fmt.Fprintf(out, "#%d signal #%d %s %q\n", r.ID, r.SignalID, r.GeneratedAt.Format(time.RFC3339), r.SignalTitle)
			}
			return nil
		}

		var platform model.Platform
		if signalsPlatform != "" {
			p, ok := model.ParsePlatform(signalsPlatform)
			if !ok {
				return fmt.Errorf("unknown platform %q", signalsPlatform)
			}
			platform = p
		}
		signals, err := a.store.ListAll(ctx, 0)
		if err != nil {
			return err
		}
		n := 0
		for _, s := range signals {
			if platform != "" && s.Platform != platform {
				continue
			}
			if signalsPriority != "" && !strings.EqualFold(string(s.Priority), signalsPriority) {
				continue
			}
			fmt.Fprintf(out, "#%-20d %-10s %-8s %-10s %s\n", s.ID, s.Platform, s.Priority, s.Status, s.Title)
			n++
			if signalsLimit > 0 && n >= signalsLimit {
				break
			}
		}
		return nil
	},
}

func init() {
	signalsCmd.Flags().IntVarP(&signalsLimit, "limit", "n", 20, "maximum rows")
	signalsCmd.Flags().StringVar(&signalsPlatform, "platform", "", "filter by platform")
	signalsCmd.Flags().StringVar(&signalsPriority, "priority", "", "filter by priority (medium, high, highest)")
	signalsCmd.Flags().BoolVar(&signalsResponses, "responses", false, "list generated responses instead")
	rootCmd.AddCommand(signalsCmd)
}

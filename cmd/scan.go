package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"leadscout/internal/model"
	"leadscout/internal/scan"

	"github.com/spf13/cobra"
)

var (
	scanComprehensive bool
	scanSource        string
	scanSearch        []string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan and store new signals",
	Long: "Scans Reddit and Hacker News by default. --comprehensive adds the social sources, " +
		"--source limits the scan to one platform and --search runs keyword searches instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := withTimeout(15 * time.Minute)
		defer cancel()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		var res scan.Result
		switch {
		case len(scanSearch) > 0:
			res = a.scanner.Search(ctx, scanSearch)
		case scanSource != "":
			p, ok := model.ParsePlatform(scanSource)
			if !ok {
				return fmt.Errorf("unknown source %q", scanSource)
			}
			res = a.scanner.Source(ctx, p)
		case scanComprehensive:
			res = a.scanner.Comprehensive(ctx)
		default:
			res = a.scanner.Quick(ctx)
		}
		printScan(cmd.OutOrStdout(), res)
		return nil
	},
}

func printScan(w io.Writer, res scan.Result) {
	fmt.Fprintf(w, "%s scan finished in %s\n", res.Mode, res.Duration.Round(time.Millisecond))
	keys := make([]string, 0, len(res.PerSource))
	for k := range res.PerSource {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line := fmt.Sprintf("  %-12s %d", k, res.PerSource[k])
		if reason, ok := res.Failed[k]; ok {
			line += " (failed: " + reason + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "total %d, high priority %d, duplicates %d\n", res.Total, res.HighPriority, res.Duplicates)
	for _, s := range res.Signals {
		if s.Priority.IsHigh() {
			fmt.Fprintf(w, "  [%s] #%d %s %s\n", strings.ToUpper(string(s.Priority)), s.ID, s.Platform, s.URL)
		}
	}
}

func init() {
	scanCmd.Flags().BoolVar(&scanComprehensive, "comprehensive", false, "include the social sources")
	scanCmd.Flags().StringVar(&scanSource, "source", "", "scan a single platform (reddit, hackernews, linkedin, twitter)")
	scanCmd.Flags().StringSliceVar(&scanSearch, "search", nil, "keyword search terms (comma separated)")
	rootCmd.AddCommand(scanCmd)
}

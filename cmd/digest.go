package cmd

import (
	"fmt"
	"time"

	"leadscout/internal/digest"

	"github.com/spf13/cobra"
)

var digestForce bool

// digestCmd writes today's lead digest, skipping it when already written.
var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Write the markdown lead digest for today",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := withTimeout(2 * time.Minute)
		defer cancel()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		b := &digest.Builder{
			Store:     a.store,
			Engine:    a.engine,
			OutputDir: cfg.Digest.OutputDir,
			Title:     cfg.Digest.Title,
			TopN:      cfg.Digest.TopN,
			Logger:    a.logger,
		}
		res, err := b.Build(ctx, digestForce)
		if err != nil {
			return err
		}
		if !res.Written {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already written, use --force to rebuild\n", res.Path)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d hot, %d warm)\n", res.Path, res.Hot, res.Warm)
		return nil
	},
}

func init() {
	digestCmd.Flags().BoolVarP(&digestForce, "force", "f", false, "rewrite even if today's digest exists")
	rootCmd.AddCommand(digestCmd)
}

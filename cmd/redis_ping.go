package cmd

import (
	"context"
	"fmt"
	"time"

	"leadscout/internal/redisclient"

	"github.com/spf13/cobra"
)

// pingCmd checks the Redis server used for storage, dedup and score memos.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		res, err := redisclient.Check(context.Background(), rdb, 2*time.Second)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd)
}

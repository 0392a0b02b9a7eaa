package cmd

import "github.com/spf13/cobra"

// redisCmd groups commands against the configured Redis server.
var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis utilities",
}

func init() {
	rootCmd.AddCommand(redisCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"leadscout/internal/config"
	"leadscout/internal/id"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	appCfg  config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "leadscout",
	Short: "LeadScout CLI",
	Long:  "Collects AI hardware discussions from public platforms and scores them as sales leads.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

// secretEnv maps config keys to the plain variable names operators already use.
var secretEnv = map[string]string{
	"sources.linkedin.access_token": "LINKEDIN_ACCESS_TOKEN",
	"sources.twitter.bearer_token":  "TWITTER_BEARER_TOKEN",
	"openai.api_key":                "OPENAI_API_KEY",
	"storage.postgres_dsn":          "DATABASE_URL",
	"rabbitmq.url":                  "RABBITMQ_URL",
}

func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/leadscout")
		v.AddConfigPath("configs")
	}

	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range secretEnv {
		_ = v.BindEnv(key, "LEADSCOUT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()

	setupLogger(appCfg.App)
	if err := id.Init(appCfg.App.NodeID); err != nil {
		fmt.Fprintf(os.Stderr, "error initializing id node: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}

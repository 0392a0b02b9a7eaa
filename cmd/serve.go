package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"leadscout/internal/api"
	"leadscout/internal/config"
	"leadscout/internal/digest"
	"leadscout/worker"

	"github.com/spf13/cobra"
)

var (
	serveNoAPI     bool
	serveSkipFirst bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and scheduled scans",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		interval, err := config.Duration("scan.interval", cfg.Scan.Interval)
		if err != nil {
			return err
		}
		hour, minute, err := config.ClockTime("scan.daily_at", cfg.Scan.DailyAt)
		if err != nil {
			return err
		}

		ws := []worker.Worker{
			&worker.ScanWorker{Scanner: a.scanner, Interval: interval, SkipInitial: serveSkipFirst, Logger: a.logger},
			&worker.DailyScanWorker{Scanner: a.scanner, Hour: hour, Minute: minute, Logger: a.logger},
			&worker.DigestBuilder{
				Builder: &digest.Builder{
					Store:     a.store,
					Engine:    a.engine,
					OutputDir: cfg.Digest.OutputDir,
					Title:     cfg.Digest.Title,
					TopN:      cfg.Digest.TopN,
					Logger:    a.logger,
				},
				Logger: a.logger,
			},
		}
		if !serveNoAPI {
			ws = append(ws, &worker.HTTPServer{
				Addr: cfg.HTTP.Addr,
				Handler: api.NewRouter(api.Deps{
					Store:    a.store,
					Scanner:  a.scanner,
					Engine:   a.engine,
					Outreach: a.outreach,
					Chatbot:  a.chat,
					Logger:   a.logger,
				}),
			})
		}

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			select {
			case s := <-sigc:
				a.logger.Info("serve: received signal, shutting down", "signal", s.String())
				cancel()
			case <-ctx.Done():
			}
		}()

		return worker.NewManager(a.logger, ws...).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoAPI, "no-api", false, "run scheduled scans only")
	serveCmd.Flags().BoolVar(&serveSkipFirst, "skip-initial-scan", false, "wait one interval before the first scan")
	rootCmd.AddCommand(serveCmd)
}

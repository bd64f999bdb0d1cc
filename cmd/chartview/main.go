package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/raykavin/chartview/internal/config"
	"github.com/raykavin/chartview/pkg/chart"
	"github.com/raykavin/chartview/pkg/dataopt"
	"github.com/raykavin/chartview/pkg/feed"
	"github.com/raykavin/chartview/pkg/logger"
	"github.com/raykavin/chartview/pkg/logger/zerolog"
	"github.com/raykavin/chartview/pkg/metric"
	"github.com/raykavin/chartview/pkg/notification"
	"github.com/raykavin/chartview/pkg/storage"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	taskID    string
	pair      string
	timeframe string

	// Download command flags
	outputFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "chartview",
		Short:   "Interactive charting for backtest results",
		Version: "1.0.0",
	}

	rootCmd.AddCommand(buildServeCmd(), buildDownloadCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive chart for a backtest task",
		RunE:  runServe,
	}

	addTaskFlags(serveCmd)

	return serveCmd
}

func buildDownloadCmd() *cobra.Command {
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download a task's candle series to CSV",
		RunE:  runDownload,
	}

	addTaskFlags(downloadCmd)
	downloadCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (e.g. ./btc.csv)")
	downloadCmd.MarkFlagRequired("output")

	return downloadCmd
}

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&taskID, "task", "k", "", "Backtest task id")
	cmd.Flags().StringVarP(&pair, "pair", "p", "", "Trading pair (e.g. BTCUSDT)")
	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "", "Timeframe (e.g. 1h)")
	cmd.MarkFlagRequired("task")
	cmd.MarkFlagRequired("pair")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := zerolog.New(cfg.LogLevel, time.RFC3339, true, false)
	if err != nil {
		return err
	}

	if timeframe == "" {
		timeframe = cfg.Timeframe
	}

	client := feed.NewClient(cfg.APIBaseURL, log)

	cache, err := dataopt.NewCache(cfg.Cache.Size)
	if err != nil {
		return err
	}
	defer cache.Close()

	theme, err := chart.ParseTheme(cfg.Theme)
	if err != nil {
		return err
	}

	options := []chart.Option{
		chart.WithPort(cfg.Port),
		chart.WithTheme(theme),
		chart.WithCache(cache, cfg.Cache.TTL),
		chart.WithAutoResize(),
	}
	if cfg.Debug {
		options = append(options, chart.WithDebug())
	}

	if store := buildStore(cfg, log); store != nil {
		defer store.Close()
		options = append(options, chart.WithDrawingStore(store))
	}

	if cfg.Telegram.Enabled {
		notifier, err := notification.NewTelegram(cfg.Telegram.Token, cfg.Telegram.UserID, log)
		if err != nil {
			return err
		}
		options = append(options, chart.WithNotifier(notifier))
	}

	c, err := chart.NewChart(log, client, options...)
	if err != nil {
		return err
	}

	if err := c.Load(context.Background(), taskID, pair, timeframe); err != nil {
		return err
	}

	printSummary(c)

	return chart.NewChartServer(c, chart.NewStandardHTTPServer(), log).Start()
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := zerolog.New(cfg.LogLevel, time.RFC3339, true, false)
	if err != nil {
		return err
	}

	if timeframe == "" {
		timeframe = cfg.Timeframe
	}

	client := feed.NewClient(cfg.APIBaseURL, log)
	return feed.NewDownloader(client).Download(cmd.Context(), taskID, pair, timeframe, outputFile)
}

func buildStore(cfg *config.AppConfig, log logger.Logger) storage.DrawingStore {
	switch cfg.Storage.Driver {
	case "buntdb":
		store, err := storage.FromFile(cfg.Storage.Path)
		if err != nil {
			log.WithError(err).Warn("drawing persistence disabled")
			return nil
		}
		return store
	case "memory":
		store, err := storage.FromMemory()
		if err != nil {
			log.WithError(err).Warn("drawing persistence disabled")
			return nil
		}
		return store
	default:
		if cfg.Storage.Driver != "" {
			log.Warnf("unknown storage driver %q, drawing persistence disabled", cfg.Storage.Driver)
		}
		return nil
	}
}

// printSummary prints the metrics table and a histogram of per-trade
// returns after the initial load.
func printSummary(c *chart.Chart) {
	view := c.View()

	if n := len(view.Candles); n > 0 {
		fmt.Printf("Period: %s to %s\n",
			view.Candles[0].GetTime().Format(time.DateOnly),
			view.Candles[n-1].GetTime().Format(time.DateOnly))
	}

	fmt.Println(view.Metrics)

	returns := metric.Returns(view.Metrics.EquityCurve)
	if len(returns) == 0 {
		return
	}

	percents := make([]float64, len(returns))
	for i, r := range returns {
		percents[i] = r * 100
	}

	fmt.Println("------ RETURNS DISTRIBUTION (%) ------")
	hist := histogram.Hist(15, percents)
	if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(10)); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	fmt.Println()
}

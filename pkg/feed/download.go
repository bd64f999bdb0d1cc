package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/raykavin/chartview/pkg/core"
	"github.com/schollz/progressbar/v3"
	str2duration "github.com/xhit/go-str2duration/v2"
)

var csvHeaders = []string{"time", "open", "close", "low", "high", "volume"}

// Downloader exports the candle series of a task to a CSV file, for
// offline inspection or re-import into other tooling.
type Downloader struct {
	client *Client
}

// NewDownloader creates a downloader on top of a results API client.
func NewDownloader(client *Client) Downloader {
	return Downloader{client: client}
}

// Download fetches all candles for (taskID, pair, timeframe) and
// writes them to outputPath with a progress bar on stderr.
func (d Downloader) Download(ctx context.Context, taskID, pair, timeframe, outputPath string) error {
	// Reject malformed timeframes before hitting the API.
	if _, err := str2duration.ParseDuration(timeframe); err != nil {
		return fmt.Errorf("invalid timeframe %q: %w", timeframe, err)
	}

	candles, err := d.client.Candles(ctx, taskID, pair, timeframe)
	if err != nil {
		return err
	}
	if len(candles) == 0 {
		return core.ErrEmptySeries
	}

	recordFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer recordFile.Close()

	writer := csv.NewWriter(recordFile)
	if err := writer.Write(csvHeaders); err != nil {
		return err
	}

	progressBar := progressbar.Default(int64(len(candles)))
	for _, candle := range candles {
		if err := writer.Write(candle.ToSlice(8)); err != nil {
			return err
		}
		if err := progressBar.Add(1); err != nil {
			break
		}
	}

	writer.Flush()
	return writer.Error()
}

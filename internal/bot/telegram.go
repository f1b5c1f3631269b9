package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	downloadTimeout = 30 * time.Second
	// maxDownloadSize caps submitted media at 20MB, which is also the
	// Telegram bot API download limit.
	maxDownloadSize = 20 * 1024 * 1024
)

// httpClient is reused for file downloads to avoid creating new clients per request
var httpClient = resty.New().SetTimeout(downloadTimeout)

// downloadFileID resolves a Telegram file ID to a direct URL and downloads
// its contents.
func downloadFileID(
	ctx context.Context,
	getFileDirectURL func(fileID string) (string, error),
	fileID string,
) ([]byte, error) {
	log.Debug().Str("fileID", fileID).Msg("downloading telegram file")

	url, err := getFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file URL: %w", err)
	}

	res, err := httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("download failed: status %d", res.StatusCode())
	}

	body := res.Body()
	if int64(len(body)) > maxDownloadSize {
		return nil, fmt.Errorf("file too large: %d bytes exceeds limit of %d bytes", len(body), maxDownloadSize)
	}
	return body, nil
}

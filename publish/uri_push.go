package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dot5enko/segment-exec/segment"
	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoHosts        = fmt.Errorf("no hosts to push to")
	ErrNotAnArtifact  = fmt.Errorf("path does not point to a segment artifact")
	ErrAllHostsFailed = fmt.Errorf("segment uri push failed on every host")
)

type PushConfig struct {
	Hosts []string
	Port  int

	URIPrefix string
	URISuffix string

	// attempts per host, zero means one try
	Retries int

	Client *http.Client
}

// PushSegmentURI announces the download uri of one segment artifact to
// every configured host. Hosts are pushed in parallel and independently:
// a host that keeps failing after its retries is logged and skipped, the
// push only fails as a whole when no host accepted it.
func PushSegmentURI(ctx context.Context, cfg PushConfig, artifactPath string) error {

	if len(cfg.Hosts) == 0 {
		return ErrNoHosts
	}

	if !strings.HasSuffix(artifactPath, segment.ArtifactSuffix) {
		return fmt.Errorf("`%v`: %w", artifactPath, ErrNotAnArtifact)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	downloadUri := fmt.Sprintf("%s%s%s", cfg.URIPrefix, artifactPath, cfg.URISuffix)
	fileName := filepath.Base(artifactPath)

	var failed atomic.Int32

	group := errgroup.Group{}

	for _, host := range cfg.Hosts {
		group.Go(func() error {

			pushUrl := fmt.Sprintf("http://%s:%d/segments", host, cfg.Port)

			slog.Info("uploading segment uri",
				"file", fileName,
				"host", host,
				"port", cfg.Port,
				"uri", downloadUri)

			pushErr := pushOneHost(ctx, client, pushUrl, downloadUri, cfg.Retries)
			if pushErr != nil {
				color.Red("error uploading segment uri %s to host %s: %s", downloadUri, host, pushErr.Error())
				failed.Add(1)
			}

			// a single broken host must not stop the remaining ones
			return nil
		})
	}

	group.Wait()

	if int(failed.Load()) == len(cfg.Hosts) {
		return ErrAllHostsFailed
	}

	return nil
}

func pushOneHost(ctx context.Context, client *http.Client, pushUrl, downloadUri string, retries int) error {

	attempts := retries + 1

	var lastErr error

	for attempt := range attempts {

		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second * time.Duration(attempt)):
			}
		}

		lastErr = pushOnce(ctx, client, pushUrl, downloadUri)
		if lastErr == nil {
			return nil
		}
	}

	return lastErr
}

func pushOnce(ctx context.Context, client *http.Client, pushUrl, downloadUri string) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pushUrl, strings.NewReader(downloadUri))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push rejected with status %d : %s", resp.StatusCode, string(body))
	}

	slog.Info("segment uri push response", "status", resp.StatusCode, "response", string(body))

	return nil
}

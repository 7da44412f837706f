package csvdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	fetchAttempts  = 3
	initialBackoff = 250 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// errPermanent marks fetch failures that retrying cannot fix.
var errPermanent = errors.New("permanent fetch failure")

// open returns a reader for location, which is either an http(s) URL or a
// local file path. Transient HTTP failures are retried with backoff.
func open(ctx context.Context, client *http.Client, location string) (io.ReadCloser, error) {
	if !isRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", location, err)
		}
		return f, nil
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		body, err := get(ctx, client, location)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if errors.Is(err, errPermanent) || attempt == fetchAttempts {
			break
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return nil, ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return nil, fmt.Errorf("fetch %s: %w", location, lastErr)
}

func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", errPermanent, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %v", errPermanent, err)
		}
		return nil, err
	}
	return resp.Body, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

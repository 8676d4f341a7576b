// Package fetch downloads cover art and songs to attach to a level.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/levigross/grequests"
)

var ErrStatus = errors.New("unexpected response status")

const timeout = 30 * time.Second

// Download returns the body of url. Non-2xx responses are an ErrStatus.
func Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := grequests.Get(url, &grequests.RequestOptions{
		Context:        ctx,
		UserAgent:      "ssedit",
		RequestTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, fmt.Errorf("%w: %s returned %d", ErrStatus, url, resp.StatusCode)
	}
	return resp.Bytes(), nil
}

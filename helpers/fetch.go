package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"go.vocdoni.io/dvote/log"
	"golang.org/x/time/rate"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 16 << 20

type badCodeError int

func (e badCodeError) Error() string {
	return fmt.Sprintf("unexpected status code %d", int(e))
}

// Fetcher performs JSON requests against one external collaborator and maps
// failures onto the sdkerr taxonomy.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	source  sdkerr.Source
}

// NewFetcher creates a Fetcher. A nil client uses http.DefaultClient and a nil
// limiter disables rate limiting.
func NewFetcher(client *http.Client, limiter *rate.Limiter, source sdkerr.Source) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, limiter: limiter, source: source}
}

// Source returns the collaborator this fetcher talks to.
func (f *Fetcher) Source() sdkerr.Source {
	return f.source
}

// GetJSON sends a GET request and decodes the JSON response into out.
func (f *Fetcher) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return f.do(req, out)
}

// PostJSON marshals body, sends it as a POST request and decodes the JSON response into out.
func (f *Fetcher) PostJSON(ctx context.Context, url string, body, out any) error {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return f.do(req, out)
}

func (f *Fetcher) do(req *http.Request, out any) error {
	if f.limiter != nil {
		if err := f.limiter.Wait(req.Context()); err != nil {
			return sdkerr.Unavailable(f.source, err)
		}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return sdkerr.Unavailable(f.source, err)
	}
	defer resp.Body.Close()
	log.Debugw("fetched", "source", f.source, "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return sdkerr.NotFound(f.source, req.URL.Path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return sdkerr.Unavailable(f.source, badCodeError(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return sdkerr.Unavailable(f.source, err)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return sdkerr.Malformed(f.source, "body", err)
	}
	return nil
}

package wanikani

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"go.uber.org/zap"
)

// pageEnvelope is the collection envelope shared by every paginated
// endpoint: records under data, continuation cursor under pages.next_url.
type pageEnvelope struct {
	Data  []json.RawMessage `json:"data"`
	Pages struct {
		NextURL *string `json:"next_url"`
	} `json:"pages"`
}

// Pager walks a paginated collection lazily, one GET per page, yielding
// records in server order within a page and page order across pages. It is
// single-pass and non-restartable: walking the collection again means
// constructing a new Pager, which reissues the calls.
//
// Each page response is fully read and closed before Next returns, so
// abandoning the walk mid-collection holds no network resource.
type Pager struct {
	client *Client
	next   string // URL of the next page; empty once exhausted
	buf    []json.RawMessage
	idx    int
	err    error
}

// pager starts a walk at url. The first request is deferred until the
// first Next call.
func (c *Client) pager(url string) *Pager {
	return &Pager{client: c, next: url}
}

// Next advances to the next record, fetching the next page on demand. It
// returns false at the end of the collection or on error; check Err.
func (p *Pager) Next(ctx context.Context) bool {
	if p.err != nil {
		return false
	}
	for p.idx >= len(p.buf) {
		if p.next == "" {
			return false
		}
		if err := p.fetchPage(ctx); err != nil {
			p.err = err
			return false
		}
	}
	p.idx++
	return true
}

// Record returns the record produced by the last successful Next.
func (p *Pager) Record() json.RawMessage {
	return p.buf[p.idx-1]
}

// Err returns the error that terminated the walk, if any.
func (p *Pager) Err() error {
	return p.err
}

func (p *Pager) fetchPage(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.next, nil)
	if err != nil {
		return fmt.Errorf("wanikani: failed to create request: %w", err)
	}
	p.client.authorize(req)

	resp, err := p.client.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("wanikani: request cancelled: %w", ctx.Err())
		}
		// Timeouts, refused connections and DNS failures all mean the
		// endpoint is unreachable right now.
		var ne net.Error
		if errors.As(err, &ne) || errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %v", ErrEndpointDown, err)
		}
		return fmt.Errorf("wanikani: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrEndpointDown, resp.StatusCode, body)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, URL: p.next, Body: string(body)}
	}

	var env pageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("wanikani: failed to parse page: %w", err)
	}

	p.client.logger.Debug("fetched page",
		zap.String("url", p.next),
		zap.Int("records", len(env.Data)),
		zap.Bool("last", env.Pages.NextURL == nil))

	p.buf = env.Data
	p.idx = 0
	if env.Pages.NextURL != nil {
		p.next = *env.Pages.NextURL
	} else {
		p.next = ""
	}
	return nil
}

package fetch

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/clearbuy/clearbuy-cli/internal/config"
)

// HTTPFetcher fetches pages via net/http with block detection.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPFetcher creates an HTTPFetcher from config.
func NewHTTPFetcher(cfg config.FetchConfig) *HTTPFetcher {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 512 * 1024
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: cfg.UserAgent,
		maxBody:   maxBody,
	}
}

// Fetch retrieves a URL and classifies failures into the fetch error
// taxonomy. A blocked page is reported as KindBlocked even when the
// transport succeeded.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: eris.Wrap(err, "create request")}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: classifyTransportErr(err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: eris.Wrap(err, "read body")}
	}

	if blocked, blockType := DetectBlock(resp, body); blocked {
		return nil, &Error{Kind: KindBlocked, Err: eris.Errorf("blocked (%s)", blockType)}
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{Kind: KindNetwork, Err: eris.Errorf("status %d", resp.StatusCode)}
	}

	domain := ""
	if resp.Request != nil && resp.Request.URL != nil {
		domain = resp.Request.URL.Hostname()
	}

	return &Page{
		Markup:      string(body),
		FinalDomain: domain,
		StatusCode:  resp.StatusCode,
	}, nil
}

func classifyTransportErr(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/jask/holocron/internal/logging"
)

// Source is a paged read-only listing. Pages are 1-based.
type Source interface {
	FetchPage(ctx context.Context, page int) (Page, error)
}

const maxBodyBytes = 4 << 20

// Options configures Client.
type Options struct {
	BaseURL      string
	Resource     string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	UserAgent    string
}

// Client reads pages from a SWAPI-style listing endpoint.
type Client struct {
	endpoint  *url.URL
	userAgent string
	http      *retryablehttp.Client
	log       zerolog.Logger
}

func NewClient(opts Options, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("catalog: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("catalog: base url %q needs a scheme and host", opts.BaseURL)
	}
	resource := strings.Trim(strings.TrimSpace(opts.Resource), "/")
	if resource == "" {
		return nil, errors.New("catalog: resource is empty")
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	// hand the last response back so non-2xx pages surface as StatusError
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = logging.Leveled(log)

	return &Client{
		endpoint:  base.JoinPath(resource + "/"),
		userAgent: opts.UserAgent,
		http:      rc,
		log:       log,
	}, nil
}

// PageURL returns the listing URL for page.
func (c *Client) PageURL(page int) string {
	u := *c.endpoint
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

type pageBody struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  *[]Item `json:"results"`
}

// FetchPage issues one GET for page and decodes its results.
func (c *Client) FetchPage(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		return Page{}, fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}
	reqID := uuid.NewString()
	log := c.log.With().Str("request_id", reqID).Int("page", page).Logger()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(page), nil)
	if err != nil {
		return Page{}, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	log.Debug().Str("url", req.URL.String()).Msg("fetching page")
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("page request failed")
		return Page{}, fmt.Errorf("%w: page %d: %w", ErrTransport, page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		log.Warn().Int("status", resp.StatusCode).Msg("page request rejected")
		return Page{}, &StatusError{Page: page, Code: resp.StatusCode}
	}

	var body pageBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		log.Error().Err(err).Msg("page body undecodable")
		return Page{}, fmt.Errorf("%w: page %d: %w", ErrMalformed, page, err)
	}
	if body.Results == nil {
		log.Error().Msg("page body has no results")
		return Page{}, fmt.Errorf("%w: page %d: missing results", ErrMalformed, page)
	}

	out := Page{
		Number: page,
		Count:  body.Count,
		Items:  *body.Results,
	}
	if body.Next != nil {
		out.Next = *body.Next
	}
	if body.Previous != nil {
		out.Previous = *body.Previous
	}
	log.Info().Int("items", len(out.Items)).Dur("took", time.Since(start)).Msg("page fetched")
	return out, nil
}

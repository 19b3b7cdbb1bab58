// Package remote is the HTTP side of synchronization: it moves one entity
// type's operations to the sync server and back, and answers the network and
// auth gates checked before a round.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/conorfennell/wordsync/internal/domain"
)

var (
	// ErrUnauthorized is returned when the server rejects the token.
	ErrUnauthorized = errors.New("remote: unauthorized")
	// ErrNotFound is returned when the sync endpoint does not exist.
	ErrNotFound = errors.New("remote: endpoint not found")
)

const (
	vocabularyPath = "/sync/vocabulary"
	reviewsPath    = "/sync/reviews"
	statsPath      = "/sync/stats"
)

type Config struct {
	BaseURL      string
	Token        string
	Timeout      time.Duration
	ProbeTimeout time.Duration
}

// Client talks to the sync server.
type Client struct {
	config Config
	http   *resty.Client
}

func New(config Config) *Client {
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = 3 * time.Second
	}
	rc := resty.New().
		SetBaseURL(config.BaseURL).
		SetHeader("Accept", "application/json")
	if config.Timeout > 0 {
		rc.SetTimeout(config.Timeout)
	}
	if config.Token != "" {
		rc.SetAuthToken(config.Token)
	}
	return &Client{config: config, http: rc}
}

type operationsResponse[T any] struct {
	Operations []domain.Operation[T] `json:"operations"`
}

type statsResponse struct {
	Stats []domain.DailyStat `json:"stats"`
}

func (c *Client) ReconcileVocabulary(ctx context.Context, req domain.UploadRequest[domain.VocabularyItem]) ([]domain.Operation[domain.VocabularyItem], error) {
	var out operationsResponse[domain.VocabularyItem]
	if err := c.post(ctx, vocabularyPath, req, &out); err != nil {
		return nil, err
	}
	return out.Operations, nil
}

func (c *Client) ReconcileReviews(ctx context.Context, req domain.UploadRequest[domain.ReviewRecord]) ([]domain.Operation[domain.ReviewRecord], error) {
	var out operationsResponse[domain.ReviewRecord]
	if err := c.post(ctx, reviewsPath, req, &out); err != nil {
		return nil, err
	}
	return out.Operations, nil
}

func (c *Client) ReconcileStats(ctx context.Context, req domain.UploadRequest[domain.DailyStat]) ([]domain.DailyStat, error) {
	var out statsResponse
	if err := c.post(ctx, statsPath, req, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post(path)
	if err != nil {
		return fmt.Errorf("POST %s > %w", path, err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("POST %s > %w", path, ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("POST %s > %w", path, ErrNotFound)
	default:
		return fmt.Errorf("POST %s > status code: %d, body: %s", path, res.StatusCode(), string(res.Body()))
	}
}

// Authenticated reports whether a session token is configured.
func (c *Client) Authenticated(context.Context) bool {
	return c.config.Token != ""
}

// Online reports whether the sync server accepts TCP connections.
func (c *Client) Online(ctx context.Context) bool {
	addr, err := dialAddress(c.config.BaseURL)
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.ProbeTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func dialAddress(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("no host in %q", baseURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

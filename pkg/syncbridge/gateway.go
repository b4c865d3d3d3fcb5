// Package syncbridge mirrors the inventory to a remote sheet endpoint.
// The local cache is authoritative; every remote interaction is best
// effort and a failure never propagates past a log line and a counter.
package syncbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avmartell/stockroom-backend/pkg/enums"
	pkgerrors "github.com/avmartell/stockroom-backend/pkg/errors"
	"github.com/avmartell/stockroom-backend/pkg/metrics"
	"github.com/avmartell/stockroom-backend/pkg/models"
)

const responseBodyReadLimit int64 = 1024

// Gateway talks to the remote sheet endpoint. Loads go out as GETs with
// an action query parameter, saves as POSTs carrying an action envelope;
// save responses are not inspected beyond the status code.
type Gateway struct {
	httpClient *http.Client
	endpoint   string
	metrics    *metrics.SyncMetrics
}

// Option configures optional gateway behavior.
type Option func(*Gateway)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		if timeout > 0 {
			g.httpClient.Timeout = timeout
		}
	}
}

// WithMetrics attaches sync instrumentation.
func WithMetrics(m *metrics.SyncMetrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// NewGateway builds a gateway for the given endpoint URL.
func NewGateway(endpoint string, opts ...Option) (*Gateway, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("sync endpoint is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid sync endpoint: %w", err)
	}

	gateway := &Gateway{
		endpoint:   trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(gateway)
		}
	}
	return gateway, nil
}

// PullItems fetches the remote item collection. ok is false when the
// endpoint answered without a usable item array; err covers transport
// and HTTP failures.
func (g *Gateway) PullItems(ctx context.Context) (items []models.Item, ok bool, err error) {
	var payload struct {
		Items json.RawMessage `json:"items"`
	}
	if err := g.load(ctx, enums.SyncActionLoadItems, &payload); err != nil {
		return nil, false, err
	}
	items, ok = models.DecodeItems(payload.Items)
	return items, ok, nil
}

// PullGroups fetches the remote group collection, with the same
// contract as PullItems.
func (g *Gateway) PullGroups(ctx context.Context) (groups []models.Group, ok bool, err error) {
	var payload struct {
		Groups json.RawMessage `json:"groups"`
	}
	if err := g.load(ctx, enums.SyncActionLoadGroups, &payload); err != nil {
		return nil, false, err
	}
	groups, ok = models.DecodeGroups(payload.Groups)
	return groups, ok, nil
}

// PushItems uploads the full item collection.
func (g *Gateway) PushItems(ctx context.Context, items []models.Item) error {
	return g.save(ctx, enums.SyncActionSaveItems, map[string]any{"items": items})
}

// PushGroups uploads the full group collection.
func (g *Gateway) PushGroups(ctx context.Context, groups []models.Group) error {
	return g.save(ctx, enums.SyncActionSaveGroups, map[string]any{"groups": groups})
}

func (g *Gateway) load(ctx context.Context, action enums.SyncAction, out any) error {
	err := g.instrumented(action, func() error {
		target, err := url.Parse(g.endpoint)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse sync endpoint")
		}
		query := target.Query()
		query.Set("action", action.String())
		target.RawQuery = query.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build sync load request")
		}

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute sync load request")
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
			return pkgerrors.Wrap(pkgerrors.CodeDependency,
				fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
				"sync load request failed")
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode sync load response")
		}
		return nil
	})
	return err
}

func (g *Gateway) save(ctx context.Context, action enums.SyncAction, payload any) error {
	return g.instrumented(action, func() error {
		body, err := json.Marshal(map[string]any{
			"action":  action.String(),
			"payload": payload,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal sync save payload")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build sync save request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute sync save request")
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
			return pkgerrors.Wrap(pkgerrors.CodeDependency,
				fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
				"sync save request failed")
		}
		return nil
	})
}

func (g *Gateway) instrumented(action enums.SyncAction, fn func() error) error {
	start := time.Now()
	err := fn()
	if g.metrics != nil {
		g.metrics.ObserveDuration(action.String(), time.Since(start))
		if err != nil {
			g.metrics.IncFailure(action.String())
		} else {
			g.metrics.IncSuccess(action.String())
		}
	}
	return err
}

// Package sheets talks to the spreadsheet web-app endpoint that holds the
// authoritative transaction list.
//
// The endpoint answers GET with a JSON array of rows and accepts POSTed
// {action, payload} envelopes. Writes are fire-and-forget: the client only
// knows whether a request left the process, never whether the sheet stored it.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/syncerror"

	"github.com/google/uuid"
)

// Remote write actions understood by the endpoint.
const (
	ActionSave    = "save"
	ActionDelete  = "delete"
	ActionSyncAll = "syncAll"
)

const (
	maxResponseBytes = 10 << 20
	snippetLength    = 120
)

// Outcome is the result of a fire-and-forget write.
type Outcome int

const (
	// Dispatched means the request was sent without a transport error. It is
	// not proof that the remote sheet persisted the change.
	Dispatched Outcome = iota + 1
	// TransportFailed means the request never completed at the transport level.
	TransportFailed
)

func (o Outcome) String() string {
	switch o {
	case Dispatched:
		return "dispatched"
	case TransportFailed:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Dispatch reports how a write request ended. Err is set only for TransportFailed.
type Dispatch struct {
	Outcome Outcome
	Err     error
}

// OK reports whether the request was dispatched.
func (d Dispatch) OK() bool {
	return d.Outcome == Dispatched
}

func failed(err error) Dispatch {
	return Dispatch{Outcome: TransportFailed, Err: err}
}

type envelope struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

type idPayload struct {
	ID string `json:"id"`
}

// Client is the remote sync client.
type Client struct {
	url        string
	httpClient *http.Client
	logger     logging.Logger
	normalizer *normalizer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithIDGenerator sets the generator used for rows that arrive without an id.
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) { c.normalizer.newID = fn }
}

// WithClock sets the clock used to date rows that arrive without a date.
func WithClock(fn func() time.Time) Option {
	return func(c *Client) { c.normalizer.now = fn }
}

// NewClient creates a client for url. An empty url yields a client whose every
// call fails with syncerror.ErrRemoteNotConfigured.
func NewClient(url string, timeout time.Duration, logger logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	logger = logger.WithField(logging.FieldComponent, "sheets")
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		normalizer: &normalizer{
			newID:  uuid.NewString,
			now:    time.Now,
			logger: logger,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an endpoint URL is set.
func (c *Client) Configured() bool {
	return c.url != ""
}

// FetchAll reads and normalizes the full remote list. A non-2xx status or a
// body that is not a JSON array fails the whole fetch; individual rows are
// coerced rather than rejected.
func (c *Client) FetchAll(ctx context.Context) ([]models.Transaction, error) {
	if !c.Configured() {
		return nil, syncerror.ErrRemoteNotConfigured
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &syncerror.TransportError{Op: "fetch", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &syncerror.TransportError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &syncerror.StatusError{Op: "fetch", StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &syncerror.TransportError{Op: "fetch", Err: err}
	}

	records, err := c.decodeRows(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched remote transactions",
		logging.F(logging.FieldCount, len(records)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return records, nil
}

func (c *Client) decodeRows(body []byte) ([]models.Transaction, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, &syncerror.PayloadError{
			Reason:  fmt.Sprintf("invalid JSON: %v", err),
			Snippet: syncerror.Snippet(body, snippetLength),
		}
	}

	rows, ok := raw.([]interface{})
	if !ok {
		return nil, &syncerror.PayloadError{
			Reason:  "expected a JSON array",
			Snippet: syncerror.Snippet(body, snippetLength),
		}
	}

	records := make([]models.Transaction, 0, len(rows))
	for i, r := range rows {
		row, ok := r.(map[string]interface{})
		if !ok {
			c.logger.Debug("Skipping non-object row", logging.F("index", i))
			continue
		}
		records = append(records, c.normalizer.normalize(row))
	}
	return records, nil
}

// SaveOne pushes a single create-or-update.
func (c *Client) SaveOne(ctx context.Context, record models.Transaction) Dispatch {
	return c.post(ctx, ActionSave, record)
}

// DeleteOne pushes a delete by id.
func (c *Client) DeleteOne(ctx context.Context, id string) Dispatch {
	return c.post(ctx, ActionDelete, idPayload{ID: id})
}

// SyncAll replaces the whole remote list with records.
func (c *Client) SyncAll(ctx context.Context, records []models.Transaction) Dispatch {
	return c.post(ctx, ActionSyncAll, models.CloneTransactions(records))
}

// post sends the envelope as text/plain, the content type the endpoint accepts
// without a CORS preflight. The response is drained but not interpreted.
func (c *Client) post(ctx context.Context, action string, payload interface{}) Dispatch {
	logger := c.logger.WithField(logging.FieldAction, action)
	if !c.Configured() {
		return failed(syncerror.ErrRemoteNotConfigured)
	}

	body, err := json.Marshal(envelope{Action: action, Payload: payload})
	if err != nil {
		return failed(fmt.Errorf("failed to encode %s payload: %w", action, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return failed(&syncerror.TransportError{Op: action, Err: err})
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Warn("Remote write failed")
		return failed(&syncerror.TransportError{Op: action, Err: err})
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()

	logger.Debug("Remote write dispatched", logging.F(logging.FieldStatus, resp.StatusCode))
	return Dispatch{Outcome: Dispatched}
}

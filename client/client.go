// Package client is the typed HTTP client for the gateway's ledger API,
// consumed by the operator watcher and by task requesters.
package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/carbonx-fi/avs/ledger"
)

type Client struct {
	base string
	http *http.Client
}

func New(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type infoResponse struct {
	LedgerID string `json:"ledgerId"`
	Height   uint64 `json:"height"`
}

// LedgerID returns the gateway's ledger instance identity.
func (c *Client) LedgerID(ctx context.Context) (common.Address, error) {
	var info infoResponse
	if err := c.get(ctx, "/api/info", &info); err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(info.LedgerID), nil
}

// Height returns the current ledger position.
func (c *Client) Height(ctx context.Context) (uint64, error) {
	var info infoResponse
	if err := c.get(ctx, "/api/info", &info); err != nil {
		return 0, err
	}
	return info.Height, nil
}

type eventsResponse struct {
	Events []ledger.Event `json:"events"`
	To     uint64         `json:"to"`
}

// Events fetches events over the half-open range (from, to]. The returned
// position is the end of the window actually served; callers advance their
// cursor to it.
func (c *Client) Events(ctx context.Context, from, to uint64) ([]ledger.Event, uint64, error) {
	var res eventsResponse
	path := fmt.Sprintf("/api/events?from=%d&to=%d", from, to)
	if err := c.get(ctx, path, &res); err != nil {
		return nil, from, err
	}
	return res.Events, res.To, nil
}

// GetTask reads one task record.
func (c *Client) GetTask(ctx context.Context, kind ledger.TaskKind, taskID uint64) (ledger.Task, error) {
	var task ledger.Task
	path := fmt.Sprintf("/api/tasks/%s/%d", kind, taskID)
	if err := c.get(ctx, path, &task); err != nil {
		return ledger.Task{}, err
	}
	return task, nil
}

type createTaskResponse struct {
	TaskID uint64 `json:"taskId"`
}

// CreateIdentityTask opens an identity task and returns its id.
func (c *Client) CreateIdentityTask(ctx context.Context, subject common.Address, level ledger.Level, requestID string) (uint64, error) {
	body := map[string]any{
		"subject":   subject.Hex(),
		"level":     uint8(level),
		"requestId": requestID,
	}
	var res createTaskResponse
	if err := c.post(ctx, "/api/tasks/identity", body, &res); err != nil {
		return 0, err
	}
	return res.TaskID, nil
}

// CreateProjectTask opens a project verification task and returns its id.
func (c *Client) CreateProjectTask(ctx context.Context, requester, subject common.Address, category, metadata, requestID string) (uint64, error) {
	body := map[string]any{
		"requester": requester.Hex(),
		"subject":   subject.Hex(),
		"category":  category,
		"metadata":  metadata,
		"requestId": requestID,
	}
	var res createTaskResponse
	if err := c.post(ctx, "/api/tasks/project", body, &res); err != nil {
		return 0, err
	}
	return res.TaskID, nil
}

// Respond submits a signed response for a task.
func (c *Client) Respond(ctx context.Context, kind ledger.TaskKind, taskID uint64, operator common.Address, payload ledger.ResponsePayload, sig []byte) error {
	body := map[string]any{
		"kind":      string(kind),
		"taskId":    taskID,
		"operator":  operator.Hex(),
		"payload":   payload,
		"signature": hex.EncodeToString(sig),
	}
	return c.post(ctx, "/api/tasks/respond", body, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return mapError(apiErr.Error)
		}
		return fmt.Errorf("gateway: status %d: %s", resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// mapError turns a gateway error body back into the ledger sentinel it was
// produced from, so callers keep errors.Is across the wire.
func mapError(msg string) error {
	for _, sentinel := range []error{
		ledger.ErrTaskNotFound,
		ledger.ErrTaskNotPending,
		ledger.ErrTaskExpired,
		ledger.ErrInvalidSignature,
		ledger.ErrNotOperator,
		ledger.ErrInvalidRequirement,
		ledger.ErrAlreadySatisfied,
		ledger.ErrNotRequester,
		ledger.ErrResultNotFound,
	} {
		if msg == sentinel.Error() {
			return sentinel
		}
	}
	return fmt.Errorf("gateway: %s", msg)
}

// Package httpstore talks to the appointment store service over HTTP. Every
// failure comes back as an *errors.ClassifiedError so the write executor
// knows whether to retry it.
package httpstore

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tidewell/scheduler/internal/errors"
	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/store"
)

const (
	collectionPath = "/api/appointments"
	documentPath   = "/api/appointments/{id}"
)

// Client is a store.Appointments backed by the store service API.
type Client struct {
	http *resty.Client
}

var _ store.Appointments = (*Client)(nil)

// New returns a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Client{http: c}
}

// NewWithClient wraps an existing resty client, e.g. one with custom transport.
func NewWithClient(c *resty.Client) *Client { return &Client{http: c} }

func (c *Client) List(ctx context.Context) ([]model.StoredDocument, error) {
	var out []model.StoredDocument
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get(collectionPath)
	if err := check(resp, err, "list appointments", http.StatusOK); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.StoredDocument{}
	}
	return out, nil
}

type createResponse struct {
	ID string `json:"id"`
}

func (c *Client) Create(ctx context.Context, doc model.Document) (string, error) {
	var out createResponse
	resp, err := c.http.R().SetContext(ctx).SetBody(doc).SetResult(&out).Post(collectionPath)
	if err := check(resp, err, "create appointment", http.StatusCreated, http.StatusOK); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.Irrecoverablef("create appointment: response without id")
	}
	return out.ID, nil
}

func (c *Client) Update(ctx context.Context, id string, changes model.Changes) error {
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("id", id).
		SetBody(changes).
		Patch(documentPath)
	return check(resp, err, "update appointment", http.StatusNoContent, http.StatusOK)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("id", id).
		Delete(documentPath)
	return check(resp, err, "delete appointment", http.StatusNoContent, http.StatusOK)
}

// HealthPing calls the service health endpoint.
func (c *Client) HealthPing(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/api/health")
	return check(resp, err, "health", http.StatusOK)
}

func check(resp *resty.Response, err error, op string, want ...int) error {
	if err != nil {
		return errors.NewNetworkError(op, err)
	}
	for _, code := range want {
		if resp.StatusCode() == code {
			return nil
		}
	}
	return errors.NewHTTPError(resp.StatusCode(), resp.String(), op)
}

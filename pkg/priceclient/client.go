// Package priceclient is a Go client for the price HTTP API.
package priceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("price not found")
	ErrBadStatus   = errors.New("price api bad status")
	ErrUnavailable = errors.New("price api unavailable")
)

const maxResponseBytes = 32 << 20

type Client struct {
	BaseURL string
	Client  *http.Client
}

func New(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

type priceBody struct {
	Price uint64 `json:"price"`
}

func (c *Client) Create(ctx context.Context, value uint64) (uuid.UUID, error) {
	raw, err := c.do(ctx, http.MethodPost, "/price", &priceBody{Price: value})
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(strings.TrimSpace(string(raw)))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse created id: %w", err)
	}
	return id, nil
}

func (c *Client) List(ctx context.Context) ([]uint64, error) {
	raw, err := c.do(ctx, http.MethodGet, "/price", nil)
	if err != nil {
		return nil, err
	}

	var out []uint64
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id uuid.UUID) (uint64, error) {
	raw, err := c.do(ctx, http.MethodGet, "/price/"+id.String(), nil)
	if err != nil {
		return 0, err
	}

	var v uint64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("decode price: %w", err)
	}
	return v, nil
}

func (c *Client) Update(ctx context.Context, id uuid.UUID, value uint64) error {
	_, err := c.do(ctx, http.MethodPatch, "/price/"+id.String(), &priceBody{Price: value})
	return err
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, "/price/"+id.String(), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	return raw, nil
}

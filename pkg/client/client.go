// Package client is a typed Go client for the BiteScout media API. Reads go
// through a stale-while-revalidate cache keyed by operation and parameters;
// mutations invalidate the detail entry, the matching association lists and
// the general list caches.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Tyno1/bitescout-api/internal/types"
)

const (
	opGetMedia           = "getMedia"
	opGetUserMedia       = "getUserMedia"
	opGetAssociatedMedia = "getAssociatedMedia"
	opGetVerifiedMedia   = "getVerifiedMedia"
)

const backgroundRefetchTimeout = 30 * time.Second

// APIError carries the HTTP status and server error message of a failed call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	cache      *swrCache
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      newSWRCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope struct {
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

// fetchCached serves op from the cache when fresh, serves stale values while
// a background refetch runs, and fetches synchronously on a miss.
func fetchCached[T any](ctx context.Context, c *Client, op string, params []string, fetch func(context.Context) (T, error)) (T, error) {
	key := cacheKey(op, params...)
	policy := policies[op]

	cached, state := c.cache.get(key, policy)
	switch state {
	case entryFresh:
		return cached.(T), nil

	case entryStale:
		if c.cache.tryBeginRefetch(key) {
			go func() {
				defer c.cache.endRefetch(key)
				refetchCtx, cancel := context.WithTimeout(context.Background(), backgroundRefetchTimeout)
				defer cancel()
				if value, err := fetch(refetchCtx); err == nil {
					c.cache.set(key, value)
				}
			}()
		}
		return cached.(T), nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.cache.set(key, value)
	return value, nil
}

// GetMedia returns a single media record.
func (c *Client) GetMedia(ctx context.Context, id string) (types.Media, error) {
	return fetchCached(ctx, c, opGetMedia, []string{id}, func(ctx context.Context) (types.Media, error) {
		var media types.Media
		err := c.doJSON(ctx, http.MethodGet, "/media/"+id, nil, &media)
		return media, err
	})
}

// GetUserMedia returns a page of the user's uploads, newest first.
func (c *Client) GetUserMedia(ctx context.Context, userID string, page, limit int) (types.MediaPage, error) {
	params := []string{userID, strconv.Itoa(page), strconv.Itoa(limit)}
	return fetchCached(ctx, c, opGetUserMedia, params, func(ctx context.Context) (types.MediaPage, error) {
		var result types.MediaPage
		path := fmt.Sprintf("/media/user/%s?page=%d&limit=%d", userID, page, limit)
		err := c.doJSON(ctx, http.MethodGet, path, nil, &result)
		return result, err
	})
}

// GetAssociatedMedia returns a page of media linked to an entity.
func (c *Client) GetAssociatedMedia(ctx context.Context, assocType types.AssociationType, assocID string, page, limit int) (types.MediaPage, error) {
	params := []string{string(assocType), assocID, strconv.Itoa(page), strconv.Itoa(limit)}
	return fetchCached(ctx, c, opGetAssociatedMedia, params, func(ctx context.Context) (types.MediaPage, error) {
		var result types.MediaPage
		path := fmt.Sprintf("/media/associated/%s/%s?page=%d&limit=%d", assocType, assocID, page, limit)
		err := c.doJSON(ctx, http.MethodGet, path, nil, &result)
		return result, err
	})
}

// GetVerifiedMedia returns a page of verified media, optionally filtered by
// associated entity type.
func (c *Client) GetVerifiedMedia(ctx context.Context, page, limit int, typeFilter types.AssociationType) (types.MediaPage, error) {
	params := []string{strconv.Itoa(page), strconv.Itoa(limit), string(typeFilter)}
	return fetchCached(ctx, c, opGetVerifiedMedia, params, func(ctx context.Context) (types.MediaPage, error) {
		var result types.MediaPage
		path := fmt.Sprintf("/media/verified?page=%d&limit=%d", page, limit)
		if typeFilter != "" {
			path += "&type=" + string(typeFilter)
		}
		err := c.doJSON(ctx, http.MethodGet, path, nil, &result)
		return result, err
	})
}

// invalidateMedia drops the detail entry, the matching association list
// entries and the general list entries for media.
func (c *Client) invalidateMedia(media types.Media) {
	c.cache.invalidate(cacheKey(opGetMedia, media.ID))
	if media.AssociatedWith != nil && !media.AssociatedWith.IsZero() {
		c.cache.invalidatePrefix(cacheKey(opGetAssociatedMedia, string(media.AssociatedWith.Type), media.AssociatedWith.ID))
	}
	c.cache.invalidatePrefix(opGetUserMedia + "|")
	c.cache.invalidatePrefix(opGetVerifiedMedia + "|")
}

// CreateMedia creates a metadata-only media record.
func (c *Client) CreateMedia(ctx context.Context, req types.CreateMediaRequest) (types.Media, error) {
	var media types.Media
	if err := c.doJSON(ctx, http.MethodPost, "/media", req, &media); err != nil {
		return types.Media{}, err
	}
	c.invalidateMedia(media)
	return media, nil
}

// UpdateMedia patches a media record's mutable fields.
func (c *Client) UpdateMedia(ctx context.Context, id string, patch types.UpdateMediaRequest) (types.Media, error) {
	// Invalidate against the pre-update state too, so a moved association
	// does not leave the old list cached.
	before, _ := c.GetMedia(ctx, id)

	var media types.Media
	if err := c.doJSON(ctx, http.MethodPatch, "/media/"+id, patch, &media); err != nil {
		return types.Media{}, err
	}
	c.invalidateMedia(before)
	c.invalidateMedia(media)
	return media, nil
}

// DeleteMedia removes a media record.
func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	before, _ := c.GetMedia(ctx, id)

	if err := c.doJSON(ctx, http.MethodDelete, "/media/"+id, nil, nil); err != nil {
		return err
	}
	c.invalidateMedia(before)
	return nil
}

// VerifyMedia toggles the verification flag on a media record.
func (c *Client) VerifyMedia(ctx context.Context, id string) (types.Media, error) {
	var media types.Media
	if err := c.doJSON(ctx, http.MethodPost, "/media/"+id+"/verify", nil, &media); err != nil {
		return types.Media{}, err
	}
	c.invalidateMedia(media)
	return media, nil
}

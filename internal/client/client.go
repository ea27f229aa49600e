package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fasohabita/server/internal/models"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	listingsKeyPrefix = "/api/listings?"
	myListingsKey     = "/api/me/listings"

	defaultCacheSize = 128
)

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%d: %s (%s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client fetches listings from the API and caches reads per
// (endpoint, query) until a mutation invalidates them.
type Client struct {
	baseURL   string
	http      *http.Client
	token     string
	cacheSize int
	cache     *lru.Cache
	group     singleflight.Group
	logger    *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSessionToken authenticates requests with a session token
func WithSessionToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithCacheSize(size int) Option {
	return func(c *Client) { c.cacheSize = size }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 10 * time.Second},
		cacheSize: defaultCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logrus.New()
	}

	cache, err := lru.New(c.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

func listingKey(id int64) string {
	return "/api/listings/" + strconv.FormatInt(id, 10)
}

// Listings returns the public listings matching f
func (c *Client) Listings(ctx context.Context, f models.ListingFilter) ([]models.ListingResponse, error) {
	key := listingsKeyPrefix + f.Values().Encode()
	v, err := c.cached(key, func() (interface{}, error) {
		var out []models.ListingResponse
		if err := c.do(ctx, http.MethodGet, key, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]models.ListingResponse{}, v.([]models.ListingResponse)...), nil
}

// MyListings returns every listing of the session user
func (c *Client) MyListings(ctx context.Context) ([]models.ListingResponse, error) {
	v, err := c.cached(myListingsKey, func() (interface{}, error) {
		var out []models.ListingResponse
		if err := c.do(ctx, http.MethodGet, myListingsKey, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]models.ListingResponse{}, v.([]models.ListingResponse)...), nil
}

// Listing returns one listing, or nil when it does not exist
func (c *Client) Listing(ctx context.Context, id int64) (*models.ListingResponse, error) {
	v, err := c.cached(listingKey(id), func() (interface{}, error) {
		var out models.ListingResponse
		if err := c.do(ctx, http.MethodGet, listingKey(id), nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	listing := v.(models.ListingResponse)
	return &listing, nil
}

func (c *Client) CreateListing(ctx context.Context, req *models.CreateListingRequest) (*models.ListingResponse, error) {
	var out models.ListingResponse
	if err := c.do(ctx, http.MethodPost, "/api/listings", req, &out); err != nil {
		return nil, err
	}
	c.invalidateLists()
	return &out, nil
}

func (c *Client) UpdateListing(ctx context.Context, id int64, req *models.UpdateListingRequest) (*models.ListingResponse, error) {
	var out models.ListingResponse
	if err := c.do(ctx, http.MethodPut, listingKey(id), req, &out); err != nil {
		return nil, err
	}
	c.invalidateLists()
	c.cache.Remove(listingKey(id))
	return &out, nil
}

func (c *Client) DeleteListing(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, listingKey(id), nil, nil); err != nil {
		return err
	}
	c.invalidateLists()
	c.cache.Remove(listingKey(id))
	return nil
}

// RequestUpload asks for a presigned target for one photo
func (c *Client) RequestUpload(ctx context.Context, req models.UploadRequest) (*models.UploadResponse, error) {
	var out models.UploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/uploads/request-url", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser returns the session user, or nil when signed out
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, &out)
	if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// cached serves key from the cache, collapsing concurrent misses into one
// fetch
func (c *Client) cached(key string, fetch func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, v)
		return v, nil
	})
	return v, err
}

// invalidateLists drops every cached listing collection
func (c *Client) invalidateLists() {
	for _, k := range c.cache.Keys() {
		key, _ := k.(string)
		if strings.HasPrefix(key, listingsKeyPrefix) || key == myListingsKey {
			c.cache.Remove(k)
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.WithError(err).WithField("path", path).Error("Failed to decode response")
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) == nil {
		apiErr.Message = body.Message
		apiErr.Field = body.Field
	}
	if apiErr.Message == "" {
		apiErr.Message = "Something went wrong"
	}
	return apiErr
}

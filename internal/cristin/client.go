package cristin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/henrybloomingdale/cristin-report/internal/registry"
)

const (
	// DefaultPerPage is the page size requested from the results endpoint.
	DefaultPerPage = 100
	// DefaultMaxPages bounds pagination against a registry that never
	// returns an empty page.
	DefaultMaxPages = 25
)

// ErrInvalidInput is returned before any request is made when a person ID
// is not a non-empty string of digits.
var ErrInvalidInput = errors.New("invalid input")

// Client is an HTTP client for the CRISTIN person and result endpoints.
// It embeds registry.BaseClient for shared rate limiting and size guards.
type Client struct {
	*registry.BaseClient
	PerPage  int
	MaxPages int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithPerPage sets the page size for result requests.
func WithPerPage(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.PerPage = n
		}
	}
}

// WithMaxPages sets the pagination safety bound.
func WithMaxPages(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.MaxPages = n
		}
	}
}

// NewClient creates a CRISTIN client on top of an existing base client.
// A nil base gets registry defaults.
func NewClient(base *registry.BaseClient, opts ...ClientOption) *Client {
	if base == nil {
		base = registry.NewBaseClient()
	}
	c := &Client{
		BaseClient: base,
		PerPage:    DefaultPerPage,
		MaxPages:   DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidatePersonID trims id and checks that it is a non-empty digit string.
func ValidatePersonID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: person ID is required", ErrInvalidInput)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: person ID %q must be numeric", ErrInvalidInput, id)
		}
	}
	return id, nil
}

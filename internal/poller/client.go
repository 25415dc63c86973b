package poller

import (
	"context"
	"time"

	"github.com/deveshsoni7/finboard/shape"
)

// defaultRequestTimeout bounds a single fetch attempt.
const defaultRequestTimeout = 10 * time.Second

// Client fetches widget data: it delegates the network request to a [Proxy]
// collaborator and pipes the JSON body through [shape.Normalize].
//
// A Client makes exactly one attempt per call; retries happen naturally on
// the scheduler's next interval tick.
type Client struct {
	proxy   Proxy
	timeout time.Duration
}

// NewClient creates a [Client] using the given proxy collaborator.
// A non-positive timeout falls back to 10 seconds.
func NewClient(proxy Proxy, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{proxy: proxy, timeout: timeout}
}

// FetchWidgetData retrieves and normalizes the payload of one endpoint.
//
// A transport failure or non-2xx status yields a [*FetchError]; a body that
// is not valid JSON yields a [*shape.ParseError]. On success the payload is
// normalized before being returned.
func (c *Client) FetchWidgetData(ctx context.Context, endpoint string) (shape.Value, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, statusCode, err := c.proxy.Fetch(ctx, endpoint)
	if err != nil {
		return shape.Value{}, &FetchError{URL: endpoint, Err: err}
	}
	if statusCode < 200 || statusCode >= 300 {
		return shape.Value{}, &FetchError{URL: endpoint, StatusCode: statusCode}
	}

	v, err := shape.Parse(body)
	if err != nil {
		return shape.Value{}, err
	}
	return shape.Normalize(v), nil
}

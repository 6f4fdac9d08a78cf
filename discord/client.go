// Package discord is a thin client for the two channel-message endpoints
// the eraser consumes: search and delete.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-retry"
	log "github.com/sirupsen/logrus"

	"github.com/ShivamB25/undiscord-cli/model"
)

// DefaultBaseURL is the remote API root.
const DefaultBaseURL = "https://discord.com/api/v9"

// maxNetworkRetries is how many times a transport-level failure is retried
// before giving up. HTTP error statuses are never retried here.
const maxNetworkRetries = 3

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestError is a non-200 response from the search endpoint.
type RequestError struct {
	Status int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("search returned status %d", e.Status)
}

// NetworkError is a transport-level failure that survived the retry budget.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure after %d retries: %s", maxNetworkRetries, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client issues authenticated search and delete calls for one channel.
// It keeps no state between calls beyond the reused HTTP client.
type Client struct {
	httpClient HTTPClient
	token      string
	channelID  string

	baseURL   string
	retryBase time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	log       *log.Entry
}

// New creates a Client for the given channel. The token is sent verbatim
// in the Authorization header.
func New(httpClient HTTPClient, token, channelID string) *Client {
	return &Client{
		httpClient: httpClient,
		token:      token,
		channelID:  channelID,
		baseURL:    DefaultBaseURL,
		retryBase:  time.Second,
		sleep:      sleepContext,
		log:        log.NewEntry(log.StandardLogger()),
	}
}

// Search fetches one page of search results at the given offset. An empty
// page means no more results there, not an error. Non-200 responses fail
// with a RequestError; transport failures are retried with exponential
// backoff and surface as a NetworkError once the budget is spent.
func (c *Client) Search(ctx context.Context, criteria model.Criteria, offset int) (*model.Page, error) {
	u := fmt.Sprintf("%s/channels/%s/messages/search?%s",
		c.baseURL, c.channelID, criteria.Values(offset).Encode())

	resp, err := c.doWithRetry(ctx, http.MethodGet, u)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Status: resp.StatusCode}
	}

	var page model.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, errors.Wrap(err, "decode search response")
	}

	return &page, nil
}

// Delete removes one message. A 429 is resolved internally: sleep out the
// Retry-After duration, re-issue the call exactly once, and report the
// second result as final. The returned error is non-nil only when ctx is
// cancelled mid-call.
func (c *Client) Delete(ctx context.Context, messageID string) (model.Outcome, error) {
	out, limited, wait, err := c.deleteOnce(ctx, messageID)
	if err != nil || !limited {
		return out, err
	}

	c.log.WithField("id", messageID).Warnf("Rate limited. Retrying after %s.", wait)
	if err := c.sleep(ctx, wait); err != nil {
		return model.Outcome{}, err
	}

	out, limited, _, err = c.deleteOnce(ctx, messageID)
	if err != nil {
		return model.Outcome{}, err
	}
	if limited {
		// A second 429 is final. Count it as a plain failure.
		return model.Outcome{Kind: model.OutcomeFailed, Status: http.StatusTooManyRequests}, nil
	}

	return out, nil
}

func (c *Client) deleteOnce(ctx context.Context, messageID string) (model.Outcome, bool, time.Duration, error) {
	u := fmt.Sprintf("%s/channels/%s/messages/%s", c.baseURL, c.channelID, messageID)

	resp, err := c.doWithRetry(ctx, http.MethodDelete, u)
	if err != nil {
		if ctx.Err() != nil {
			return model.Outcome{}, false, 0, ctx.Err()
		}
		return model.Outcome{Kind: model.OutcomeNetworkFailure}, false, 0, nil
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return model.Outcome{Kind: model.OutcomeDeleted}, false, 0, nil
	case http.StatusForbidden:
		return model.Outcome{Kind: model.OutcomeForbidden}, false, 0, nil
	case http.StatusTooManyRequests:
		return model.Outcome{}, true, retryAfter(resp), nil
	default:
		return model.Outcome{Kind: model.OutcomeFailed, Status: resp.StatusCode}, false, 0, nil
	}
}

// doWithRetry performs one authenticated request, retrying transport-level
// failures with exponential backoff (retryBase, doubling per attempt) up to
// maxNetworkRetries. The bounded loop lives in the backoff, so there is no
// recursion and no unbounded stack growth.
func (c *Client) doWithRetry(ctx context.Context, method, url string) (*http.Response, error) {
	var resp *http.Response
	backoff := retry.WithMaxRetries(maxNetworkRetries, retry.NewExponential(c.retryBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", c.token)

		resp, err = c.httpClient.Do(req)
		if err != nil {
			c.log.WithField("method", method).Warnf("Request failed, will retry: %s.", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{Err: err}
	}

	return resp, nil
}

// retryAfter reads the Retry-After header in whole seconds, defaulting to
// one second when absent or malformed.
func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs < 0 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

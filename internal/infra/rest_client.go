package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type accessTokenKey struct{}

// WithAccessToken attaches the caller's bearer token so the data store can
// apply its row-level rules for that user.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessToken returns the token attached by WithAccessToken, if any.
func AccessToken(ctx context.Context) string {
	s, _ := ctx.Value(accessTokenKey{}).(string)
	return s
}

// StoreError is a non-2xx answer from the data store.
type StoreError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *StoreError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("data store returned status %d", e.Status)
	}
	return fmt.Sprintf("data store returned status %d: %s", e.Status, e.Message)
}

func (e *StoreError) Temporary() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// RestClient talks to the hosted data store's table API (/rest/v1/<table>).
type RestClient struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	readRetries uint
}

func NewRestClient(baseURL, apiKey string, timeout time.Duration, readRetries uint) *RestClient {
	return &RestClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: timeout},
		readRetries: readRetries,
	}
}

// Select decodes the rows matching query into out, which must point to a
// slice. Transport failures and 5xx answers are retried readRetries times.
func (c *RestClient) Select(ctx context.Context, table string, query url.Values, out any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.do(ctx, http.MethodGet, c.tableURL(table, query), nil, nil, out)
		var se *StoreError
		if errors.As(err, &se) && !se.Temporary() {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.readRetries+1))
	return err
}

// Insert posts rows (a struct or a slice). When out is not nil the stored
// rows are returned into it.
func (c *RestClient) Insert(ctx context.Context, table string, rows any, out any) error {
	headers := map[string]string{}
	if out != nil {
		headers["Prefer"] = "return=representation"
	}
	return c.do(ctx, http.MethodPost, c.tableURL(table, nil), headers, rows, out)
}

// Upsert inserts row or merges it into the row that conflicts on onConflict.
func (c *RestClient) Upsert(ctx context.Context, table string, row any, onConflict string, out any) error {
	prefer := "resolution=merge-duplicates"
	if out != nil {
		prefer += ",return=representation"
	}
	q := url.Values{}
	q.Set("on_conflict", onConflict)
	return c.do(ctx, http.MethodPost, c.tableURL(table, q), map[string]string{"Prefer": prefer}, row, out)
}

func (c *RestClient) Update(ctx context.Context, table string, filter url.Values, patch any) error {
	return c.do(ctx, http.MethodPatch, c.tableURL(table, filter), nil, patch, nil)
}

func (c *RestClient) Delete(ctx context.Context, table string, filter url.Values) error {
	return c.do(ctx, http.MethodDelete, c.tableURL(table, filter), nil, nil, nil)
}

func (c *RestClient) tableURL(table string, query url.Values) string {
	u := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *RestClient) do(ctx context.Context, method, u string, headers map[string]string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	token := AccessToken(ctx)
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StoreError{}
		_ = json.NewDecoder(resp.Body).Decode(se)
		se.Status = resp.StatusCode
		return se
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

// Eq builds the equality filter value understood by the table API.
func Eq(v string) string {
	return "eq." + v
}

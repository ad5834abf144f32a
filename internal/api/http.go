package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// HTTPCaller implements Caller and Uploader over net/http. Session state (the
// auth cookie) lives in the client's jar; nothing above this layer sees it.
type HTTPCaller struct {
	baseURL string
	client  *http.Client

	// Optional basic-auth pair, consumed by the next call and then cleared.
	// The login flow sets it for the one identity fetch that establishes the
	// session cookie.
	username string
	password string
}

func NewHTTPCaller(baseURL string) (*HTTPCaller, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &HTTPCaller{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Jar:     jar,
			Timeout: 60 * time.Second,
		},
	}, nil
}

// SetCredentials arms a one-shot basic-auth pair for the next call.
func (c *HTTPCaller) SetCredentials(username, password string) {
	c.username = username
	c.password = password
}

// errorBody is the remote API's error shape: {"error":{"message":...,"status_code":...}}.
type errorBody struct {
	Error struct {
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
	} `json:"error"`
}

func (c *HTTPCaller) Call(ctx context.Context, endpoint string, opts Options) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	var body io.Reader
	switch method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		if len(opts.Params) > 0 {
			q := url.Values{}
			for k, v := range opts.Params {
				q.Set(k, fmt.Sprint(v))
			}
			target += "?" + q.Encode()
		}
	default:
		if opts.Params != nil {
			b, err := json.Marshal(opts.Params)
			if err != nil {
				return nil, fmt.Errorf("encoding request params: %w", err)
			}
			body = bytes.NewReader(b)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(url.QueryEscape(c.username), url.QueryEscape(c.password))
		c.username, c.password = "", ""
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			se.Message = eb.Error.Message
		}
		return nil, se
	}

	return json.RawMessage(data), nil
}

// Put uploads raw bytes to the given URL, used by the two-phase file upload
// protocol. The URL comes from the API itself and may point outside baseURL.
func (c *HTTPCaller) Put(ctx context.Context, target string, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading to %s: %w", target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

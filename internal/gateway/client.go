// Package gateway hosts the orchestration façade: one canonical operation
// surface, three protocol clients against the inventory service, per-operation
// retry policy and uniform failure normalization.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"stockhub/internal/core/apperror"
	"stockhub/internal/core/servicetoken"
	"stockhub/internal/infrastructure/http/v1/middleware"

	appctx "stockhub/internal/core/appcontext"
)

// Downstream call timeouts, fixed per the inventory service contract.
const (
	connectTimeout = 5 * time.Second
	readTimeout    = 30 * time.Second
)

// httpClient is the shared transport for all three protocol clients. It signs
// requests with a service token and propagates trace headers.
type httpClient struct {
	baseURL string
	client  *http.Client
	issuer  *servicetoken.Issuer
}

func newHTTPClient(baseURL string, issuer *servicetoken.Issuer) *httpClient {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &httpClient{
		baseURL: baseURL,
		issuer:  issuer,
		client: &http.Client{
			Timeout: readTimeout,
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: connectTimeout,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// doJSON sends a request with an optional JSON body and decodes the response
// into out. Statuses outside accept come back as transport errors.
func (c *httpClient) doJSON(ctx context.Context, method, path string, body, out any, accept ...int) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperror.NewTransport("encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperror.NewTransport("build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.issuer != nil {
		token, err := c.issuer.Issue()
		if err != nil {
			return apperror.NewTransport("issue service token", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if trace := appctx.GetTrace(ctx); trace != nil {
		req.Header.Set(middleware.HeaderTraceID, trace.TraceID)
		req.Header.Set(middleware.HeaderRequestID, trace.RequestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperror.NewTransport(method+" "+path, err)
	}
	defer resp.Body.Close()

	if !statusAccepted(resp.StatusCode, accept) {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperror.NewTransport(method+" "+path,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperror.NewTransport("decode response", err)
		}
	}
	return nil
}

func statusAccepted(status int, accept []int) bool {
	if len(accept) == 0 {
		return status >= 200 && status < 300
	}
	for _, s := range accept {
		if s == status {
			return true
		}
	}
	return false
}

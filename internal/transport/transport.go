// Package transport contains one translation unit per vendor: each transport
// builds that vendor's HTTP request from a normalized exchange, issues exactly
// one POST, and extracts the first textual answer from the vendor's response
// envelope. Retry policy, if any, belongs to the caller.
package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/jdehlin/aigent/internal/catalog"
	"github.com/jdehlin/aigent/internal/history"
)

// Request carries everything a transport needs for one dispatch. History is
// treated as an immutable snapshot for the duration of the call.
type Request struct {
	Model   string // vendor API model identifier
	APIKey  string
	System  string // optional system prompt, empty when unset
	History []history.Exchange
	Message string
	Image   []byte // optional raw image payload
}

// Transport translates between the internal conversation representation and
// one vendor's wire protocol.
type Transport interface {
	Provider() catalog.Provider
	SupportsImages() bool
	Send(ctx context.Context, req Request) (string, error)
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 120 * time.Second}
}

// postJSON issues one POST with a JSON body and returns the decompressed
// response body. Non-2xx statuses become an *HTTPError carrying the raw body.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	return io.ReadAll(reader)
}

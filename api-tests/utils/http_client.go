// Package utils chứa các tiện ích dùng chung cho integration test:
// HTTP client có sẵn base URL, timeout và bearer token.
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient bọc http.Client với base URL và token xác thực.
// Mọi method trả về (response, body, error) để test case tự assert.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient tạo client mới với base URL và timeout (giây).
func NewHTTPClient(baseURL string, timeoutSeconds int) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

// SetToken set bearer token cho các request tiếp theo.
// Token rỗng = không gửi header Authorization (server dev thường tắt xác thực).
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// GET gửi GET request tới path (nối vào base URL).
func (c *HTTPClient) GET(path string) (*http.Response, []byte, error) {
	return c.do(http.MethodGet, path, nil)
}

// POST gửi POST request với payload được encode JSON.
func (c *HTTPClient) POST(path string, payload interface{}) (*http.Response, []byte, error) {
	return c.do(http.MethodPost, path, payload)
}

// PUT gửi PUT request với payload được encode JSON.
func (c *HTTPClient) PUT(path string, payload interface{}) (*http.Response, []byte, error) {
	return c.do(http.MethodPut, path, payload)
}

// DELETE gửi DELETE request tới path.
func (c *HTTPClient) DELETE(path string) (*http.Response, []byte, error) {
	return c.do(http.MethodDelete, path, nil)
}

// do thực hiện request, đọc trọn body và trả về cho caller.
func (c *HTTPClient) do(method, path string, payload interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("lỗi encode payload: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("lỗi tạo request: %v", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("lỗi đọc response body: %v", err)
	}

	return resp, body, nil
}

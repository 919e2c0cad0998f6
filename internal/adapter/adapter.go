package adapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody 错误响应体保留到日志的最大字节数
const maxErrorBody = 512

// StatusError 上游返回非2xx状态码
type StatusError struct {
	Feed       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error: status=%d", e.Feed, e.StatusCode)
}

// DoJSON 执行请求并将2xx的JSON响应解码到out
func DoJSON(client *http.Client, req *http.Request, feed string, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", feed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Feed: feed, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s decode failed: %w", feed, err)
	}
	return nil
}

// Package netx holds small HTTP helpers shared by the client.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned by PutPresigned when storage answers with a
// non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upload rejected: %s", e.Status)
	}
	return fmt.Sprintf("upload rejected: %s; body: %s", e.Status, e.Body)
}

// PutPresigned streams body to a presigned URL with a single PUT. size must be
// the exact body length; presigned URLs do not accept chunked uploads.
func PutPresigned(ctx context.Context, c *http.Client, url, contentType string, body io.Reader, size int64) error {
	if c == nil {
		c = http.DefaultClient
	}
	if size == 0 {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(b)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ProgressReader reports the running byte count after every Read.
type ProgressReader struct {
	r    io.Reader
	n    int64
	emit func(read int64)
}

func NewProgressReader(r io.Reader, emit func(read int64)) *ProgressReader {
	return &ProgressReader{r: r, emit: emit}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.n += int64(n)
		if p.emit != nil {
			p.emit(p.n)
		}
	}
	return n, err
}

// Percent converts a byte count into a 0..100 integer, rounded to nearest.
func Percent(done, total int64) int {
	if total <= 0 {
		return 100
	}
	if done >= total {
		return 100
	}
	if done <= 0 {
		return 0
	}
	return int((done*100 + total/2) / total)
}

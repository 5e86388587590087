// Package fetch opens catalog sources: local files, HTTP(S) URLs and standard input.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// size limits keep a bad source from exhausting memory
const (
	MaxFileSizeBytes = 64 * 1024 * 1024
	MaxHTTPSizeBytes = 64 * 1024 * 1024
)

// HTTPRequestTimeout bounds a whole catalog download.
const HTTPRequestTimeout = 30 * time.Second

var (
	HTTPDialTimeout           = HTTPRequestTimeout / 6
	HTTPTLSTimeout            = HTTPRequestTimeout / 6
	HTTPResponseHeaderTimeout = HTTPRequestTimeout / 2
)

// userAgent is sent with every HTTP request.
const userAgent = "kindred/0.1"

// Kind classifies a source string.
type Kind int

const (
	Stdin Kind = iota
	URL
	File
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Stdin:
		return "stdin"
	case URL:
		return "url"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// KindOf reports how source would be opened.
func KindOf(source string) Kind {
	switch {
	case source == "-":
		return Stdin
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return URL
	default:
		return File
	}
}

// limitedReadCloser fails reads once more than N bytes have been consumed.
type limitedReadCloser struct {
	io.ReadCloser
	N      int64
	source string
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.ReadCloser.Read(p)
	l.N -= int64(n)
	return
}

// nopCloser keeps callers from closing the process's stdin.
type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }

// httpClient is shared and safe for concurrent use.
var httpClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: HTTPDialTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   HTTPTLSTimeout,
		ResponseHeaderTimeout: HTTPResponseHeaderTimeout,
	},
}

// GetContent opens source for reading:
//   - "-" reads from standard input
//   - "http://" and "https://" URLs are downloaded
//   - everything else is treated as a local file path
//
// The caller must close the returned reader.
func GetContent(ctx context.Context, source string) (io.ReadCloser, error) {
	switch KindOf(source) {
	case Stdin:
		return &limitedReadCloser{
			ReadCloser: nopCloser{os.Stdin},
			N:          MaxFileSizeBytes,
			source:     "stdin",
		}, nil
	case URL:
		return fetchURL(ctx, source)
	default:
		return fetchFile(source)
	}
}

// fetchURL downloads url, rejecting non-200 responses and oversized bodies.
func fetchURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %s", url, resp.Status)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > MaxHTTPSizeBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)", size, MaxHTTPSizeBytes)
		}
	}

	return &limitedReadCloser{
		ReadCloser: resp.Body,
		N:          MaxHTTPSizeBytes,
		source:     url,
	}, nil
}

// fetchFile opens a local file after checking it exists and fits the size limit.
func fetchFile(path string) (io.ReadCloser, error) {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}
	if fileInfo.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)",
			path, fileInfo.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	return file, nil
}

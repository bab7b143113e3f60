// Package fetch acquires raw data file lines from either the local
// filesystem or a remote archive, so that the parsers stay transport
// agnostic. Remote fetches are blocking single attempts without retries.
package fetch

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mholt/archiver/v3"
)

// ErrTransfer is returned for remote responses other than success or
// not-found.
var ErrTransfer = errors.New("fetch: transfer failed")

// Options provides additional information for the archive client.
type Options struct {
	// UserAgent is the http User Agent.
	UserAgent string

	// Timeout for GET requests in seconds. Defaults to 30 seconds.
	Timeout int
}

// Client fetches archive files over http. Clients should be reused instead
// of created as needed; they are safe for concurrent use.
type Client struct {
	*http.Client
	Useragent string
}

// NewClient returns a new archive client.
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = "gomcs"
	}
	timeout := 30 * time.Second
	if opts.Timeout != 0 {
		timeout = time.Duration(opts.Timeout) * time.Second
	}
	return &Client{
		Client:    &http.Client{Timeout: timeout},
		Useragent: opts.UserAgent,
	}
}

// IsURL reports whether a location is remote.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Lines returns the lines of the given location, local path or URL alike.
func (c *Client) Lines(location string) ([]string, error) {
	if IsURL(location) {
		return c.fetchLines(location)
	}
	return FileLines(location)
}

// fetchLines downloads a file and splits it into lines. A not-found
// response yields zero lines; any other non-success status is a transfer
// failure.
func (c *Client) fetchLines(url string) ([]string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.Useragent)

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransfer, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: GET %s: %d (%s)", ErrTransfer, url, resp.StatusCode, resp.Status)
	}
	return readLines(resp.Body)
}

// FileLines reads every line of a local file. Gzipped files are
// decompressed transparently.
func FileLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		var buf bytes.Buffer
		gz := archiver.NewGz()
		if err := gz.Decompress(f, &buf); err != nil {
			return nil, fmt.Errorf("fetch: decompress %s: %v", path, err)
		}
		return readLines(&buf)
	}
	return readLines(f)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fetch: read lines: %v", err)
	}
	return lines, nil
}

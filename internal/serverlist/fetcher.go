// Package serverlist fetches the speedtest.net server list and prints it
package serverlist

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Krea-University/speedtest-servers/internal/config"
	"github.com/Krea-University/speedtest-servers/internal/types"
)

var (
	// ErrTransport wraps network level failures of the request
	ErrTransport = errors.New("server list request failed")

	// ErrHTTPStatus matches any StatusError
	ErrHTTPStatus = errors.New("server list returned error status")

	// ErrMalformedBody is returned when the body is not a JSON array
	ErrMalformedBody = errors.New("malformed server list")

	// ErrMalformedElement matches any ElementError
	ErrMalformedElement = errors.New("malformed server entry")
)

// StatusError reports a non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server list returned status %s", e.Status)
}

// Is reports whether target is ErrHTTPStatus
func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// ElementError reports the first array element that could not be used
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("server entry %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMalformedElement
func (e *ElementError) Is(target error) bool {
	return target == ErrMalformedElement
}

// Fetcher retrieves the server list from speedtest.net
type Fetcher struct {
	client *http.Client
	logger log.FieldLogger
}

// New creates a fetcher. A nil client means http.DefaultClient.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client: client,
		logger: log.StandardLogger(),
	}
}

// WithLogger replaces the logger used for diagnostics
func (f *Fetcher) WithLogger(logger log.FieldLogger) *Fetcher {
	f.logger = logger
	return f
}

// Fetch performs the GET and returns every record in the order served.
// Any bad element fails the whole list.
func (f *Fetcher) Fetch(ctx context.Context) ([]types.ServerRecord, error) {
	entry := f.logger.WithField("request_id", uuid.New().String())
	entry.WithField("url", config.ServerListURL).Info("Fetching server list from speedtest.net")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.ServerListURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if elements == nil {
		// top level null
		return nil, fmt.Errorf("%w: top level value is not an array", ErrMalformedBody)
	}

	records := make([]types.ServerRecord, len(elements))
	for i, raw := range elements {
		if err := json.Unmarshal(raw, &records[i]); err != nil {
			return nil, &ElementError{Index: i, Err: err}
		}
	}

	entry.WithField("servers", len(records)).Info("Server list decoded")
	return records, nil
}

// Print writes one "sponsor: host" line per record. Output is buffered and
// flushed once.
func Print(w io.Writer, records []types.ServerRecord) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := bw.WriteString(r.Line() + "\n"); err != nil {
			return fmt.Errorf("failed to write server line: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// FetchAndPrint fetches the list and prints it to w. Nothing is written
// unless the whole list decoded.
func (f *Fetcher) FetchAndPrint(ctx context.Context, w io.Writer) error {
	records, err := f.Fetch(ctx)
	if err != nil {
		return err
	}
	return Print(w, records)
}

package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
)

// SheetSource fetches a published CSV export and returns its rows as
// Records. Identifier-like columns (DOCUMENTO, DNI_*) often arrive as floats
// from the spreadsheet; their trailing ".0" is stripped so they behave as
// plain strings.
type SheetSource struct {
	client *http.Client
}

func NewSheetSource(client *http.Client) *SheetSource {
	if client == nil {
		client = newExternalHTTPClient(0)
	}
	return &SheetSource{client: client}
}

func (s *SheetSource) Fetch(ctx context.Context, url string) ([]Record, error) {
	body, err := s.get(ctx, url)
	if err != nil {
		return nil, wrapErr(KindSourceUnavailable, "fetching sheet", err)
	}

	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, wrapErr(KindSourceUnavailable, "parsing sheet CSV", err)
	}
	if len(rows) == 0 {
		return nil, appErr(KindSourceUnavailable, "sheet export is empty")
	}

	header := rows[0]
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			val := ""
			if i < len(row) {
				val = strings.TrimSpace(row[i])
			}
			if isIdentifierColumn(name) {
				val = strings.TrimSuffix(val, ".0")
			}
			rec[name] = val
		}
		records = append(records, rec)
	}

	log.Printf("sheet fetch url=%s rows=%d cols=%d", url, len(records), len(header))
	return records, nil
}

func isIdentifierColumn(name string) bool {
	return name == colDocument || strings.HasPrefix(name, "DNI_") || strings.HasPrefix(name, "DNI ")
}

// get performs the HTTP fetch, retrying once when the first attempt timed
// out.
func (s *SheetSource) get(ctx context.Context, url string) ([]byte, error) {
	body, err := s.fetchOnce(ctx, url)
	if err != nil && isTimeout(err) {
		log.Printf("sheet fetch timeout url=%s, retrying once", url)
		body, err = s.fetchOnce(ctx, url)
	}
	return body, err
}

func (s *SheetSource) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sheet export returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

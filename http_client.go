package main

import (
	"net/http"
	"time"
)

const defaultExternalHTTPTimeout = 30 * time.Second
const defaultExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)

// newExternalHTTPClient builds the shared client for all outbound calls
// (spreadsheet exports, OpenAI). Seconds <= 0 falls back to the default.
func newExternalHTTPClient(seconds int) *http.Client {
	timeout := defaultExternalHTTPTimeout
	if seconds > 0 {
		timeout = time.Duration(seconds) * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Package utils contains small internal helpers shared by the provider
// adapters: JSON-over-HTTP POST with an SSE-readable response body, an SSE
// line scanner, typed non-2xx status errors, and string truncation for logs.
package utils

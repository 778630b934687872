package utils

import (
	"fmt"
	"net/url"
)

// ParseFetchURL accepts absolute http(s) URLs only.
func ParseFetchURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return nil, fmt.Errorf("unsupported URL scheme %q in %s", parsed.Scheme, raw)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("missing host in URL %s", raw)
	}
	return parsed, nil
}

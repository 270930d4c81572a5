package service

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned when the submitted URL is empty, relative,
// or uses a scheme other than http or https.
var ErrInvalidURL = errors.New("invalid url")

// normalizeURL trims the raw input and validates that it is an absolute
// http(s) URL. Lowercasing is optional: it helps deduplication but
// silently changes case-sensitive paths and query strings.
func normalizeURL(raw string, lowercase bool) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidURL
	}

	if lowercase {
		s = strings.ToLower(s)
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", ErrInvalidURL
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}

	return s, nil
}

// Package service contains the URL shortening business logic:
// input validation, deduplication, short code generation and
// redirect resolution.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/encurtador/encurtador/internal/database"
	"github.com/encurtador/encurtador/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrMaxRetriesExceeded is returned when the maximum number of retries for generating a short code is exceeded.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")

// base36Alphabet is the short code alphabet: digits and lowercase letters.
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	defaultCodeLength = 6
	defaultMaxRetries = 5
)

// URLRepository defines the interface for working with URL mappings at the business logic layer.
type URLRepository interface {
	// Create inserts a new mapping. Returns database.ErrShortCodeExists or
	// database.ErrOriginalURLExists when a uniqueness constraint is violated.
	Create(ctx context.Context, shortCode, originalURL string) (*models.URL, error)

	// GetByOriginalURL retrieves a mapping by its original URL.
	// Returns database.ErrURLNotFound if no mapping exists.
	GetByOriginalURL(ctx context.Context, originalURL string) (*models.URL, error)

	// GetByShortCode retrieves a mapping by its short code without mutating it.
	GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error)

	// IncrementClicks atomically increments the click counter and returns
	// the updated mapping, or database.ErrURLNotFound.
	IncrementClicks(ctx context.Context, shortCode string) (*models.URL, error)
}

// Options tunes the shortening behavior. Zero values fall back to defaults.
type Options struct {
	// CodeLength is the length of generated short codes.
	CodeLength int
	// MaxRetries bounds the collision-retry loop.
	MaxRetries int
	// LowercaseURLs lowercases original URLs before deduplication.
	LowercaseURLs bool
}

// URLService provides methods to manage URL shortening operations.
// The service uses a URLRepository interface to interact with the underlying store.
type URLService struct {
	repo          URLRepository
	codeLength    int
	maxRetries    int
	lowercaseURLs bool
}

// NewURLService creates a new URLService with the provided repository and options.
func NewURLService(repo URLRepository, opts Options) *URLService {
	if opts.CodeLength <= 0 {
		opts.CodeLength = defaultCodeLength
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}

	return &URLService{
		repo:          repo,
		codeLength:    opts.CodeLength,
		maxRetries:    opts.MaxRetries,
		lowercaseURLs: opts.LowercaseURLs,
	}
}

// ShortenURL validates and normalizes the original URL, returns the existing
// mapping if the URL was shortened before, and otherwise creates a new one
// with a unique short code. The second return value reports whether a new
// record was created.
//
// The store enforces uniqueness of both columns, so two concurrent calls can
// never corrupt the mapping: a short code collision is retried with a fresh
// (and on each retry longer) candidate, and losing a duplicate-submission
// race resolves to the winner's record.
func (s *URLService) ShortenURL(ctx context.Context, rawURL string) (*models.URL, bool, error) {
	const op = "service.URLService.ShortenURL"

	originalURL, err := normalizeURL(rawURL, s.lowercaseURLs)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	url, err := s.repo.GetByOriginalURL(ctx, originalURL)
	if err == nil {
		return url, false, nil
	}
	if !errors.Is(err, database.ErrURLNotFound) {
		return nil, false, fmt.Errorf("%s: failed to check for existing url: %w", op, err)
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		shortCode, err := gonanoid.Generate(base36Alphabet, s.codeLength+attempt)
		if err != nil {
			return nil, false, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		url, err := s.repo.Create(ctx, shortCode, originalURL)
		if err != nil {
			if errors.Is(err, database.ErrShortCodeExists) {
				continue
			}

			if errors.Is(err, database.ErrOriginalURLExists) {
				// Lost the duplicate-submission race: someone else created
				// the mapping between our lookup and insert. Return theirs.
				url, err := s.repo.GetByOriginalURL(ctx, originalURL)
				if err != nil {
					return nil, false, fmt.Errorf("%s: failed to fetch url after conflict: %w", op, err)
				}
				return url, false, nil
			}

			return nil, false, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, true, nil
	}

	return nil, false, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// ResolveShortCode retrieves the original URL associated with the provided
// short code and counts the click. Lookup and increment are one atomic store
// operation, so concurrent resolves never lose a click.
func (s *URLService) ResolveShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.ResolveShortCode"

	url, err := s.repo.IncrementClicks(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	return url, nil
}

// GetURLStats retrieves the mapping for the provided short code without
// counting a click.
func (s *URLService) GetURLStats(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.GetURLStats"

	url, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return url, nil
}

package http

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/encurtador/encurtador/internal/models"
)

// shortenRequest represents the structure for a request to shorten a URL.
type shortenRequest struct {
	OriginalURL string `json:"originalURL" validate:"required,url"`
}

// urlResponse represents the structure for a response containing shortened URL information.
type urlResponse struct {
	OriginalURL string    `json:"originalURL"`
	ShortURL    string    `json:"shortURL"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toURLResponse(url *models.URL, baseURL string) urlResponse {
	return urlResponse{
		OriginalURL: url.OriginalURL,
		ShortURL:    joinShortURL(baseURL, url.ShortCode),
		CreatedAt:   url.CreatedAt,
	}
}

// urlStatsResponse represents the structure for a response containing URL statistics.
type urlStatsResponse struct {
	OriginalURL string    `json:"originalURL"`
	ShortURL    string    `json:"shortURL"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toURLStatsResponse(url *models.URL, baseURL string) urlStatsResponse {
	return urlStatsResponse{
		OriginalURL: url.OriginalURL,
		ShortURL:    joinShortURL(baseURL, url.ShortCode),
		Clicks:      url.Clicks,
		CreatedAt:   url.CreatedAt,
		UpdatedAt:   url.UpdatedAt,
	}
}

// joinShortURL builds the shareable short link. Without a configured base
// URL the bare short code is returned.
func joinShortURL(baseURL, shortCode string) string {
	if baseURL == "" {
		return shortCode
	}

	return strings.TrimRight(baseURL, "/") + "/" + shortCode
}

// healthResponse reports process and database health.
type healthResponse struct {
	Status  string `json:"status"`
	DBState string `json:"dbState"`
}

const (
	dbStateConnected    = "connected"
	dbStateDisconnected = "disconnected"
)

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Error  string            `json:"error"`
	Errors []validationError `json:"errors,omitempty"`
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse = errorResponse{
		Error: "corpo da requisição vazio",
	}

	invalidRequestBodyResponse = errorResponse{
		Error: "corpo da requisição inválido",
	}

	invalidURLResponse = errorResponse{
		Error: "URL inválida",
	}

	urlNotFoundResponse = errorResponse{
		Error: "URL não encontrada",
	}

	storeUnavailableResponse = errorResponse{
		Error: "banco de dados indisponível",
	}

	serverErrorResponse = errorResponse{
		Error: "erro interno do servidor",
	}
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	default:
		return "invalid value"
	}
}

// validationErrorResponse constructs an errorResponse for validation errors.
func validationErrorResponse(err error) errorResponse {
	resp := errorResponse{
		Error: "erro de validação",
	}

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			resp.Errors = append(resp.Errors, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return resp
}

package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinShortURL(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		shortCode string
		want      string
	}{
		{
			name:      "no base url",
			shortCode: "a1b2c3",
			want:      "a1b2c3",
		},
		{
			name:      "base url without trailing slash",
			baseURL:   "https://encurta.do",
			shortCode: "a1b2c3",
			want:      "https://encurta.do/a1b2c3",
		},
		{
			name:      "base url with trailing slash",
			baseURL:   "https://encurta.do/",
			shortCode: "a1b2c3",
			want:      "https://encurta.do/a1b2c3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := joinShortURL(tt.baseURL, tt.shortCode)

			assert.Equal(t, tt.want, got)
		})
	}
}

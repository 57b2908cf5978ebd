package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v123/abc123.png", "abc123"},
		{"https://res.cloudinary.com/demo/image/upload/abc123.jpg", "abc123"},
		{"https://res.cloudinary.com/demo/image/upload/abc123", "abc123"},
		{"abc123.webp", "abc123"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, PublicIDFromURL(tc.url), tc.url)
	}
}

package handlers

import (
	"testing"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPastTense(t *testing.T) {
	assert.Equal(t, "liked", pastTense(models.InteractionLike))
	assert.Equal(t, "bookmarked", pastTense(models.InteractionBookmark))
}

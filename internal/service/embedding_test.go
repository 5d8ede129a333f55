package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateEmbeddingIsDeterministic(t *testing.T) {
	a := GenerateEmbedding("butter chicken")
	b := GenerateEmbedding("butter chicken")
	assert.Equal(t, a, b)
}

func TestGenerateEmbeddingDimension(t *testing.T) {
	vec := GenerateEmbedding("masala dosa with sambar")
	assert.Len(t, vec.Slice(), EmbeddingDim)
}

func TestGenerateEmbeddingCaseInsensitive(t *testing.T) {
	assert.Equal(t, GenerateEmbedding("Butter Chicken"), GenerateEmbedding("butter chicken"))
}

func TestGenerateEmbeddingEmptyText(t *testing.T) {
	vec := GenerateEmbedding("")
	for _, v := range vec.Slice() {
		assert.Zero(t, v)
	}
}

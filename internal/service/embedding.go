package service

import (
	"hash/fnv"
	"strings"

	"github.com/rasoihub/recipeops/internal/models"
)

// EmbeddingDim matches the vector(N) column on recipes.
const EmbeddingDim = 1536

// GenerateEmbedding returns a deterministic embedding for the given text by
// hashing word tokens into fixed buckets. It is a stand-in with the same
// shape as a hosted embedding model, good enough for nearest-neighbor
// ordering over recipe names and descriptions.
func GenerateEmbedding(text string) models.Embedding {
	vec := make([]float32, EmbeddingDim)
	words := strings.Fields(strings.ToLower(text))
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%EmbeddingDim]++
	}

	// Normalize so recipe length does not dominate distance.
	if n := float32(len(words)); n > 0 {
		for i := range vec {
			vec[i] /= n
		}
	}
	return models.NewEmbedding(vec)
}

package engine

import (
	"fmt"
	"math"
	"sort"
)

// Scored pairs a chunk with its cosine similarity to the query.
type Scored struct {
	Chunk string
	Score float64
}

// Index is an ephemeral in-memory similarity index over transcript
// chunks. Built fresh for every request and discarded with it; nothing
// is shared or persisted across requests.
type Index struct {
	dim    int
	vecs   [][]float64
	chunks []string
}

func NewIndex() *Index {
	return &Index{}
}

// Add stores a chunk with its embedding. The first vector fixes the
// index dimension; later vectors must match it.
func (ix *Index) Add(chunk string, vec []float64) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty embedding vector for chunk %q", Truncate(chunk, 40))
	}
	if ix.dim == 0 {
		ix.dim = len(vec)
	}
	if len(vec) != ix.dim {
		return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), ix.dim)
	}
	ix.vecs = append(ix.vecs, vec)
	ix.chunks = append(ix.chunks, chunk)
	return nil
}

func (ix *Index) Len() int {
	return len(ix.chunks)
}

// Search returns up to k chunks ordered by descending cosine similarity
// to vec. Fewer than k stored chunks returns all of them; an empty index
// returns an empty result, never an error. Ties keep insertion order.
func (ix *Index) Search(vec []float64, k int) []Scored {
	if k <= 0 || len(ix.vecs) == 0 {
		return nil
	}
	scored := make([]Scored, 0, len(ix.vecs))
	for i, v := range ix.vecs {
		s, err := CosineSimilarity(vec, v)
		if err != nil {
			continue
		}
		scored = append(scored, Scored{Chunk: ix.chunks[i], Score: s})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// CosineSimilarity computes dot(a,b) / (|a||b|). A zero-norm vector
// yields similarity 0 rather than an error.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (normA * normB), nil
}

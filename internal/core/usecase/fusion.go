package usecase

import (
	"sort"

	"github.com/akarasev/docsearch/internal/core/domain"
)

type FusionConfig struct {
	SemanticWeight float64
	LexicalWeight  float64
	K              int
}

func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		SemanticWeight: 0.5,
		LexicalWeight:  0.5,
		K:              60,
	}
}

func (c FusionConfig) normalized() FusionConfig {
	def := DefaultFusionConfig()
	if c.SemanticWeight <= 0 && c.LexicalWeight <= 0 {
		c.SemanticWeight = def.SemanticWeight
		c.LexicalWeight = def.LexicalWeight
	}
	if c.K <= 0 {
		c.K = def.K
	}
	return c
}

// fuseRRF merges the two channel rankings with weighted Reciprocal Rank
// Fusion: each member contributes weight/(k + rank) with zero-based ranks.
// Rank position alone decides the contribution, so the channels' native
// score scales (cosine similarity vs. unbounded text rank) never need
// normalization. Ties break by chunk id for determinism.
func fuseRRF(semantic, lexical []domain.RankedRef, cfg FusionConfig) []domain.RankedRef {
	cfg = cfg.normalized()

	scores := make(map[string]float64, len(semantic)+len(lexical))
	addList := func(refs []domain.RankedRef, weight float64) {
		for rank, ref := range refs {
			scores[ref.ChunkID] += weight / float64(cfg.K+rank)
		}
	}
	addList(semantic, cfg.SemanticWeight)
	addList(lexical, cfg.LexicalWeight)

	out := make([]domain.RankedRef, 0, len(scores))
	for id, score := range scores {
		out = append(out, domain.RankedRef{ChunkID: id, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ChunkID < out[j].ChunkID
	})
	return out
}

func trimRefs(refs []domain.RankedRef, limit int) []domain.RankedRef {
	if limit <= 0 || len(refs) <= limit {
		return refs
	}
	return refs[:limit]
}

package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
)

const (
	channelSemantic = "semantic"
	channelLexical  = "lexical"
)

type RetrieveConfig struct {
	TopK            int // default result count when the caller passes <= 0
	CandidateFactor int // per-channel over-fetch multiplier
	Fusion          FusionConfig
}

func DefaultRetrieveConfig() RetrieveConfig {
	return RetrieveConfig{
		TopK:            5,
		CandidateFactor: 2,
		Fusion:          DefaultFusionConfig(),
	}
}

func (c RetrieveConfig) normalized() RetrieveConfig {
	def := DefaultRetrieveConfig()
	if c.TopK <= 0 {
		c.TopK = def.TopK
	}
	if c.CandidateFactor <= 0 {
		c.CandidateFactor = def.CandidateFactor
	}
	c.Fusion = c.Fusion.normalized()
	return c
}

// RetrieveUseCase runs the hybrid retrieval pipeline: embed the query, run
// the semantic and lexical channels concurrently, fuse by reciprocal rank,
// hydrate in fused order. Channel failures degrade fail-open: retrieval
// never errors because a channel is down, only because the call itself was
// invalid or cancelled.
type RetrieveUseCase struct {
	embedder ports.Embedder
	store    ports.ChunkStore
	logger   *slog.Logger
	cfg      RetrieveConfig
}

func NewRetrieveUseCase(
	embedder ports.Embedder,
	store ports.ChunkStore,
	logger *slog.Logger,
	cfg RetrieveConfig,
) *RetrieveUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrieveUseCase{
		embedder: embedder,
		store:    store,
		logger:   logger,
		cfg:      cfg.normalized(),
	}
}

func (uc *RetrieveUseCase) Retrieve(
	ctx context.Context,
	query string,
	topK int,
	filter domain.SearchFilter,
	metrics ports.RetrievalMetrics,
) ([]domain.SearchResult, error) {
	start := time.Now()
	if metrics == nil {
		metrics = ports.NopRetrievalMetrics{}
	}

	if strings.TrimSpace(filter.TenantID) == "" {
		return nil, domain.WrapError(domain.ErrTenantRequired, "retrieve", errors.New("empty tenant filter"))
	}
	if strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}, nil
	}
	if topK <= 0 {
		topK = uc.cfg.TopK
	}
	// Over-fetch per channel: more overlap opportunity for fusion.
	candidates := topK * uc.cfg.CandidateFactor

	var (
		semantic, lexical       []domain.RankedRef
		semanticErr, lexicalErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t0 := time.Now()
		semantic, semanticErr = uc.searchSemantic(gctx, query, candidates, filter)
		metrics.ObserveChannel(channelSemantic, time.Since(t0), semanticErr)
		return nil
	})
	g.Go(func() error {
		t0 := time.Now()
		lexical, lexicalErr = uc.store.SearchLexical(gctx, query, candidates, filter)
		metrics.ObserveChannel(channelLexical, time.Since(t0), lexicalErr)
		return nil
	})
	_ = g.Wait()

	// All-or-nothing per call: an abandoned call returns its cancellation,
	// never a partial list.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uc.logChannelFailure(channelSemantic, semanticErr, query, filter)
	uc.logChannelFailure(channelLexical, lexicalErr, query, filter)

	degraded := semanticErr != nil || lexicalErr != nil
	if semanticErr != nil && lexicalErr != nil {
		uc.logger.Warn("retrieval_degraded_all_channels",
			"tenant_id", filter.TenantID,
			"query_len", len(query),
		)
		metrics.ObserveRetrieval(0, time.Since(start), true)
		return []domain.SearchResult{}, nil
	}

	fused := trimRefs(fuseRRF(semantic, lexical, uc.cfg.Fusion), topK)

	results, err := hydrateResults(ctx, uc.store, filter.TenantID, fused)
	if err != nil {
		uc.logger.Warn("retrieval_hydration_failed",
			"tenant_id", filter.TenantID,
			"fused_count", len(fused),
			"error", err,
		)
		metrics.ObserveRetrieval(0, time.Since(start), true)
		return []domain.SearchResult{}, nil
	}

	if len(results) == 0 && !degraded {
		uc.logger.Info("retrieval_no_content",
			"tenant_id", filter.TenantID,
			"query_len", len(query),
		)
	}
	metrics.ObserveRetrieval(len(results), time.Since(start), degraded)
	return results, nil
}

func (uc *RetrieveUseCase) searchSemantic(
	ctx context.Context,
	query string,
	limit int,
	filter domain.SearchFilter,
) ([]domain.RankedRef, error) {
	queryVector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return uc.store.SearchVector(ctx, queryVector, limit, filter)
}

func (uc *RetrieveUseCase) logChannelFailure(channel string, err error, query string, filter domain.SearchFilter) {
	if err == nil {
		return
	}
	uc.logger.Warn("retrieval_channel_failed",
		"channel", channel,
		"tenant_id", filter.TenantID,
		"document_filter", filter.DocumentID != "",
		"query_len", len(query),
		"error", err,
	)
}

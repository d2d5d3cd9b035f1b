package services

import (
	"context"

	"destek-backend/application/ports"
	"destek-backend/domain/faq"
	apperrors "destek-backend/pkg/errors"
	"destek-backend/pkg/utils"

	"go.uber.org/zap"
)

// CorpusService maintains the FAQ corpus in the vector index: entries
// are embedded through the provider and upserted with their metadata.
type CorpusService struct {
	provider ports.EmbeddingProvider
	index    ports.VectorIndex
	logger   *zap.Logger
}

// NewCorpusService creates a corpus service
func NewCorpusService(provider ports.EmbeddingProvider, index ports.VectorIndex, logger *zap.Logger) *CorpusService {
	return &CorpusService{
		provider: provider,
		index:    index,
		logger:   logger,
	}
}

// UpsertEntries validates, embeds and indexes the given entries.
// Questions are embedded in normalized form so lookups and corpus
// vectors live in the same space.
func (s *CorpusService) UpsertEntries(ctx context.Context, entries []faq.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]ports.Document, 0, len(entries))
	for _, entry := range entries {
		if err := utils.ValidateStruct(entry); err != nil {
			return apperrors.NewValidationError(err.Error())
		}

		normalized := faq.Normalize(entry.Question)
		if normalized == "" {
			return apperrors.NewValidationError("question is empty after normalization: " + entry.ID)
		}

		vector, err := s.provider.Embed(ctx, normalized)
		if err != nil {
			return apperrors.NewProviderError("embedding", err)
		}

		docs = append(docs, ports.Document{
			ID:       entry.ID,
			Vector:   vector,
			Question: entry.Question,
			Answer:   entry.Answer,
			Category: entry.Category,
		})
	}

	if err := s.index.Upsert(ctx, docs); err != nil {
		return apperrors.NewProviderError("vector index", err)
	}

	s.logger.Info("corpus entries upserted", zap.Int("count", len(docs)))
	return nil
}

// DeleteEntries removes entries from the index by id
func (s *CorpusService) DeleteEntries(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.index.DeleteByIDs(ctx, ids); err != nil {
		return apperrors.NewProviderError("vector index", err)
	}
	s.logger.Info("corpus entries deleted", zap.Int("count", len(ids)))
	return nil
}

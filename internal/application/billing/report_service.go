package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// summaryCacheTTL bounds staleness if an invalidation is ever missed
const summaryCacheTTL = 5 * time.Minute

// ReportService serves sales and collection summaries through the summary
// cache. Ledger writes call InvalidateSummaries, so cached reports never
// outlive the data they were computed from.
type ReportService struct {
	salesBillRepo  billing.SalesBillRepository
	collectionRepo billing.CollectionBillRepository
	cache          cache.SummaryCache
	logger         *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	salesBillRepo billing.SalesBillRepository,
	collectionRepo billing.CollectionBillRepository,
	summaryCache cache.SummaryCache,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		salesBillRepo:  salesBillRepo,
		collectionRepo: collectionRepo,
		cache:          summaryCache,
		logger:         logger,
	}
}

// GetSalesSummary aggregates bills over an inclusive date range
func (s *ReportService) GetSalesSummary(ctx context.Context, filter SummaryRangeFilter) (*billing.SalesSummary, error) {
	key := summaryKey("sales", filter.FromDate, filter.ToDate)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var summary billing.SalesSummary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return &summary, nil
		}
		s.logger.Warn("discarding undecodable cached summary", zap.String("key", key))
	}

	summary, err := s.salesBillRepo.GetSalesSummary(ctx, filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(summary); err == nil {
		s.cache.Set(ctx, key, encoded, summaryCacheTTL)
	}
	return summary, nil
}

// GetCollectionSummary aggregates collections over an inclusive date range
func (s *ReportService) GetCollectionSummary(ctx context.Context, filter SummaryRangeFilter) (*billing.CollectionSummary, error) {
	key := summaryKey("collections", filter.FromDate, filter.ToDate)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var summary billing.CollectionSummary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return &summary, nil
		}
		s.logger.Warn("discarding undecodable cached summary", zap.String("key", key))
	}

	summary, err := s.collectionRepo.GetCollectionSummary(ctx, filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(summary); err == nil {
		s.cache.Set(ctx, key, encoded, summaryCacheTTL)
	}
	return summary, nil
}

// InvalidateSummaries drops all cached summaries. Called by the bill and
// collection services after every write.
func (s *ReportService) InvalidateSummaries(ctx context.Context) {
	s.cache.DeleteAll(ctx)
}

// summaryKey builds a cache key from the report name and date bounds
func summaryKey(report string, from, to *time.Time) string {
	const layout = "2006-01-02"
	key := report + ":"
	if from != nil {
		key += from.Format(layout)
	}
	key += ":"
	if to != nil {
		key += to.Format(layout)
	}
	return key
}

// Ensure ReportService satisfies the invalidation hook used by the writers
var _ SummaryInvalidator = (*ReportService)(nil)

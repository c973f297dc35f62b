package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"carbontrace/internal/model"
	"carbontrace/pkg/engine"
	"carbontrace/pkg/interfaces"
	"carbontrace/pkg/logger"
	"carbontrace/pkg/store/mysql"
	mysqlModel "carbontrace/pkg/store/mysql/model"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultRecentLimit       = 5
	DefaultTopConsumersLimit = 10
	MaxListLimit             = 100

	loadAllTimeout = time.Minute
)

// DashboardService computes aggregates across all stored results
type DashboardService struct {
	results interfaces.ResultStore
	loads   singleflight.Group
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(results interfaces.ResultStore) *DashboardService {
	return &DashboardService{results: results}
}

// GetSummary sums energy and carbon and averages runtime over results that have all three
func (s *DashboardService) GetSummary(ctx context.Context) (*model.DashboardSummary, error) {
	results, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(results), nil
}

// loadAll collapses concurrent full-table reads into one query. The shared
// query outlives any single caller; each caller still stops waiting when its
// own ctx is done.
func (s *DashboardService) loadAll(ctx context.Context) ([]*mysqlModel.AnalysisResult, error) {
	ch := s.loads.DoChan("all", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadAllTimeout)
		defer cancel()
		return s.results.FindAll(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to load analysis results: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to load analysis results: %w", res.Err)
		}
		return res.Val.([]*mysqlModel.AnalysisResult), nil
	}
}

// Summarize is the aggregation behind GetSummary
func Summarize(results []*mysqlModel.AnalysisResult) *model.DashboardSummary {
	summary := &model.DashboardSummary{}

	var runtimeSum float64
	for _, r := range results {
		if r.TotalEnergy == nil || r.TotalCarbonFootprint == nil || r.TotalRuntime == nil {
			continue
		}
		summary.TotalEnergy += *r.TotalEnergy
		summary.TotalCarbonFootprint += *r.TotalCarbonFootprint
		runtimeSum += *r.TotalRuntime
		summary.TotalAnalyses++
	}

	if summary.TotalAnalyses > 0 {
		summary.AvgRuntime = runtimeSum / float64(summary.TotalAnalyses)
	}
	return summary
}

// GetRecentAnalyses returns the newest results first
func (s *DashboardService) GetRecentAnalyses(ctx context.Context, limit int) ([]*model.AnalysisSummary, error) {
	limit = clampLimit(limit, DefaultRecentLimit)

	results, err := s.results.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent analyses: %w", err)
	}

	summaries := make([]*model.AnalysisSummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, mysql.ToAnalysisSummary(r))
	}
	return summaries, nil
}

// GetTopEnergyConsumers ranks every task of every result by energy consumption
func (s *DashboardService) GetTopEnergyConsumers(ctx context.Context, limit int) ([]*model.EnergyConsumer, error) {
	limit = clampLimit(limit, DefaultTopConsumersLimit)

	results, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return TopConsumers(ctx, results, limit), nil
}

// TopConsumers flattens tasks in result order, drops tasks without an energy
// value and returns the limit highest. Equal energies keep encounter order.
func TopConsumers(ctx context.Context, results []*mysqlModel.AnalysisResult, limit int) []*model.EnergyConsumer {
	consumers := make([]*model.EnergyConsumer, 0)
	for _, r := range results {
		doc, err := engine.Parse(r.RawData)
		if err != nil {
			logger.WarnCtx(ctx, "skipping analysis result %d in ranking: %v", r.ID, err)
			continue
		}
		for _, task := range doc.Tasks() {
			if task.EnergyConsumption == nil {
				continue
			}
			consumers = append(consumers, &model.EnergyConsumer{
				Process:    task.Process,
				Energy:     *task.EnergyConsumption,
				AnalysisID: r.ID,
			})
		}
	}

	sort.SliceStable(consumers, func(i, j int) bool {
		return consumers[i].Energy > consumers[j].Energy
	})

	if limit >= 0 && len(consumers) > limit {
		consumers = consumers[:limit]
	}
	return consumers
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

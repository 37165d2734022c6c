package projector

import (
	"context"
	"sort"
	"time"

	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"

	"golang.org/x/sync/errgroup"
)

// Explanation pairs a category's projection with its breakdown.
type Explanation struct {
	Category  string
	ForMonth  models.Month
	Breakdown Breakdown
}

// Projection returns the BudgetProjection carried by the explanation.
func (e Explanation) Projection() models.BudgetProjection {
	return models.BudgetProjection{
		Category:        e.Category,
		ForMonth:        e.ForMonth,
		ProjectedAmount: e.Breakdown.Projected,
	}
}

// ProjectAll projects every category concurrently and returns the results
// sorted by category. Empty series are skipped with a warning. workers bounds
// the number of goroutines; zero or less means one per category.
func (p *Projector) ProjectAll(ctx context.Context, series map[string]models.CategorySeries, workers int) ([]models.BudgetProjection, error) {
	explanations, err := p.ExplainAll(ctx, series, workers)
	if err != nil {
		return nil, err
	}

	projections := make([]models.BudgetProjection, len(explanations))
	for i, e := range explanations {
		projections[i] = e.Projection()
	}
	return projections, nil
}

// ExplainAll is ProjectAll with intermediate values.
func (p *Projector) ExplainAll(ctx context.Context, series map[string]models.CategorySeries, workers int) ([]Explanation, error) {
	start := time.Now()

	categories := make([]string, 0, len(series))
	for category, s := range series {
		if s.IsEmpty() {
			p.logger.Warn("Skipping category without observed months",
				logging.Field{Key: logging.FieldCategory, Value: category})
			continue
		}
		categories = append(categories, category)
	}
	sort.Strings(categories)

	results := make([]Explanation, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, category := range categories {
		s := series[category]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			b, err := p.Explain(s)
			if err != nil {
				return err
			}

			last, _ := s.Last()
			// Each goroutine owns results[i].
			results[i] = Explanation{
				Category:  category,
				ForMonth:  last.Month.Next(),
				Breakdown: b,
			}
			p.logger.Debug("Projected category budget",
				logging.Field{Key: logging.FieldCategory, Value: category},
				logging.Field{Key: logging.FieldMonth, Value: last.Month.Next().String()},
				logging.Field{Key: logging.FieldProjected, Value: b.Projected.String()})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Info("Projection completed",
		logging.Field{Key: logging.FieldCount, Value: len(results)},
		logging.Field{Key: logging.FieldWorkers, Value: workers},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return results, nil
}

package dbHelpers

import (
	"context"
	"fmt"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// distinctActive returns the sorted distinct values of a column over active items
func (s *PostgresStore) distinctActive(ctx context.Context, column string) ([]string, error) {
	SQL := fmt.Sprintf(`SELECT DISTINCT %[1]s
		FROM items
		WHERE is_active = TRUE
		ORDER BY %[1]s`, column)

	values := make([]string, 0)
	if err := s.db.SelectContext(ctx, &values, SQL); err != nil {
		return nil, errors.Wrapf(err, "failed to get distinct %s", column)
	}
	return values, nil
}

func (s *PostgresStore) priceRange(ctx context.Context) (*models.PriceRange, error) {
	SQL := `SELECT count(*)                AS total,
				   COALESCE(min(price), 0) AS min_price,
				   COALESCE(max(price), 0) AS max_price
			FROM items
			WHERE is_active = TRUE`

	var r struct {
		Total    int64   `db:"total"`
		MinPrice float64 `db:"min_price"`
		MaxPrice float64 `db:"max_price"`
	}
	if err := s.db.GetContext(ctx, &r, SQL); err != nil {
		return nil, errors.Wrap(err, "failed to get price range")
	}
	if r.Total == 0 {
		return nil, nil
	}
	return &models.PriceRange{Min: r.MinPrice, Max: r.MaxPrice}, nil
}

// FilterOptions collects the distinct filter values of active items concurrently
func (s *PostgresStore) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	var options models.FilterOptions
	egp, egCtx := errgroup.WithContext(ctx)

	egp.Go(func() error {
		var err error
		options.Categories, err = s.distinctActive(egCtx, "category")
		return err
	})
	egp.Go(func() error {
		var err error
		options.Conditions, err = s.distinctActive(egCtx, "condition")
		return err
	})
	egp.Go(func() error {
		var err error
		options.Locations, err = s.distinctActive(egCtx, "location")
		return err
	})
	egp.Go(func() error {
		var err error
		options.PriceRange, err = s.priceRange(egCtx)
		return err
	})

	if err := egp.Wait(); err != nil {
		return nil, err
	}
	return &options, nil
}

// Stats aggregates totals over active items along with a per category breakdown
func (s *PostgresStore) Stats(ctx context.Context) (*models.Stats, error) {
	SQL := `SELECT count(*)                            AS total_items,
				   COALESCE(avg(price), 0)             AS average_price,
				   COALESCE(sum(price), 0)             AS total_value,
				   count(*) FILTER (WHERE liked = TRUE) AS liked_items
			FROM items
			WHERE is_active = TRUE`

	var stats models.Stats
	if err := s.db.GetContext(ctx, &stats, SQL); err != nil {
		return nil, errors.Wrap(err, "failed to get item stats")
	}

	SQL = `SELECT category,
				  count(*)   AS count,
				  avg(price) AS average_price
		   FROM items
		   WHERE is_active = TRUE
		   GROUP BY category
		   ORDER BY count DESC, category ASC`

	stats.CategoryBreakdown = make([]models.CategoryStat, 0)
	if err := s.db.SelectContext(ctx, &stats.CategoryBreakdown, SQL); err != nil {
		return nil, errors.Wrap(err, "failed to get category breakdown")
	}
	return &stats, nil
}

package usecase

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"AppScanner/internal/domain"
	"AppScanner/internal/ports"
)

const defaultPageSize = 200

// ReviewOptions bound review pagination for one app.
type ReviewOptions struct {
	Max      int
	PageSize int
	Sort     ports.ReviewSort
}

// FetchReviews walks the continuation tokens until max reviews are collected, the token runs
// out, or a page comes back empty. A failing page stops pagination; the reviews gathered so far
// are returned together with that error.
func FetchReviews(ctx context.Context, store ports.AppStore, id string, opts ReviewOptions, pacer *rate.Limiter) ([]domain.Review, error) {
	if opts.Max <= 0 {
		return nil, nil
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var (
		all   []domain.Review
		token string
	)
	for page := 1; len(all) < opts.Max; page++ {
		if pacer != nil {
			if err := pacer.Wait(ctx); err != nil {
				return all, fmt.Errorf("review page %d: %w", page, err)
			}
		}

		remaining := opts.Max - len(all)
		res, err := store.Reviews(ctx, id, ports.ReviewPageRequest{
			PageSize: min(pageSize, remaining),
			Token:    token,
			Sort:     opts.Sort,
		})
		if err != nil {
			return all, fmt.Errorf("review page %d: %w", page, err)
		}

		items := res.Items
		if len(items) > remaining {
			items = items[:remaining]
		}
		all = append(all, items...)

		if res.NextToken == "" || len(res.Items) == 0 {
			break
		}
		token = res.NextToken
	}

	return all, nil
}

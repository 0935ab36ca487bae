package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"broker/internal/models"
	"broker/internal/repository"
)

const (
	RangeDay   = "1d"
	RangeWeek  = "1w"
	RangeMonth = "1m"
	RangeYear  = "1y"
)

// ValuePoint is one point of a user's historical portfolio value.
type ValuePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// HistoryService serves time-bucketed portfolio value series from the
// snapshot log. Short ranges return raw points; the 1y range averages per
// UTC calendar day to bound response size. No interpolation or gap-filling
// is done; an empty window yields an empty series.
type HistoryService struct {
	Repo repository.Repository
}

func (s *HistoryService) Series(ctx context.Context, userID, rng string) ([]ValuePoint, error) {
	now := time.Now().UTC()
	since, bucketed := rangeWindow(now, rng)
	snaps, err := s.Repo.ListSnapshotsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	if bucketed {
		return bucketDailyMean(snaps), nil
	}
	points := make([]ValuePoint, 0, len(snaps))
	for _, snap := range snaps {
		points = append(points, ValuePoint{
			Timestamp: snap.CreatedAt.UTC(),
			Value:     snap.Value.InexactFloat64(),
		})
	}
	return points, nil
}

// rangeWindow maps a range key to its window start and whether the result
// is daily-bucketed. Unrecognized keys fall back to the 1d behavior.
func rangeWindow(now time.Time, rng string) (time.Time, bool) {
	switch rng {
	case RangeWeek:
		return now.AddDate(0, 0, -7), false
	case RangeMonth:
		return now.AddDate(0, -1, 0), false
	case RangeYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), false
	}
}

// bucketDailyMean collapses snapshots to one point per UTC calendar day,
// holding the arithmetic mean of that day's values, ascending by day.
// Input is assumed ascending by time (the store's read order).
func bucketDailyMean(snaps []models.PortfolioSnapshot) []ValuePoint {
	points := make([]ValuePoint, 0, len(snaps))
	var (
		day   time.Time
		sum   decimal.Decimal
		count int64
	)
	flush := func() {
		if count == 0 {
			return
		}
		points = append(points, ValuePoint{
			Timestamp: day,
			Value:     sum.Div(decimal.NewFromInt(count)).InexactFloat64(),
		})
	}
	for _, snap := range snaps {
		d := snap.CreatedAt.UTC().Truncate(24 * time.Hour)
		if count > 0 && !d.Equal(day) {
			flush()
			sum = decimal.Zero
			count = 0
		}
		day = d
		sum = sum.Add(snap.Value)
		count++
	}
	flush()
	return points
}

package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/omnii-ai/omnigraph/pkg/gateway"
	"github.com/omnii-ai/omnigraph/pkg/types"
)

// ErrUnknownTimeRange is returned for phrases outside the enumeration.
var ErrUnknownTimeRange = errors.New("unknown time range")

// TimeRangePhrases enumerates the accepted relative-time phrases.
var TimeRangePhrases = []string{
	"today",
	"yesterday",
	"this week",
	"last week",
	"this month",
	"last month",
	"this year",
	"last year",
}

// TimeRangeCutoff maps a relative-time phrase to the start of its trailing
// window ending at now. "this week" and "last week" intentionally share the
// same 7-day trailing window, and month/year phrases likewise share a
// 1-month/1-year trailing duration; the windows are not calendar-aligned.
func TimeRangeCutoff(phrase string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(phrase)) {
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	case "yesterday":
		y, m, d := now.AddDate(0, 0, -1).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	case "this week", "last week":
		return now.AddDate(0, 0, -7), nil
	case "this month", "last month":
		return now.AddDate(0, -1, 0), nil
	case "this year", "last year":
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q (valid phrases: %s)",
			ErrUnknownTimeRange, phrase, strings.Join(TimeRangePhrases, ", "))
	}
}

// ValidTimeRange reports whether phrase is in the accepted enumeration.
func ValidTimeRange(phrase string) bool {
	_, err := TimeRangeCutoff(phrase, time.Now())
	return err == nil
}

// filterByTime keeps only results whose node was created, or whose event
// starts, within the phrase's window. Order is preserved. A gateway failure
// fails open: the unfiltered results are returned rather than losing the
// whole search.
func (s *Searcher) filterByTime(ctx context.Context, tenantID string, results []types.DualChannelResult, phrase string) []types.DualChannelResult {
	if len(results) == 0 {
		return results
	}

	cutoff, err := TimeRangeCutoff(phrase, time.Now())
	if err != nil {
		// Phrase validity is checked before any I/O; reaching this
		// branch means a programming error upstream. Fail open.
		s.logger.Warn("temporal filter skipped", "error", err)
		return results
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}

	res, err := s.gw.Execute(ctx, `
	MATCH (n)
	WHERE n.tenantId = $tenantId AND n.id IN $ids
	  AND (n.createdAt >= datetime($cutoff) OR n.startTime >= datetime($cutoff))
	RETURN n.id AS id`, map[string]interface{}{
		"tenantId": tenantID,
		"ids":      ids,
		"cutoff":   cutoff.UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Warn("temporal filter failed, returning unfiltered results", "error", err)
		return results
	}

	keep := make(map[string]struct{}, len(res.Rows))
	idIdx := res.Index("id")
	for _, row := range res.Rows {
		if id := valueAt(row, idIdx, gateway.AsString); id != "" {
			keep[id] = struct{}{}
		}
	}

	filtered := make([]types.DualChannelResult, 0, len(results))
	for _, r := range results {
		if _, ok := keep[r.ID]; ok {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

package wanikani

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// SubjectSource selects which collection resolves recently-studied
// subjects. The two sources are interchangeable: they differ only in the
// collection queried, and both collapse their records into a set of
// subject IDs. Exactly one source is used per resolution.
type SubjectSource string

const (
	// SourceAssignments resolves via /assignments (the default).
	SourceAssignments SubjectSource = "assignments"
	// SourceReviews resolves via /reviews.
	SourceReviews SubjectSource = "reviews"
)

// activityRecord is the nested payload shared by review and assignment
// records; only the subject reference matters here.
type activityRecord struct {
	Data struct {
		SubjectID int64  `json:"subject_id"`
		UpdatedAt string `json:"updated_at"`
	} `json:"data"`
}

// sinceParam formats a cutoff for updated_after: UTC, truncated to whole
// seconds, with an explicit Z offset.
func sinceParam(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// RecentSubjectIDs returns the distinct subject IDs touched since the
// cutoff according to src. Duplicates across pages are expected and merged
// silently. A 5xx or timeout from the source endpoint surfaces as
// ErrEndpointDown.
//
// updated_after filtering is done server-side; records are not re-checked
// against the cutoff here.
func (c *Client) RecentSubjectIDs(ctx context.Context, since time.Time, src SubjectSource) (map[int64]struct{}, error) {
	start := fmt.Sprintf("%s/%s?updated_after=%s", c.baseURL, src, url.QueryEscape(sinceParam(since)))

	ids := make(map[int64]struct{})
	p := c.pager(start)
	for p.Next(ctx) {
		var rec activityRecord
		if err := json.Unmarshal(p.Record(), &rec); err != nil {
			return nil, fmt.Errorf("wanikani: failed to parse %s record: %w", src, err)
		}
		ids[rec.Data.SubjectID] = struct{}{}
	}
	if err := p.Err(); err != nil {
		return nil, err
	}

	c.logger.Debug("resolved recent subjects",
		zap.String("source", string(src)),
		zap.String("since", sinceParam(since)),
		zap.Int("subjects", len(ids)))
	return ids, nil
}

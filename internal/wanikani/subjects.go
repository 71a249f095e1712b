package wanikani

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// objectVocabulary is the kind tag on vocabulary subjects. Other kinds
// (kanji, radical, kana_vocabulary) are filtered out.
const objectVocabulary = "vocabulary"

// subjectRecord mirrors one entry of a subjects page.
type subjectRecord struct {
	ID     int64  `json:"id"`
	Object string `json:"object"`
	Data   struct {
		Slug string `json:"slug"`
	} `json:"data"`
}

// VocabularySlugs fetches subject metadata for ids in batches of at most
// 1000 (the API's IDs-per-request cap) and returns the slugs of
// vocabulary-kind subjects: deduplicated case-sensitively, sorted
// case-insensitively with byte order breaking ties.
//
// There is no batch-level failure isolation. If any batch fails the whole
// lookup fails; no partial list is ever returned.
func (c *Client) VocabularySlugs(ctx context.Context, ids map[int64]struct{}) ([]string, error) {
	// Set iteration order is randomized; sort so batch composition is
	// deterministic within a run.
	ordered := make([]int64, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	slices.Sort(ordered)

	seen := make(map[string]struct{})
	var slugs []string
	batches := 0
	for start := 0; start < len(ordered); start += batchSize {
		batch := ordered[start:min(start+batchSize, len(ordered))]
		batches++

		parts := make([]string, len(batch))
		for i, id := range batch {
			parts[i] = strconv.FormatInt(id, 10)
		}
		pageURL := fmt.Sprintf("%s/subjects?ids=%s", c.baseURL, strings.Join(parts, ","))

		p := c.pager(pageURL)
		for p.Next(ctx) {
			var subj subjectRecord
			if err := json.Unmarshal(p.Record(), &subj); err != nil {
				return nil, fmt.Errorf("wanikani: failed to parse subject record: %w", err)
			}
			if subj.Object != objectVocabulary {
				continue
			}
			if _, dup := seen[subj.Data.Slug]; dup {
				continue
			}
			seen[subj.Data.Slug] = struct{}{}
			slugs = append(slugs, subj.Data.Slug)
		}
		if err := p.Err(); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(slugs, func(a, b string) int {
		if by := strings.Compare(strings.ToLower(a), strings.ToLower(b)); by != 0 {
			return by
		}
		return strings.Compare(a, b)
	})

	c.logger.Debug("looked up vocabulary subjects",
		zap.Int("ids", len(ordered)),
		zap.Int("batches", batches),
		zap.Int("terms", len(slugs)))
	return slugs, nil
}

package wanikani

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RecentVocabulary returns the vocabulary studied in the last minutes,
// ordered case-insensitively without duplicates. Three failure conditions
// stay distinct for the caller: ErrEndpointDown (resolution endpoint 5xx
// or timeout), ErrNoActivity (nothing studied in the window), and
// ErrNoVocabulary (activity existed but held no vocabulary subjects).
func (c *Client) RecentVocabulary(ctx context.Context, minutes int) ([]string, error) {
	return c.RecentVocabularyFrom(ctx, minutes, SourceAssignments)
}

// RecentVocabularyFrom is RecentVocabulary with an explicit resolution
// source. Exactly one source is consulted; they are never combined.
func (c *Client) RecentVocabularyFrom(ctx context.Context, minutes int, src SubjectSource) ([]string, error) {
	since := time.Now().Add(-time.Duration(minutes) * time.Minute)

	ids, err := c.RecentSubjectIDs(ctx, since, src)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoActivity
	}

	terms, err := c.VocabularySlugs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, ErrNoVocabulary
	}

	c.logger.Info("aggregated recent vocabulary",
		zap.Int("minutes", minutes),
		zap.Int("subjects", len(ids)),
		zap.Int("terms", len(terms)))
	return terms, nil
}

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanicoach/internal/wanikani"
)

func TestWriteTerms_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, writeTerms([]string{"inu", "neko"}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "inu\nneko", string(data))
}

func TestWriteTerms_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.csv")
	require.NoError(t, writeTerms([]string{"inu", "neko"}, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"vocabulary"}, {"inu"}, {"neko"}}, rows)
}

func TestSubjectSource(t *testing.T) {
	tests := []struct {
		in      string
		want    wanikani.SubjectSource
		wantErr bool
	}{
		{in: "assignments", want: wanikani.SourceAssignments},
		{in: "reviews", want: wanikani.SourceReviews},
		{in: "lessons", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("source=%q", tt.in), func(t *testing.T) {
			got, err := subjectSource(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregationNotice_ConditionSpecificMessages(t *testing.T) {
	notices := map[error]string{
		wanikani.ErrEndpointDown:  "Reviews endpoint down",
		wanikani.ErrNoActivity:    "No recent reviews found",
		wanikani.ErrNoVocabulary:  "No vocabulary among those reviews",
		wanikani.ErrMissingToken:  "API token required",
		errors.New("parse failed"): "Vocabulary lookup failed",
	}
	seen := make(map[string]bool)
	for err, want := range notices {
		assert.Equal(t, want, aggregationNotice(fmt.Errorf("wrapped: %w", err)))
		seen[want] = true
	}
	// Every condition keeps a distinct message; collapsing them would be
	// a regression.
	assert.Len(t, seen, len(notices))
}

package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wanicoach/internal/wanikani"
)

var (
	vocabMinutes int
	vocabOut     string
	vocabSource  string
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Dump recently-studied vocabulary",
	Long: `Lists the vocabulary studied in the last N minutes, one term per line,
sorted case-insensitively without duplicates.

With --out the list is written to a file instead of stdout; a .csv
extension selects CSV output with a header row.`,
	RunE: runVocab,
}

func init() {
	vocabCmd.Flags().IntVarP(&vocabMinutes, "minutes", "m", 0, "Look back this many minutes (default from config)")
	vocabCmd.Flags().StringVarP(&vocabOut, "out", "o", "", "Output file (.txt or .csv). Omit for stdout")
	vocabCmd.Flags().StringVar(&vocabSource, "source", string(wanikani.SourceAssignments), "Resolution source: assignments or reviews")
}

func runVocab(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateWaniKani(); err != nil {
		return err
	}

	minutes := vocabMinutes
	if minutes <= 0 {
		minutes = cfg.WaniKani.Minutes
	}

	src, err := subjectSource(vocabSource)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	clientCfg := wanikani.DefaultConfig(cfg.WaniKani.APIToken)
	clientCfg.BaseURL = cfg.WaniKani.BaseURL
	clientCfg.Timeout = cfg.GetRequestTimeout()
	clientCfg.Logger = logger
	client, err := wanikani.NewClient(clientCfg)
	if err != nil {
		return err
	}

	terms, err := client.RecentVocabularyFrom(ctx, minutes, src)
	if err != nil {
		return fmt.Errorf("%s: %w", aggregationNotice(err), err)
	}

	if err := writeTerms(terms, vocabOut); err != nil {
		return err
	}
	if vocabOut != "" {
		logger.Info("wrote vocabulary list",
			zap.Int("terms", len(terms)),
			zap.String("path", vocabOut))
	}
	return nil
}

func subjectSource(s string) (wanikani.SubjectSource, error) {
	switch wanikani.SubjectSource(s) {
	case wanikani.SourceAssignments:
		return wanikani.SourceAssignments, nil
	case wanikani.SourceReviews:
		return wanikani.SourceReviews, nil
	default:
		return "", fmt.Errorf("invalid source %q (valid: assignments, reviews)", s)
	}
}

// aggregationNotice maps each aggregation failure condition to its
// user-facing message. The conditions stay distinguishable on purpose.
func aggregationNotice(err error) string {
	switch {
	case errors.Is(err, wanikani.ErrEndpointDown):
		return "Reviews endpoint down"
	case errors.Is(err, wanikani.ErrNoActivity):
		return "No recent reviews found"
	case errors.Is(err, wanikani.ErrNoVocabulary):
		return "No vocabulary among those reviews"
	case errors.Is(err, wanikani.ErrMissingToken):
		return "API token required"
	default:
		return "Vocabulary lookup failed"
	}
}

// writeTerms dumps terms to stdout or to path; a .csv extension selects
// CSV with a vocabulary header row, anything else newline-joined text.
func writeTerms(terms []string, path string) error {
	if path == "" {
		fmt.Println(strings.Join(terms, "\n"))
		return nil
	}

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		rows := make([][]string, 0, len(terms)+1)
		rows = append(rows, []string{"vocabulary"})
		for _, term := range terms {
			rows = append(rows, []string{term})
		}
		if err := w.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}

	if err := os.WriteFile(path, []byte(strings.Join(terms, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

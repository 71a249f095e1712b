package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wanicoach/internal/config"
	"wanicoach/internal/gemini"
	"wanicoach/internal/stream"
	"wanicoach/internal/wanikani"
)

// coachPrompt is the fixed critique instruction prepended to the user's
// sentences.
const coachPrompt = "Here are sentences I wrote for words in Japanese, can you nitpick what I did wrong and provide an example sentence of the correct usage and grammar?"

var (
	coachMinutes int
	coachInput   string
	coachModel   string
	coachRender  bool
)

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Stream a Gemini critique of your practice sentences",
	Long: `Pulls the vocabulary studied in the last N minutes, reads your practice
sentences from --input or stdin (falling back to the vocabulary list
itself), and streams Gemini's critique. The model's reasoning appears as a
dimmed "thinking" feed on stderr and collapses to a one-line summary when
the answer starts; the answer itself streams to stdout.

A vocabulary lookup failure never aborts the session: the sentence input
simply starts empty and a notice is printed.`,
	RunE: runCoach,
}

func init() {
	coachCmd.Flags().IntVarP(&coachMinutes, "minutes", "m", 1440, "Look back this many minutes for studied vocabulary")
	coachCmd.Flags().StringVarP(&coachInput, "input", "i", "", "File with practice sentences (default: stdin, then the vocab list)")
	coachCmd.Flags().StringVar(&coachModel, "model", "", "Generation model override")
	coachCmd.Flags().BoolVar(&coachRender, "render", false, "Re-render the finished answer as markdown")
}

func runCoach(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateGemini(); err != nil {
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

	terms := recentTerms(ctx, cfg)
	if len(terms) > 0 {
		fmt.Fprintln(os.Stderr, vocabBanner(terms))
	}

	sentences, err := readSentences(coachInput, os.Stdin, terms)
	if err != nil {
		return err
	}
	if strings.TrimSpace(sentences) == "" {
		return errors.New("nothing to critique: no sentences supplied and no recent vocabulary found")
	}

	model := coachModel
	if model == "" {
		model = cfg.Gemini.Model
	}
	genCfg := gemini.DefaultConfig(cfg.Gemini.APIKey)
	genCfg.Model = model
	genCfg.Temperature = cfg.Gemini.Temperature
	genCfg.MaxOutputTokens = cfg.Gemini.MaxOutputTokens
	genCfg.Logger = logger
	gen, err := gemini.NewClient(ctx, genCfg)
	if err != nil {
		return err
	}

	prompt := coachPrompt + "\n" + sentences
	logger.Debug("sending prompt", zap.String("model", model), zap.Int("prompt_len", len(prompt)))

	panel := newThoughtPanel(os.Stderr)
	mux := stream.NewMultiplexer(stream.Callbacks{
		OnThoughtUpdate: panel.Update,
		OnFoldThoughts:  panel.Fold,
	})

	frags, genErrs := gen.GenerateFragments(ctx, prompt)
	increments, muxErrs := stream.Pump(ctx, mux, frags, genErrs)

	for inc := range increments {
		fmt.Print(inc)
	}
	fmt.Println()
	if err := <-muxErrs; err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	logger.Debug("generation complete",
		zap.Int("answer_len", len(mux.Answer())),
		zap.Int("thoughts_len", len(mux.Thoughts())))

	if coachRender {
		return renderMarkdown(os.Stdout, mux.Answer())
	}
	return nil
}

// recentTerms runs the vocabulary aggregation. Any failure degrades to an
// empty list with a condition-specific notice; the coaching session keeps
// working either way.
func recentTerms(ctx context.Context, cfg *config.Config) []string {
	if err := cfg.ValidateWaniKani(); err != nil {
		fmt.Fprintln(os.Stderr, noticeStyle.Render(err.Error()))
		return nil
	}

	clientCfg := wanikani.DefaultConfig(cfg.WaniKani.APIToken)
	clientCfg.BaseURL = cfg.WaniKani.BaseURL
	clientCfg.Timeout = cfg.GetRequestTimeout()
	clientCfg.Logger = logger
	client, err := wanikani.NewClient(clientCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, noticeStyle.Render(aggregationNotice(err)))
		return nil
	}

	terms, err := client.RecentVocabulary(ctx, coachMinutes)
	if err != nil {
		logger.Warn("vocabulary aggregation failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, noticeStyle.Render(aggregationNotice(err)))
		return nil
	}
	return terms
}

// vocabBanner renders the studied terms with their dictionary links, the
// way the review site presents them.
func vocabBanner(terms []string) string {
	links := make([]string, len(terms))
	for i, term := range terms {
		links[i] = fmt.Sprintf("%s (https://wanikani.com/vocabulary/%s)", term, term)
	}
	return bannerStyle.Render("Recent vocabulary: " + strings.Join(links, "、　"))
}

// readSentences resolves the critique input: an explicit file wins, then
// piped stdin, then the vocabulary list itself (terms separated by blank
// lines, mirroring the editable prefill of the original page).
func readSentences(path string, stdin *os.File, terms []string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}
	if stdin != nil && !isatty.IsTerminal(stdin.Fd()) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), nil
		}
	}
	return strings.Join(terms, "\n\n\n"), nil
}

// renderMarkdown pretty-prints the finished answer.
func renderMarkdown(w io.Writer, answer string) error {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}
	out, err := renderer.Render(answer)
	if err != nil {
		return fmt.Errorf("failed to render answer: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/baditaflorin/l"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_edit_similarity/pkg/revision"
)

type scoreOptions struct {
	base        string
	revised     string
	baseFile    string
	revisedFile string
	threshold   float64
	precision   int
	normalizer  string
	output      string
	showDiff    bool
	verbose     bool
	timeout     time.Duration
}

// jsonOutput is the machine readable form of a review.
type jsonOutput struct {
	Ratio         float64            `json:"ratio"`
	Percent       float64            `json:"percent"`
	Distance      int                `json:"distance"`
	BaseLength    int                `json:"base_length"`
	RevisedLength int                `json:"revised_length"`
	Flagged       bool               `json:"flagged"`
	Threshold     float64            `json:"threshold"`
	Segments      []revision.Segment `json:"segments,omitempty"`
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "editsim",
		Short:        "Measure how much a draft was revised",
		SilenceUsage: true,
	}
	root.AddCommand(newScoreCommand())
	return root
}

func newScoreCommand() *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a revised text against its base draft",
		Example: `  editsim score --base "kitten" --revised "sitting"
  editsim score --base-file draft.txt --revised-file final.txt --diff
  editsim score --base-file draft.txt --revised-file final.txt --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd.Context(), opts, cmd.Flags().Changed("base"), cmd.Flags().Changed("revised"), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.base, "base", "", "Base (generated) text")
	flags.StringVar(&opts.revised, "revised", "", "Revised (operator-edited) text")
	flags.StringVar(&opts.baseFile, "base-file", "", "Path to the base text")
	flags.StringVar(&opts.revisedFile, "revised-file", "", "Path to the revised text")
	flags.Float64Var(&opts.threshold, "threshold", 0.35, "Ratio at or above which the revision is flagged")
	flags.IntVar(&opts.precision, "precision", 3, "Decimals kept in the ratio")
	flags.StringVar(&opts.normalizer, "normalizer", "none", "Text normalization: none, nfc or nfkc")
	flags.StringVar(&opts.output, "output", "text", "Output format: text or json")
	flags.BoolVar(&opts.showDiff, "diff", false, "Show the changes between the texts")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log computation steps to stderr")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Computation timeout")
	return cmd
}

func runScore(ctx context.Context, opts *scoreOptions, baseSet, revisedSet bool, stdout, stderr io.Writer) error {
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("invalid output format %q: must be text or json", opts.output)
	}

	base, revised, err := loadInputs(opts, baseSet, revisedSet)
	if err != nil {
		return err
	}

	logOutput := io.Discard
	if opts.verbose {
		logOutput = stderr
	}
	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:     logOutput,
		JsonFormat: false,
		BufferSize: 64 * 1024,
		AddSource:  false,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Close()

	scorer, err := revision.New(
		revision.WithLogger(logger),
		revision.WithThreshold(opts.threshold),
		revision.WithPrecision(opts.precision),
		revision.WithNormalizerName(opts.normalizer),
	)
	if err != nil {
		return err
	}
	defer scorer.Close()

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	review := scorer.Review(ctx, base, revised)
	if review.Cancelled() {
		return errors.New("computation cancelled")
	}

	if opts.output == "json" {
		out := jsonOutput{
			Ratio:         review.Ratio,
			Percent:       review.Percent,
			Distance:      review.Distance,
			BaseLength:    review.BaseLength,
			RevisedLength: review.RevisedLength,
			Flagged:       review.Flagged,
			Threshold:     review.Threshold,
		}
		if opts.showDiff {
			out.Segments = review.Diff.Segments
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	writeText(stdout, review, opts.showDiff)
	return nil
}

// loadInputs prefers files over inline text. Empty inline text is valid
// input as long as the flag was given.
func loadInputs(opts *scoreOptions, baseSet, revisedSet bool) (string, string, error) {
	base, err := pick(opts.baseFile, opts.base, baseSet, "base")
	if err != nil {
		return "", "", err
	}
	revised, err := pick(opts.revisedFile, opts.revised, revisedSet, "revised")
	if err != nil {
		return "", "", err
	}
	return base, revised, nil
}

func pick(path, inline string, inlineSet bool, name string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s file: %w", name, err)
		}
		return string(data), nil
	}
	if !inlineSet {
		return "", fmt.Errorf("either --%s or --%s-file is required", name, name)
	}
	return inline, nil
}

var (
	inserted = color.New(color.FgGreen, color.Underline).SprintFunc()
	deleted  = color.New(color.FgRed, color.CrossedOut).SprintFunc()
	flagged  = color.New(color.FgYellow, color.Bold).SprintFunc()
)

func writeText(w io.Writer, review revision.Review, showDiff bool) {
	fmt.Fprintf(w, "Edit ratio: %.1f%% (distance %d, %d -> %d code points)\n",
		review.Percent, review.Distance, review.BaseLength, review.RevisedLength)
	if review.Flagged {
		fmt.Fprintf(w, "%s ratio reached threshold %.2f\n", flagged("FLAGGED:"), review.Threshold)
	} else {
		fmt.Fprintf(w, "Below threshold %.2f\n", review.Threshold)
	}

	if !showDiff {
		return
	}
	var sb strings.Builder
	for _, seg := range review.Diff.Segments {
		switch seg.Op {
		case revision.OpInsert:
			sb.WriteString(inserted("[+" + seg.Text + "]"))
		case revision.OpDelete:
			sb.WriteString(deleted("[-" + seg.Text + "]"))
		default:
			sb.WriteString(seg.Text)
		}
	}
	fmt.Fprintf(w, "\n%s\n", sb.String())
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkling/vitrail/pkg/glass/sink"
	"github.com/mkling/vitrail/pkg/pipeline"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	output     string
	width      int
	height     int
	seed       uint64
	text       string
	sentiment  string
	template   string
	previewDim int
}

// previewCommand creates the preview command for fast bounded-resolution output.
// Previews regenerate the scene at preview scale, so fine detail can differ
// from the full render; the overall composition matches.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{
		width:      pipeline.DefaultWidth,
		height:     pipeline.DefaultHeight,
		seed:       pipeline.DefaultSeed,
		previewDim: pipeline.DefaultPreviewDim,
	}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a fast low-resolution preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default vitrail_<seed>_preview.png)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "target image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "target image height in pixels")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "generation seed")
	cmd.Flags().StringVar(&opts.text, "text", "", "text to analyze for sentiment seeding")
	cmd.Flags().StringVar(&opts.sentiment, "sentiment", "", "explicit sentiment as \"valence,arousal,focus\"")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "parameter template file (TOML)")
	cmd.Flags().IntVar(&opts.previewDim, "dim", opts.previewDim, "maximum preview dimension")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts *previewOpts) error {
	pOpts := pipeline.Options{
		Width:        opts.width,
		Height:       opts.height,
		Seed:         opts.seed,
		Text:         opts.text,
		TemplatePath: opts.template,
		PreviewDim:   opts.previewDim,
		Provider:     pipeline.LexiconProvider{},
	}
	if opts.sentiment != "" {
		vec, err := parseSentiment(opts.sentiment)
		if err != nil {
			return err
		}
		pOpts.Sentiment = &vec
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	defer runner.Close()

	tracker := newProgress(c.Logger)
	scene, err := runner.Generate(ctx, pOpts)
	if err != nil {
		return err
	}
	img, err := runner.Preview(ctx, scene, pOpts)
	if err != nil {
		return err
	}
	tracker.done(fmt.Sprintf("Rendered %dx%d preview", img.Bounds().Dx(), img.Bounds().Dy()))

	output := opts.output
	if output == "" {
		output = fmt.Sprintf("vitrail_%d_preview.png", opts.seed)
	}
	if err := sink.WritePNG(output, img); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Preview ready (seed %d)", opts.seed)
	printStats(scene.Shapes.Count(), scene.Regions(), false)
	printFile(output)
	printNextStep("Full render", fmt.Sprintf("vitrail generate --seed %d --width %d --height %d", opts.seed, opts.width, opts.height))
	return nil
}

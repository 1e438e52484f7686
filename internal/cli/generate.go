package cli

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mkling/vitrail/pkg/glass/param"
	"github.com/mkling/vitrail/pkg/glass/sink"
	"github.com/mkling/vitrail/pkg/glass/tile"
	"github.com/mkling/vitrail/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output     string // output file path
	width      int    // canvas width in pixels
	height     int    // canvas height in pixels
	seed       uint64 // generation seed
	text       string // free text analyzed for sentiment
	sentiment  string // explicit sentiment as "valence,arousal,focus"
	template   string // parameter template file (TOML)
	maxTileDim int    // per-tile surface bound
	workers    int    // parallel tile workers (0 = GOMAXPROCS)
	thumbDim   int    // write a thumbnail bounded by this dimension (0 = off)
	refresh    bool   // bypass the artifact cache
	noCache    bool   // disable caching entirely
	progressUI bool   // show the live tile progress view
}

// generateCommand creates the generate command for full-resolution output.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{
		width:  pipeline.DefaultWidth,
		height: pipeline.DefaultHeight,
		seed:   pipeline.DefaultSeed,
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a stained-glass PNG",
		Long: `Generate a full-resolution stained-glass image.

The same seed, dimensions, sentiment, and template always produce the same
image. Sentiment can be given explicitly with --sentiment "v,a,f" (each in
[0,1]) or derived from free text with --text; with neither, neutral values
are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default vitrail_<seed>.png)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "image height in pixels")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "generation seed")
	cmd.Flags().StringVar(&opts.text, "text", "", "text to analyze for sentiment seeding")
	cmd.Flags().StringVar(&opts.sentiment, "sentiment", "", "explicit sentiment as \"valence,arousal,focus\"")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "parameter template file (TOML)")
	cmd.Flags().IntVar(&opts.maxTileDim, "max-tile-dim", 0, "maximum tile dimension for large renders")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel tile workers (default GOMAXPROCS)")
	cmd.Flags().IntVar(&opts.thumbDim, "thumb", 0, "also write a thumbnail bounded by this dimension")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even if cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.progressUI, "progress", false, "show live tile progress")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts *generateOpts) error {
	pOpts, err := opts.pipelineOptions()
	if err != nil {
		return err
	}
	pOpts.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	defer runner.Close()

	var result *pipeline.Result
	if opts.progressUI {
		result, err = executeWithProgress(ctx, runner, pOpts)
	} else {
		result, err = executeWithSpinner(ctx, runner, pOpts)
	}
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = fmt.Sprintf("vitrail_%d.png", opts.seed)
	}
	if err := sink.WriteFile(output, result.PNG); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Generated %dx%d image (seed %d)", opts.width, opts.height, opts.seed)
	if result.Scene != nil {
		printStats(result.Stats.Shapes, result.Stats.Regions, result.CacheInfo.ArtifactHit)
	} else {
		printStats(0, 0, result.CacheInfo.ArtifactHit)
	}
	printFile(output)

	if opts.thumbDim > 0 {
		var img image.Image = result.Image
		if result.Image == nil {
			decoded, err := sink.DecodePNG(result.PNG)
			if err != nil {
				return fmt.Errorf("decode cached artifact: %w", err)
			}
			img = decoded
		}
		thumbPath := thumbnailPath(output)
		if err := sink.WriteThumbnail(thumbPath, img, opts.thumbDim); err != nil {
			printWarning("Thumbnail not written: %v", err)
		} else {
			printFile(thumbPath)
		}
	}

	return nil
}

// pipelineOptions converts CLI flags into pipeline options.
func (o *generateOpts) pipelineOptions() (pipeline.Options, error) {
	opts := pipeline.Options{
		Width:        o.width,
		Height:       o.height,
		Seed:         o.seed,
		Text:         o.text,
		TemplatePath: o.template,
		MaxTileDim:   o.maxTileDim,
		Workers:      o.workers,
		Refresh:      o.refresh,
		Provider:     pipeline.LexiconProvider{},
	}
	if o.sentiment != "" {
		vec, err := parseSentiment(o.sentiment)
		if err != nil {
			return opts, err
		}
		opts.Sentiment = &vec
	}
	return opts, nil
}

// parseSentiment parses "valence,arousal,focus" with each value in [0,1].
func parseSentiment(s string) (param.SentimentVector, error) {
	var vec param.SentimentVector
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return vec, fmt.Errorf("invalid sentiment %q (want \"valence,arousal,focus\")", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return vec, fmt.Errorf("invalid sentiment component %q: %w", p, err)
		}
		if v < 0 || v > 1 {
			return vec, fmt.Errorf("sentiment component %v out of range [0,1]", v)
		}
		vals[i] = v
	}
	vec.Valence, vec.Arousal, vec.Focus = vals[0], vals[1], vals[2]
	return vec, nil
}

// thumbnailPath derives the thumbnail path from the output path.
func thumbnailPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "_thumb" + ext
}

// executeWithSpinner runs the pipeline behind a spinner that tracks tile progress.
func executeWithSpinner(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	s := newSpinnerWithContext(ctx, "Generating...")
	opts.OnTile = func(done, total int, _ tile.Descriptor) {
		if total > 1 {
			s.SetMessage(fmt.Sprintf("Rendering tile %d/%d...", done, total))
		}
	}
	s.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		s.StopWithError(fmt.Sprintf("Generation failed: %v", err))
		return nil, err
	}
	s.Stop()
	return result, nil
}

// executeWithProgress runs the pipeline behind the live tile progress view.
func executeWithProgress(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewTileProgressModel("Generating stained glass"))
	opts.OnTile = func(done, total int, d tile.Descriptor) {
		p.Send(tileMsg{done: done, total: total, desc: d})
	}

	type outcome struct {
		result *pipeline.Result
		err    error
	}
	resCh := make(chan outcome, 1)
	go func() {
		result, err := runner.Execute(ctx, opts)
		resCh <- outcome{result, err}
		p.Send(renderDoneMsg{err: err})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-resCh
		return nil, fmt.Errorf("progress view: %w", err)
	}
	if m, ok := final.(TileProgressModel); ok && m.Cancelled {
		cancel()
		<-resCh
		return nil, context.Canceled
	}

	out := <-resCh
	return out.result, out.err
}

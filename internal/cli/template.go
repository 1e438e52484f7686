package cli

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkling/vitrail/pkg/glass/param"
)

// starterTemplate is written by "template init" as an editable starting point.
// Every field is optional; anything omitted keeps the built-in default.
const starterTemplate = `# Vitrail parameter template.
# Each value is either a plain number (constant) or a table describing a
# seeded range:
#
#   range = [lo, hi]     sampled interval
#   beta  = [a, b]       beta-distribution shape over the interval
#   couple = { dimension = "valence" | "arousal" | "focus", influence = 0..1 }
#
# Omitted fields keep the built-in defaults.

line_count = { range = [4, 14], beta = [2, 2], couple = { dimension = "arousal", influence = 0.6 } }
line_weight = { range = [6, 18], beta = [2, 3] }

circle_count = { range = [0, 6], beta = [2, 2], couple = { dimension = "focus", influence = 0.5 } }
circle_weight = { range = [6, 14], beta = [2, 3] }
radius_min = 0.06
radius_max = { range = [0.12, 0.28], beta = [2, 2] }

saturation_min = 0.45
saturation_max = { range = [0.65, 0.95], beta = [2, 2], couple = { dimension = "valence", influence = 0.8 } }
brightness_min = 0.55
brightness_max = { range = [0.75, 0.95], beta = [2, 2], couple = { dimension = "valence", influence = 0.6 } }

bleed = { range = [0.1, 0.4], beta = [2, 2] }
glow = { range = [0.1, 0.35], beta = [2, 2] }
edge_darken = { range = [0.15, 0.45], beta = [2, 2] }
texture = { range = [0.05, 0.25], beta = [2, 2], couple = { dimension = "arousal", influence = 0.4 } }
grain = 0.04

# leading_thickness 0 follows the stroke weight of the generated shapes.
leading_thickness = 0
leading_rounding = { range = [8, 28], beta = [2, 2] }
leading_brightness = 0.16
`

// templateCommand creates the template inspection command.
func (c *CLI) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect or scaffold parameter templates",
	}

	cmd.AddCommand(c.templateInitCommand())
	cmd.AddCommand(c.templateShowCommand())

	return cmd
}

// templateInitCommand creates the "template init" subcommand.
func (c *CLI) templateInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <file>",
		Short: "Write a starter template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(starterTemplate), 0644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			printSuccess("Wrote starter template")
			printFile(path)
			printNextStep("Generate with it", fmt.Sprintf("vitrail generate -t %s", path))
			return nil
		},
	}
}

// templateShowCommand creates the "template show" subcommand. It resolves the
// template once for a given seed and sentiment, which is the quickest way to
// see what a template actually produces.
func (c *CLI) templateShowCommand() *cobra.Command {
	var (
		seed      uint64
		sentiment string
	)

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Resolve a template and print the sampled parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := param.Default()
			name := "built-in"
			if len(args) == 1 {
				loaded, err := param.LoadTemplate(args[0])
				if err != nil {
					return err
				}
				t = loaded
				name = args[0]
			}

			sent := param.Neutral()
			if sentiment != "" {
				vec, err := parseSentiment(sentiment)
				if err != nil {
					return err
				}
				sent = vec
			}

			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			cfg := param.Resolve(t, sent, rng)

			fmt.Println(StyleTitle.Render("Template: " + name))
			printKeyValue("seed", fmt.Sprintf("%d", seed))
			printKeyValue("sentiment", fmt.Sprintf("v=%.2f a=%.2f f=%.2f", sent.Valence, sent.Arousal, sent.Focus))
			printKeyValue("lines", fmt.Sprintf("%d (weight %.1f)", cfg.LineCount, cfg.LineWeight))
			printKeyValue("circles", fmt.Sprintf("%d (weight %.1f, r %.2f-%.2f)", cfg.CircleCount, cfg.CircleWeight, cfg.RadiusMin, cfg.RadiusMax))
			printKeyValue("saturation", fmt.Sprintf("%.2f-%.2f", cfg.SaturationMin, cfg.SaturationMax))
			printKeyValue("brightness", fmt.Sprintf("%.2f-%.2f", cfg.BrightnessMin, cfg.BrightnessMax))
			printKeyValue("bleed", fmt.Sprintf("%.2f", cfg.Bleed))
			printKeyValue("glow", fmt.Sprintf("%.2f", cfg.Glow))
			printKeyValue("edge darken", fmt.Sprintf("%.2f", cfg.EdgeDarken))
			printKeyValue("texture", fmt.Sprintf("%.2f", cfg.Texture))
			printKeyValue("grain", fmt.Sprintf("%.2f", cfg.Grain))
			printKeyValue("leading", fmt.Sprintf("thickness %.1f, rounding %.1f, brightness %.2f", cfg.LeadingThickness, cfg.LeadingRounding, cfg.LeadingBrightness))
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 42, "resolution seed")
	cmd.Flags().StringVar(&sentiment, "sentiment", "", "sentiment as \"valence,arousal,focus\"")

	return cmd
}

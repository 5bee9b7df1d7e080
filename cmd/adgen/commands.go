package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List every creative format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeFormats(cmd.OutOrStdout())
	},
}

var guideCmd = &cobra.Command{
	Use:   "guide <format>",
	Short: "Show how a format renders its text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := formatArg(args)
		if err != nil {
			return err
		}
		c := creative.Classify(f)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", f.DisplayName(), f)
		fmt.Fprintf(out, "Roleplay: %s\n", c.Roleplay)
		fmt.Fprintf(out, "Enhancer: %s\n\n", c.Enhancer.Label())
		fmt.Fprintln(out, creative.StyleGuideFor(f).Text())
		return nil
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt <format>",
	Short: "Print the composed meta-prompt and the fallback image prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := formatArg(args)
		if err != nil {
			return err
		}
		c, err := loadCampaign()
		if err != nil {
			return err
		}

		in := c.Input(f)
		in.Angle = angle
		in.EmbeddedText = embeddedText
		in.VisualScene = visualScene
		in.VisualStyle = visualStyle
		in.AspectRatio = llm.NormalizeAspectRatio(aspectRatio)
		pc := creative.NewPromptContext(in)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "=== META-PROMPT ===")
		fmt.Fprintln(out, creative.ComposeImagePrompt(pc))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "=== FALLBACK PROMPT ===")
		fmt.Fprintln(out, creative.FallbackImagePrompt(pc))
		return nil
	},
}

var imageCmd = &cobra.Command{
	Use:   "image <format>",
	Short: "Render one creative",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := formatArg(args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		rt, c, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close(context.Background())

		req, err := creativeRequest(f, c)
		if err != nil {
			return err
		}
		res, err := rt.Studio.CreativeImage(ctx, req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Prompt:", res.Data.FinalPrompt)
		fmt.Fprintf(out, "Tokens: in=%d out=%d\n", res.InputTokens, res.OutputTokens)
		if res.Data.Image == nil {
			return fmt.Errorf("no image was rendered (run %s)", res.Data.RunID)
		}
		path, err := writeImage(outDir, res.Data.RunID, *res.Data.Image)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Saved:", path)
		return nil
	},
}

var carouselCmd = &cobra.Command{
	Use:   "carousel <format>",
	Short: "Render carousel slides",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := formatArg(args)
		if err != nil {
			return err
		}
		if slides < 1 || slides > creative.MaxSlideCount {
			return fmt.Errorf("--slides must be between 1 and %d", creative.MaxSlideCount)
		}
		ctx := cmd.Context()
		rt, c, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close(context.Background())

		req, err := creativeRequest(f, c)
		if err != nil {
			return err
		}
		res, err := rt.Studio.Carousel(ctx, req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, p := range res.Data.Prompts {
			fmt.Fprintf(out, "Slide %d: %s\n", i+1, p)
		}
		for i, img := range res.Data.Images {
			path, err := writeImage(outDir, fmt.Sprintf("%s-%d", res.Data.RunID, i+1), img)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Saved:", path)
		}
		fmt.Fprintf(out, "Rendered %d of %d slides. Tokens: in=%d out=%d\n",
			len(res.Data.Images), len(res.Data.Prompts), res.InputTokens, res.OutputTokens)
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy <format>",
	Short: "Write structured ad copy as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := formatArg(args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		rt, c, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close(context.Background())

		req, err := creativeRequest(f, c)
		if err != nil {
			return err
		}
		res, err := rt.Studio.CreativeStrategy(ctx, req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

var letterCmd = &cobra.Command{
	Use:   "letter",
	Short: "Write a long-form sales letter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, c, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close(context.Background())

		req, err := creativeRequest("", c)
		if err != nil {
			return err
		}
		res, err := rt.Studio.SalesLetter(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Data)
		return nil
	},
}

func writeFormats(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tNAME\tLOOK\tSCREEN")
	for _, f := range creative.Formats() {
		c := creative.Classify(f)
		screen := ""
		if c.DigitalUI {
			screen = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f, f.DisplayName(), c.Enhancer, screen)
	}
	return tw.Flush()
}

func writeImage(dir, name string, img llm.InlineImage) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name+extFor(img.MIMEType))
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path, nil
}

func extFor(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pro-banana-creatives/internal/app"
	"pro-banana-creatives/internal/campaign"
	"pro-banana-creatives/internal/config"
	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
	"pro-banana-creatives/internal/studio"
)

var (
	campaignPath  string
	productName   string
	country       string
	awareness     string
	tier          string
	angle         string
	embeddedText  string
	visualScene   string
	visualStyle   string
	aspectRatio   string
	referencePath string
	outDir        string
	slides        int
)

var rootCmd = &cobra.Command{
	Use:   "adgen",
	Short: "Generate native-looking ad creatives from a campaign file",
	Long: `adgen composes format-driven prompts and renders ad creatives.

Offline commands (no API key needed):
  adgen formats          List every creative format
  adgen guide <format>   Show the text-rendering guide for a format
  adgen prompt <format>  Print the composed meta-prompt and fallback prompt

Generation commands:
  adgen image <format>     Render one creative
  adgen carousel <format>  Render carousel slides
  adgen copy <format>      Write structured ad copy
  adgen letter             Write a long-form sales letter`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&campaignPath, "campaign", "c", "", "campaign YAML file (defaults to CAMPAIGN_FILE)")
	flags.StringVar(&productName, "product", "", "product name, overrides the campaign")
	flags.StringVar(&country, "country", "", "target country, overrides the campaign")
	flags.StringVar(&awareness, "awareness", "", "market awareness: unaware, problem_aware, solution_aware, product_aware, most_aware")
	flags.StringVar(&tier, "tier", "", "image tier: flash or pro")
	flags.StringVarP(&angle, "angle", "a", "", "hook or angle for the creative")
	flags.StringVarP(&embeddedText, "text", "t", "", "text that must appear in the image")
	flags.StringVar(&visualScene, "scene", "", "what the image shows")
	flags.StringVar(&visualStyle, "style", "", "camera, lighting and mood")
	flags.StringVar(&aspectRatio, "ratio", llm.AspectSquare, "aspect ratio: 1:1 or 9:16")
	flags.StringVar(&referencePath, "reference", "", "product reference image")
	flags.StringVarP(&outDir, "out", "o", ".", "directory for rendered images")

	carouselCmd.Flags().IntVar(&slides, "slides", creative.DefaultSlideCount, "number of carousel slides")

	rootCmd.AddCommand(formatsCmd, guideCmd, promptCmd, imageCmd, carouselCmd, copyCmd, letterCmd)
}

func formatArg(args []string) (creative.Format, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("format is required, see `adgen formats`")
	}
	f, ok := creative.ParseFormat(args[0])
	if !ok {
		return "", fmt.Errorf("unknown format %q, see `adgen formats`", args[0])
	}
	return f, nil
}

// loadCampaign reads the campaign without touching the network.
func loadCampaign() (campaign.Campaign, error) {
	path := strings.TrimSpace(campaignPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CAMPAIGN_FILE"))
	}

	c := campaign.Named("")
	if path != "" {
		loaded, err := campaign.LoadFile(path)
		if err != nil {
			return campaign.Campaign{}, err
		}
		c = loaded
	}
	applyOverrides(&c)
	return c, nil
}

func applyOverrides(c *campaign.Campaign) {
	if v := strings.TrimSpace(productName); v != "" {
		c.Product.Name = v
	}
	if v := strings.TrimSpace(country); v != "" {
		c.Product.Country = v
	}
	if v := strings.TrimSpace(awareness); v != "" {
		c.Product.Awareness = v
	}
	if v := strings.TrimSpace(tier); v != "" {
		c.Product.ImageTier = v
	}
}

func creativeRequest(format creative.Format, c campaign.Campaign) (studio.CreativeRequest, error) {
	req := studio.CreativeRequest{
		Format:       format,
		Campaign:     c,
		Angle:        angle,
		EmbeddedText: embeddedText,
		VisualScene:  visualScene,
		VisualStyle:  visualStyle,
		AspectRatio:  llm.NormalizeAspectRatio(aspectRatio),
		Slides:       slides,
	}
	if referencePath != "" {
		data, err := os.ReadFile(referencePath)
		if err != nil {
			return studio.CreativeRequest{}, fmt.Errorf("read reference: %w", err)
		}
		req.Reference = &llm.InlineImage{Data: data, MIMEType: http.DetectContentType(data)}
	}
	return req, nil
}

// newRuntime loads the environment config and builds the generation stack.
func newRuntime(ctx context.Context) (*app.Runtime, campaign.Campaign, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, campaign.Campaign{}, fmt.Errorf("load config: %w", err)
	}
	if campaignPath != "" {
		cfg.CampaignFile = campaignPath
	}
	if tier != "" {
		cfg.ImageTier = llm.ParseTier(tier)
	}

	rt, err := app.New(ctx, cfg, app.NewLogger(cfg, os.Stderr))
	if err != nil {
		return nil, campaign.Campaign{}, err
	}
	c := rt.Campaign
	applyOverrides(&c)
	return rt, c, nil
}

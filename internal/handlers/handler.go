package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pro-banana-creatives/internal/campaign"
	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
	"pro-banana-creatives/internal/session"
	"pro-banana-creatives/internal/studio"
	"pro-banana-creatives/internal/telegram"
)

// Messenger is the subset of the Telegram client the handler talks to.
type Messenger interface {
	SendText(chatID int64, text string) error
	SendTyping(chatID int64)
	SendTextWithKeyboard(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (int, error)
	AnswerCallback(callbackID, text string, alert bool) error
	SendPhoto(chatID int64, img llm.InlineImage, caption string) error
	SendAlbum(chatID int64, images []llm.InlineImage, caption string) error
	DownloadFile(ctx context.Context, fileID string) (llm.InlineImage, error)
}

// Generator is implemented by *studio.Studio.
type Generator interface {
	CreativeImage(ctx context.Context, req studio.CreativeRequest) (studio.Result[studio.ImageOutput], error)
	Carousel(ctx context.Context, req studio.CreativeRequest) (studio.Result[studio.CarouselOutput], error)
	CreativeStrategy(ctx context.Context, req studio.CreativeRequest) (studio.Result[creative.CreativeStrategy], error)
}

type Options struct {
	Telegram Messenger
	Studio   Generator
	Sessions *session.Store
	Campaign campaign.Campaign
	Logger   *slog.Logger
}

type Handler struct {
	tg       Messenger
	studio   Generator
	sessions *session.Store
	campaign campaign.Campaign
	logger   *slog.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewStore(session.Options{})
	}

	return &Handler{
		tg:       opts.Telegram,
		studio:   opts.Studio,
		sessions: sessions,
		campaign: opts.Campaign,
		logger:   logger,
	}
}

const helpText = "🍌 Pro Banana Creatives\n\n" +
	"Build a native-looking ad creative for %s.\n\n" +
	"/formats - pick a creative format\n" +
	"/format <tag> - set the format directly\n" +
	"/text <words> - text that must appear in the image\n" +
	"/scene <description> - what the image shows\n" +
	"/ratio <1:1|9:16> - aspect ratio\n" +
	"/creative [angle] - generate one image\n" +
	"/carousel [angle] - generate carousel slides\n" +
	"/copy [angle] - write the ad copy\n" +
	"/history - recent generations\n" +
	"/reset - start over\n\n" +
	"Send a product photo to use it as the reference image."

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil || update.Message.Chat == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, userID, msg)
	}
	if len(msg.Photo) > 0 {
		return h.handlePhoto(ctx, chatID, userID, msg)
	}
	if text := strings.TrimSpace(msg.Text); text != "" {
		h.sessions.Update(chatID, userID, func(d *session.Draft) { d.EmbeddedText = text })
		return h.tg.SendText(chatID, fmt.Sprintf("✍️ Embedded text set to %q. Use /creative to generate.", text))
	}
	return nil
}

func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		return h.tg.SendText(chatID, fmt.Sprintf(helpText, h.productName()))
	case "formats":
		return h.showFormatPicker(chatID, userID)
	case "format":
		return h.setFormat(chatID, userID, args)
	case "text":
		h.sessions.Update(chatID, userID, func(d *session.Draft) { d.EmbeddedText = args })
		if args == "" {
			return h.tg.SendText(chatID, "✅ Embedded text cleared.")
		}
		return h.tg.SendText(chatID, fmt.Sprintf("✅ Embedded text: %q", args))
	case "scene":
		h.sessions.Update(chatID, userID, func(d *session.Draft) { d.VisualScene = args })
		if args == "" {
			return h.tg.SendText(chatID, "✅ Scene cleared.")
		}
		return h.tg.SendText(chatID, "✅ Scene: "+args)
	case "ratio":
		ratio := llm.NormalizeAspectRatio(args)
		h.sessions.Update(chatID, userID, func(d *session.Draft) { d.AspectRatio = ratio })
		return h.tg.SendText(chatID, "✅ Aspect ratio: "+ratio)
	case "creative":
		return h.withChatLock(chatID, userID, func() error { return h.generateImage(ctx, chatID, userID, args) })
	case "carousel":
		return h.withChatLock(chatID, userID, func() error { return h.generateCarousel(ctx, chatID, userID, args) })
	case "copy":
		return h.withChatLock(chatID, userID, func() error { return h.generateCopy(ctx, chatID, userID, args) })
	case "history":
		return h.tg.SendText(chatID, renderHistory(h.sessions.History(chatID, userID)))
	case "reset":
		h.sessions.Reset(chatID, userID)
		return h.tg.SendText(chatID, "✅ Draft and history cleared.")
	default:
		return h.tg.SendText(chatID, "❌ Unknown command. Try /help.")
	}
}

func (h *Handler) setFormat(chatID, userID int64, raw string) error {
	if raw == "" {
		return h.showFormatPicker(chatID, userID)
	}
	format, ok := creative.ParseFormat(raw)
	if !ok {
		return h.tg.SendText(chatID, fmt.Sprintf("❌ Unknown format %q. Use /formats to see the list.", raw))
	}
	h.sessions.Update(chatID, userID, func(d *session.Draft) { d.Format = format })
	return h.tg.SendText(chatID, describeFormat(format))
}

func (h *Handler) withChatLock(chatID, userID int64, fn func() error) error {
	if !h.sessions.TryAcquire(chatID, userID) {
		return h.tg.SendText(chatID, "⏳ Still working on your previous request.")
	}
	defer h.sessions.Release(chatID, userID)
	return fn()
}

func (h *Handler) request(d session.Draft, angle string) studio.CreativeRequest {
	return studio.CreativeRequest{
		Format:       d.Format,
		Campaign:     h.campaign,
		Angle:        angle,
		EmbeddedText: d.EmbeddedText,
		VisualScene:  d.VisualScene,
		VisualStyle:  d.VisualStyle,
		AspectRatio:  d.AspectRatio,
		Reference:    d.Reference,
	}
}

func (h *Handler) generateImage(ctx context.Context, chatID, userID int64, angle string) error {
	d := h.sessions.Draft(chatID, userID, "")
	h.tg.SendTyping(chatID)
	_ = h.tg.SendText(chatID, fmt.Sprintf("🎨 Generating a %s creative...", d.Format.DisplayName()))

	res, err := h.studio.CreativeImage(ctx, h.request(d, angle))
	if err != nil {
		return h.replyError(chatID, "creative image failed", err)
	}

	out := res.Data
	h.sessions.Append(chatID, userID, session.HistoryEntry{
		Kind:   "creative",
		Format: d.Format,
		Prompt: out.FinalPrompt,
		Images: boolToInt(out.Image != nil),
	})

	if out.Image == nil {
		return h.tg.SendText(chatID, "❌ The image model did not return an image. Prompt that was used:\n\n"+out.FinalPrompt)
	}
	return h.tg.SendPhoto(chatID, *out.Image, out.FinalPrompt)
}

func (h *Handler) generateCarousel(ctx context.Context, chatID, userID int64, angle string) error {
	d := h.sessions.Draft(chatID, userID, "")
	h.tg.SendTyping(chatID)
	_ = h.tg.SendText(chatID, "🎠 Generating carousel slides...")

	res, err := h.studio.Carousel(ctx, h.request(d, angle))
	if err != nil {
		return h.replyError(chatID, "carousel failed", err)
	}

	out := res.Data
	h.sessions.Append(chatID, userID, session.HistoryEntry{
		Kind:   "carousel",
		Format: d.Format,
		Prompt: strings.Join(out.Prompts, "\n---\n"),
		Images: len(out.Images),
	})

	summary := fmt.Sprintf("%d of %d slides rendered.", len(out.Images), len(out.Prompts))
	if len(out.Images) == 0 {
		return h.tg.SendText(chatID, "❌ No slide could be rendered. Prompts:\n\n"+numbered(out.Prompts))
	}
	if err := h.tg.SendAlbum(chatID, out.Images, summary); err != nil {
		return err
	}
	if len(out.Images) < len(out.Prompts) {
		return h.tg.SendText(chatID, "⚠️ "+summary+" Prompts:\n\n"+numbered(out.Prompts))
	}
	return nil
}

func (h *Handler) generateCopy(ctx context.Context, chatID, userID int64, angle string) error {
	d := h.sessions.Draft(chatID, userID, "")
	h.tg.SendTyping(chatID)

	res, err := h.studio.CreativeStrategy(ctx, h.request(d, angle))
	if err != nil {
		if errors.Is(err, creative.ErrMalformedOutput) {
			h.logger.Warn("creative strategy malformed", "chat_id", chatID, "err", err)
			return h.tg.SendText(chatID, "❌ The copy came back incomplete. Please try again.")
		}
		return h.replyError(chatID, "creative strategy failed", err)
	}

	cs := res.Data
	h.sessions.Update(chatID, userID, func(d *session.Draft) {
		// the next /creative uses the suggested scene and text unless the user set their own
		if d.EmbeddedText == "" {
			d.EmbeddedText = cs.EmbeddedText
		}
		if d.VisualScene == "" {
			d.VisualScene = cs.VisualScene
		}
		if d.VisualStyle == "" {
			d.VisualStyle = cs.VisualStyle
		}
	})
	h.sessions.Append(chatID, userID, session.HistoryEntry{Kind: "copy", Format: d.Format, Prompt: cs.Headline})

	return h.tg.SendText(chatID, renderCopy(cs))
}

func (h *Handler) handlePhoto(ctx context.Context, chatID, userID int64, msg *tgbotapi.Message) error {
	h.sessions.Draft(chatID, userID, msg.From.UserName)
	if msg.MediaGroupID != "" {
		// only the first photo of an album becomes the reference; album
		// updates arrive concurrently, so the claim happens under the store lock
		claimed := false
		h.sessions.Update(chatID, userID, func(d *session.Draft) {
			if d.ReferenceGroup != msg.MediaGroupID {
				d.ReferenceGroup = msg.MediaGroupID
				claimed = true
			}
		})
		if !claimed {
			return nil
		}
	}

	photo := msg.Photo[len(msg.Photo)-1]
	img, err := h.tg.DownloadFile(ctx, photo.FileID)
	if err != nil {
		return h.replyError(chatID, "photo download failed", err)
	}

	caption := strings.TrimSpace(msg.Caption)
	h.sessions.Update(chatID, userID, func(d *session.Draft) {
		d.Reference = &img
		if caption != "" {
			d.VisualScene = caption
		}
	})
	return h.tg.SendText(chatID, "📷 Reference image saved. The product will be kept as-is in the next creative.")
}

func (h *Handler) replyError(chatID int64, what string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	h.logger.Error(what, "chat_id", chatID, "err", err)
	return h.tg.SendText(chatID, "❌ Something went wrong. Please try again.")
}

func (h *Handler) productName() string {
	if name := strings.TrimSpace(h.campaign.Product.Name); name != "" {
		return name
	}
	return "your product"
}

func describeFormat(f creative.Format) string {
	c := creative.Classify(f)
	g := creative.StyleGuideFor(f)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("✅ Format: %s (%s)\n", f.DisplayName(), f))
	if g.Surface != "" {
		b.WriteString("Text lives on: " + g.Surface + "\n")
	}
	b.WriteString("Look: " + c.Enhancer.Label())
	if c.DigitalUI {
		b.WriteString(", screen capture")
	}
	return b.String()
}

func renderCopy(cs creative.CreativeStrategy) string {
	var b strings.Builder
	b.WriteString("📝 " + cs.Headline + "\n\n")
	b.WriteString(cs.PrimaryText + "\n\n")
	b.WriteString("CTA: " + cs.CTA + "\n")
	b.WriteString("On image: " + cs.EmbeddedText + "\n")
	b.WriteString("Scene: " + cs.VisualScene + "\n")
	if u := cs.UglyAdStructure; u != nil {
		b.WriteString(fmt.Sprintf("Structure: %s / %s / %s / %s\n", u.Keyword, u.Emotion, u.Qualifier, u.Outcome))
	}
	b.WriteString("\nWhy: " + cs.Rationale)
	return b.String()
}

func renderHistory(entries []session.HistoryEntry) string {
	if len(entries) == 0 {
		return "Nothing generated yet."
	}
	var b strings.Builder
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		b.WriteString(fmt.Sprintf("%s · %s · %s", e.At.Format("15:04"), e.Kind, e.Format))
		if e.Images > 0 {
			b.WriteString(fmt.Sprintf(" · %d image(s)", e.Images))
		}
		if line := truncateLine(e.Prompt, 120); line != "" {
			b.WriteString("\n  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func numbered(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, l))
	}
	return strings.TrimSpace(b.String())
}

func truncateLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

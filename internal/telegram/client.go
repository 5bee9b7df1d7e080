package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pro-banana-creatives/internal/llm"
)

const (
	maxMessageBytes  = 4096
	maxCaptionBytes  = 1024
	maxAlbumSize     = 10
	maxDownloadBytes = 20 << 20
)

type Options struct {
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Debug      bool
}

type Client struct {
	bot        *tgbotapi.BotAPI
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if opts.HTTPClient == nil {
		return nil, errors.New("http client is nil")
	}

	bot, err := tgbotapi.NewBotAPIWithClient(opts.Token, tgbotapi.APIEndpoint, opts.HTTPClient)
	if err != nil {
		return nil, err
	}
	bot.Debug = opts.Debug

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		bot:        bot,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}, nil
}

func (c *Client) Username() string {
	return c.bot.Self.UserName
}

type Update = tgbotapi.Update

type UpdatesOptions struct {
	Timeout time.Duration
}

func (c *Client) Updates(opts UpdatesOptions) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	if opts.Timeout > 0 {
		u.Timeout = int(opts.Timeout.Seconds())
	} else {
		u.Timeout = 30
	}
	return c.bot.GetUpdatesChan(u)
}

func (c *Client) StopUpdates() {
	c.bot.StopReceivingUpdates()
}

func (c *Client) SendTyping(chatID int64) {
	_, _ = c.bot.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
}

func (c *Client) SendText(chatID int64, text string) error {
	parts := splitByBytes(text, maxMessageBytes)
	for _, p := range parts {
		msg := tgbotapi.NewMessage(chatID, p)
		if _, err := c.bot.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) SendTextWithKeyboard(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, truncateByBytes(text, maxMessageBytes))
	msg.ReplyMarkup = markup
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) AnswerCallback(callbackID, text string, alert bool) error {
	cfg := tgbotapi.NewCallback(callbackID, text)
	cfg.ShowAlert = alert
	_, err := c.bot.Request(cfg)
	return err
}

func (c *Client) SendPhoto(chatID int64, img llm.InlineImage, caption string) error {
	if len(img.Data) == 0 {
		return errors.New("photo is empty")
	}
	photo := tgbotapi.NewPhoto(chatID, photoFile(img, "creative"))
	if caption != "" {
		photo.Caption = truncateByBytes(caption, maxCaptionBytes)
	}
	_, err := c.bot.Send(photo)
	return err
}

// SendAlbum sends up to ten images as one Telegram media group. The caption is
// attached to the first image.
func (c *Client) SendAlbum(chatID int64, images []llm.InlineImage, caption string) error {
	switch len(images) {
	case 0:
		return errors.New("album is empty")
	case 1:
		return c.SendPhoto(chatID, images[0], caption)
	}
	if len(images) > maxAlbumSize {
		images = images[:maxAlbumSize]
	}

	media := make([]interface{}, 0, len(images))
	for i, img := range images {
		item := tgbotapi.NewInputMediaPhoto(photoFile(img, fmt.Sprintf("slide-%d", i+1)))
		if i == 0 && caption != "" {
			item.Caption = truncateByBytes(caption, maxCaptionBytes)
		}
		media = append(media, item)
	}
	_, err := c.bot.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, media))
	return err
}

func photoFile(img llm.InlineImage, base string) tgbotapi.FileBytes {
	name := base + ".png"
	if exts, _ := mime.ExtensionsByType(img.MIMEType); len(exts) > 0 {
		name = base + exts[0]
	}
	return tgbotapi.FileBytes{Name: name, Bytes: img.Data}
}

// DownloadFile fetches a file the user sent, e.g. a product reference photo.
func (c *Client) DownloadFile(ctx context.Context, fileID string) (llm.InlineImage, error) {
	fileURL, err := c.bot.GetFileDirectURL(fileID)
	if err != nil {
		return llm.InlineImage{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return llm.InlineImage{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return llm.InlineImage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return llm.InlineImage{}, fmt.Errorf("telegram file download %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return llm.InlineImage{}, err
	}

	return llm.InlineImage{Data: data, MIMEType: detectMIME(resp.Header.Get("content-type"), data)}, nil
}

func detectMIME(header string, data []byte) string {
	mimeType := strings.TrimSpace(strings.SplitN(header, ";", 2)[0])
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = strings.TrimSpace(strings.SplitN(http.DetectContentType(data), ";", 2)[0])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "image/jpeg"
	}
	return mimeType
}

func splitByBytes(text string, maxBytes int) []string {
	if len([]byte(text)) <= maxBytes || maxBytes <= 0 {
		return []string{text}
	}

	var out []string
	var buf strings.Builder
	buf.Grow(maxBytes)

	for _, r := range text {
		runeBytes := utf8.RuneLen(r)
		if runeBytes < 0 {
			runeBytes = len([]byte(string(r)))
		}

		if buf.Len() > 0 && buf.Len()+runeBytes > maxBytes {
			out = append(out, buf.String())
			buf.Reset()
		}
		buf.WriteRune(r)
	}

	if buf.Len() > 0 {
		out = append(out, buf.String())
	}

	return out
}

func truncateByBytes(text string, maxBytes int) string {
	if len([]byte(text)) <= maxBytes || maxBytes <= 0 {
		return text
	}

	var buf strings.Builder
	buf.Grow(maxBytes)
	for _, r := range text {
		runeBytes := utf8.RuneLen(r)
		if runeBytes < 0 {
			runeBytes = len([]byte(string(r)))
		}

		if buf.Len()+runeBytes > maxBytes {
			break
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro-banana-creatives/internal/campaign"
	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
	"pro-banana-creatives/internal/session"
	"pro-banana-creatives/internal/studio"
	"pro-banana-creatives/internal/telegram"
)

type sentPhoto struct {
	img     llm.InlineImage
	caption string
}

type fakeMessenger struct {
	mu        sync.Mutex
	texts     []string
	photos    []sentPhoto
	albums    [][]llm.InlineImage
	keyboards int
	answers   []string
	downloads []string
}

func (f *fakeMessenger) SendText(_ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) SendTyping(int64) {}

func (f *fakeMessenger) SendTextWithKeyboard(_ int64, text string, _ tgbotapi.InlineKeyboardMarkup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keyboards++
	f.texts = append(f.texts, text)
	return 42, nil
}

func (f *fakeMessenger) AnswerCallback(_ string, text string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeMessenger) SendPhoto(_ int64, img llm.InlineImage, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, sentPhoto{img: img, caption: caption})
	return nil
}

func (f *fakeMessenger) SendAlbum(_ int64, images []llm.InlineImage, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.albums = append(f.albums, images)
	return nil
}

func (f *fakeMessenger) DownloadFile(_ context.Context, fileID string) (llm.InlineImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, fileID)
	return llm.InlineImage{Data: []byte(fileID), MIMEType: "image/jpeg"}, nil
}

func (f *fakeMessenger) lastText() string {
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type fakeGenerator struct {
	requests []studio.CreativeRequest
	image    studio.ImageOutput
	carousel studio.CarouselOutput
	copy     creative.CreativeStrategy
	err      error
}

func (f *fakeGenerator) CreativeImage(_ context.Context, req studio.CreativeRequest) (studio.Result[studio.ImageOutput], error) {
	f.requests = append(f.requests, req)
	return studio.Result[studio.ImageOutput]{Data: f.image}, f.err
}

func (f *fakeGenerator) Carousel(_ context.Context, req studio.CreativeRequest) (studio.Result[studio.CarouselOutput], error) {
	f.requests = append(f.requests, req)
	return studio.Result[studio.CarouselOutput]{Data: f.carousel}, f.err
}

func (f *fakeGenerator) CreativeStrategy(_ context.Context, req studio.CreativeRequest) (studio.Result[creative.CreativeStrategy], error) {
	f.requests = append(f.requests, req)
	return studio.Result[creative.CreativeStrategy]{Data: f.copy}, f.err
}

const (
	chatID = int64(100)
	userID = int64(200)
)

func command(text string) telegram.Update {
	name := strings.SplitN(text, " ", 2)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: userID, UserName: "sari"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func photo(fileID, group string) telegram.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:         &tgbotapi.Chat{ID: chatID},
		From:         &tgbotapi.User{ID: userID},
		MediaGroupID: group,
		Photo: []tgbotapi.PhotoSize{
			{FileID: fileID + "-small", Width: 90},
			{FileID: fileID, Width: 1280},
		},
	}}
}

func newHandler(gen *fakeGenerator) (*Handler, *fakeMessenger, *session.Store) {
	tg := &fakeMessenger{}
	store := session.NewStore(session.Options{})
	h := New(Options{
		Telegram: tg,
		Studio:   gen,
		Sessions: store,
		Campaign: campaign.Named("AcneAway Serum"),
	})
	return h, tg, store
}

func run(t *testing.T, h *Handler, u telegram.Update) {
	t.Helper()
	require.NoError(t, h.HandleUpdate(context.Background(), u))
}

func TestHelpMentionsProduct(t *testing.T) {
	h, tg, _ := newHandler(&fakeGenerator{})
	run(t, h, command("/start"))
	assert.Contains(t, tg.lastText(), "AcneAway Serum")
}

func TestFormatCommand(t *testing.T) {
	h, tg, store := newHandler(&fakeGenerator{})

	run(t, h, command("/format big-font"))
	assert.Equal(t, creative.FormatBigFont, store.Draft(chatID, userID, "").Format)
	assert.Contains(t, tg.lastText(), "Big Font")

	run(t, h, command("/format hologram"))
	assert.Contains(t, tg.lastText(), "Unknown format")
	assert.Equal(t, creative.FormatBigFont, store.Draft(chatID, userID, "").Format)

	run(t, h, command("/format"))
	assert.Equal(t, 1, tg.keyboards)
}

func TestDraftCommands(t *testing.T) {
	h, _, store := newHandler(&fakeGenerator{})

	run(t, h, command("/ratio 4:5"))
	run(t, h, command("/text JANGAN PENCET JERAWAT"))
	run(t, h, command("/scene a note on a mirror"))

	d := store.Draft(chatID, userID, "")
	assert.Equal(t, llm.AspectVertical, d.AspectRatio)
	assert.Equal(t, "JANGAN PENCET JERAWAT", d.EmbeddedText)
	assert.Equal(t, "a note on a mirror", d.VisualScene)

	run(t, h, command("/reset"))
	d = store.Draft(chatID, userID, "")
	assert.Equal(t, session.DefaultFormat, d.Format)
	assert.Empty(t, d.EmbeddedText)
}

func TestCreativeSendsPhotoAndRecordsHistory(t *testing.T) {
	gen := &fakeGenerator{image: studio.ImageOutput{
		Image:       &llm.InlineImage{Data: []byte("png"), MIMEType: "image/png"},
		FinalPrompt: "final prompt",
	}}
	h, tg, store := newHandler(gen)

	run(t, h, command("/text STOP"))
	run(t, h, command("/creative Tired of acne?"))

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	assert.Equal(t, "Tired of acne?", req.Angle)
	assert.Equal(t, "STOP", req.EmbeddedText)
	assert.Equal(t, session.DefaultFormat, req.Format)
	assert.Equal(t, "AcneAway Serum", req.Campaign.Product.Name)

	require.Len(t, tg.photos, 1)
	assert.Equal(t, "final prompt", tg.photos[0].caption)

	history := store.History(chatID, userID)
	require.Len(t, history, 1)
	assert.Equal(t, "creative", history[0].Kind)
	assert.Equal(t, 1, history[0].Images)

	run(t, h, command("/history"))
	assert.Contains(t, tg.lastText(), "final prompt")
}

func TestCreativeWithoutImageShowsPrompt(t *testing.T) {
	gen := &fakeGenerator{image: studio.ImageOutput{FinalPrompt: "attempted prompt"}}
	h, tg, _ := newHandler(gen)

	run(t, h, command("/creative"))
	assert.Empty(t, tg.photos)
	assert.Contains(t, tg.lastText(), "attempted prompt")
}

func TestCarouselPartialResult(t *testing.T) {
	gen := &fakeGenerator{carousel: studio.CarouselOutput{
		Images:  []llm.InlineImage{{Data: []byte("1")}, {Data: []byte("3")}},
		Prompts: []string{"one", "two", "three"},
	}}
	h, tg, _ := newHandler(gen)

	run(t, h, command("/carousel"))
	require.Len(t, tg.albums, 1)
	assert.Len(t, tg.albums[0], 2)
	assert.Contains(t, tg.lastText(), "2 of 3 slides rendered")
	assert.Contains(t, tg.lastText(), "3. three")
}

func TestCopyFillsDraft(t *testing.T) {
	gen := &fakeGenerator{copy: creative.CreativeStrategy{
		Headline:     "Headline",
		PrimaryText:  "Body",
		CTA:          "Shop",
		EmbeddedText: "STOP",
		VisualScene:  "desk",
		VisualStyle:  "flash",
		Rationale:    "why",
	}}
	h, tg, store := newHandler(gen)

	run(t, h, command("/scene my own scene"))
	run(t, h, command("/copy"))

	assert.Contains(t, tg.lastText(), "Headline")
	d := store.Draft(chatID, userID, "")
	assert.Equal(t, "STOP", d.EmbeddedText)
	assert.Equal(t, "my own scene", d.VisualScene)
	assert.Equal(t, "flash", d.VisualStyle)
}

func TestCopyMalformed(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("%w: missing cta", creative.ErrMalformedOutput)}
	h, tg, _ := newHandler(gen)

	run(t, h, command("/copy"))
	assert.Contains(t, tg.lastText(), "incomplete")
}

func TestBusyChatIsRejected(t *testing.T) {
	gen := &fakeGenerator{}
	h, tg, store := newHandler(gen)

	require.True(t, store.TryAcquire(chatID, userID))
	run(t, h, command("/creative"))
	assert.Empty(t, gen.requests)
	assert.Contains(t, tg.lastText(), "Still working")
}

func TestPhotoSetsReferenceOncePerAlbum(t *testing.T) {
	h, tg, store := newHandler(&fakeGenerator{})

	run(t, h, photo("file-a", "album-1"))
	run(t, h, photo("file-b", "album-1"))

	assert.Equal(t, []string{"file-a"}, tg.downloads)
	d := store.Draft(chatID, userID, "")
	require.NotNil(t, d.Reference)
	assert.Equal(t, []byte("file-a"), d.Reference.Data)
}

func TestConcurrentAlbumPhotosClaimOnce(t *testing.T) {
	h, tg, store := newHandler(&fakeGenerator{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, h.HandleUpdate(context.Background(), photo(fmt.Sprintf("file-%d", i), "album-2")))
		}(i)
	}
	wg.Wait()

	require.Len(t, tg.downloads, 1)
	d := store.Draft(chatID, userID, "")
	require.NotNil(t, d.Reference)
	assert.Equal(t, []byte(tg.downloads[0]), d.Reference.Data)
	assert.Equal(t, "album-2", d.ReferenceGroup)

	// a new album claims again
	run(t, h, photo("file-next", "album-3"))
	assert.Len(t, tg.downloads, 2)
}

func TestFormatPickerCallback(t *testing.T) {
	h, tg, store := newHandler(&fakeGenerator{})

	callback := func(from int64, data string) telegram.Update {
		return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			From:    &tgbotapi.User{ID: from},
			Data:    data,
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		}}
	}

	run(t, h, callback(999, cb(userID, "set", "meme")))
	assert.Equal(t, session.DefaultFormat, store.Draft(chatID, userID, "").Format)

	run(t, h, callback(userID, cb(userID, "set", "meme")))
	assert.Equal(t, creative.FormatMeme, store.Draft(chatID, userID, "").Format)
	assert.Equal(t, []string{"This menu belongs to someone else.", "Meme"}, tg.answers)
}

func TestFormatKeyboardCoversEveryFormat(t *testing.T) {
	kb := formatKeyboard(userID, creative.FormatMeme)
	count := 0
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			count++
			require.NotNil(t, b.CallbackData)
			assert.LessOrEqual(t, len(*b.CallbackData), 64)
		}
	}
	assert.Equal(t, len(creative.Formats()), count)
}

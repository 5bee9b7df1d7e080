package creative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Acts as the exhaustiveness lint for the lookup tables.
func TestEveryFormatHasTableEntries(t *testing.T) {
	require.Len(t, formatTraits, len(allFormats))
	require.Len(t, styleGuides, len(allFormats))

	for _, f := range Formats() {
		_, ok := formatTraits[f]
		assert.True(t, ok, "missing traits for %s", f)

		g, ok := styleGuides[f]
		if assert.True(t, ok, "missing style guide for %s", f) {
			assert.NotEmpty(t, g.Style, f)
			assert.NotEmpty(t, g.Surface, f)
			assert.NotEmpty(t, g.Font, f)
			assert.NotEmpty(t, g.Layout, f)
			assert.NotEmpty(t, g.Identity, f)
		}
	}
}

func TestUnknownFormatFallsThroughEveryLookup(t *testing.T) {
	unknown := Format("hologram_billboard")

	c := Classify(unknown)
	assert.False(t, c.DigitalUI)
	assert.False(t, c.RawAuthentic)
	assert.False(t, c.NativeStory)
	assert.Equal(t, RoleplayDefault, c.Roleplay)
	assert.Equal(t, EnhancerProfessional, c.Enhancer)

	g := StyleGuideFor(unknown)
	assert.Equal(t, defaultStyleGuide, g)
	assert.Contains(t, g.Text(), styleGuideHeader)
	assert.Contains(t, g.Text(), g.IdentityLine())

	assert.NotEmpty(t, ComposeImagePrompt(NewPromptContext(PromptInput{Format: unknown})))
	assert.NotEmpty(t, FallbackImagePrompt(NewPromptContext(PromptInput{Format: unknown})))
	assert.NotPanics(t, func() { Classify("") })
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in    string
		want  Format
		known bool
	}{
		{"chat_conversation", FormatChatConversation, true},
		{"  Sticky-Note-Realism ", FormatStickyNoteRealism, true},
		{"US VS THEM", FormatUsVsThem, true},
		{"nope", Format("nope"), false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.known, ok, tt.in)
		assert.Equal(t, tt.known, got.Known(), tt.in)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Chat Conversation", FormatChatConversation.DisplayName())
	assert.Equal(t, "Unspecified", Format("").DisplayName())
	assert.True(t, FormatCarouselPhotoDump.IsCarousel())
	assert.False(t, FormatMeme.IsCarousel())
}

func TestClassifyRoleplayPrecedence(t *testing.T) {
	tests := []struct {
		format   Format
		roleplay string
		enhancer Enhancer
	}{
		{FormatChatConversation, RoleplayScreenshot, EnhancerUGC},
		{FormatPhoneNotes, RoleplayScreenshot, EnhancerRaw},
		{FormatGmailUX, RoleplayScreenshot, EnhancerProfessional},
		{FormatStickyNoteRealism, RoleplayReviewer, EnhancerRaw},
		{FormatMeme, RoleplayReviewer, EnhancerRaw},
		{FormatUGCMirror, RoleplayCreator, EnhancerUGC},
		{FormatIGStoryText, RoleplayCreator, EnhancerProfessional},
		{FormatProductHero, RoleplayDefault, EnhancerProfessional},
		{FormatHandheldTweet, RoleplayDefault, EnhancerUGC},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			c := Classify(tt.format)
			assert.Equal(t, tt.roleplay, c.Roleplay)
			assert.Equal(t, tt.enhancer, c.Enhancer)
			assert.Equal(t, c, Classify(tt.format))
		})
	}
}

func TestEnhancerDirectiveDefaults(t *testing.T) {
	assert.Equal(t, EnhancerProfessional.Directive(), Enhancer("unknown").Directive())
	assert.Contains(t, EnhancerRaw.Directive(), "AUTHENTIC SOCIAL")
}

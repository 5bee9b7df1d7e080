// Package creative turns a creative format and campaign strategy into the
// instruction documents sent to the generative models, and validates what
// comes back. Nothing here touches the network.
package creative

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format is an ad-creative archetype. Values outside Formats() are allowed and
// resolve to the default entry of every table.
type Format string

const (
	// Native social UI.
	FormatIGStoryText        Format = "ig_story_text"
	FormatPhoneNotes         Format = "phone_notes"
	FormatTwitterRepost      Format = "twitter_repost"
	FormatHandheldTweet      Format = "handheld_tweet"
	FormatGmailUX            Format = "gmail_ux"
	FormatDMNotification     Format = "dm_notification"
	FormatReminderNotif      Format = "reminder_notif"
	FormatChatConversation   Format = "chat_conversation"
	FormatSearchBar          Format = "search_bar"
	FormatSocialCommentStack Format = "social_comment_stack"
	FormatRedditThread       Format = "reddit_thread"

	// Data and logic.
	FormatUsVsThem             Format = "us_vs_them"
	FormatBeforeAfter          Format = "before_after"
	FormatOldMeVsNewMe         Format = "old_me_vs_new_me"
	FormatGraphChart           Format = "graph_chart"
	FormatTimelineJourney      Format = "timeline_journey"
	FormatMechanismXRay        Format = "mechanism_xray"
	FormatAnnotatedProduct     Format = "annotated_product"
	FormatBenefitPointers      Format = "benefit_pointers"
	FormatTestimonialHighlight Format = "testimonial_highlight"
	FormatPressFeature         Format = "press_feature"
	FormatChecklistTodo        Format = "checklist_todo"

	// Ugly ads and pattern interrupts.
	FormatUglyVisual        Format = "ugly_visual"
	FormatStickyNoteRealism Format = "sticky_note_realism"
	FormatMSPaint           Format = "ms_paint"
	FormatBigFont           Format = "big_font"
	FormatBillboard         Format = "billboard"
	FormatMeme              Format = "meme"
	FormatCartoon           Format = "cartoon"

	// Native stories.
	FormatUGCMirror       Format = "ugc_mirror"
	FormatEducationalRant Format = "educational_rant"

	// Carousels.
	FormatCarouselEducational Format = "carousel_educational"
	FormatCarouselPanorama    Format = "carousel_panorama"
	FormatCarouselPhotoDump   Format = "carousel_photo_dump"
	FormatCarouselRealStory   Format = "carousel_real_story"

	// Polished.
	FormatAestheticMinimal Format = "aesthetic_minimal"
	FormatProductHero      Format = "product_hero"
)

var allFormats = []Format{
	FormatIGStoryText,
	FormatPhoneNotes,
	FormatTwitterRepost,
	FormatHandheldTweet,
	FormatGmailUX,
	FormatDMNotification,
	FormatReminderNotif,
	FormatChatConversation,
	FormatSearchBar,
	FormatSocialCommentStack,
	FormatRedditThread,
	FormatUsVsThem,
	FormatBeforeAfter,
	FormatOldMeVsNewMe,
	FormatGraphChart,
	FormatTimelineJourney,
	FormatMechanismXRay,
	FormatAnnotatedProduct,
	FormatBenefitPointers,
	FormatTestimonialHighlight,
	FormatPressFeature,
	FormatChecklistTodo,
	FormatUglyVisual,
	FormatStickyNoteRealism,
	FormatMSPaint,
	FormatBigFont,
	FormatBillboard,
	FormatMeme,
	FormatCartoon,
	FormatUGCMirror,
	FormatEducationalRant,
	FormatCarouselEducational,
	FormatCarouselPanorama,
	FormatCarouselPhotoDump,
	FormatCarouselRealStory,
	FormatAestheticMinimal,
	FormatProductHero,
}

// Formats returns every known format in catalog order.
func Formats() []Format {
	return append([]Format(nil), allFormats...)
}

// ParseFormat accepts tags in any case, with dashes, spaces or underscores.
func ParseFormat(raw string) (Format, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for _, f := range allFormats {
		if string(f) == key {
			return f, true
		}
	}
	return Format(key), false
}

func (f Format) Known() bool {
	_, ok := ParseFormat(string(f))
	return ok
}

func (f Format) IsCarousel() bool {
	return strings.HasPrefix(string(f), "carousel_")
}

func (f Format) DisplayName() string {
	name := strings.ReplaceAll(strings.TrimSpace(string(f)), "_", " ")
	if name == "" {
		return "Unspecified"
	}
	return cases.Title(language.Und).String(name)
}

func (f Format) String() string {
	return string(f)
}

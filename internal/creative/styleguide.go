package creative

import "strings"

// StyleGuide tells the image model how to render text into the pixels of the
// image for one format.
type StyleGuide struct {
	Style    string
	Surface  string
	Font     string
	Layout   string
	Elements string
	Vibe     string
	Identity string
}

const styleGuideHeader = "TEXT RENDERING INSTRUCTION:"

func (g StyleGuide) Text() string {
	var b strings.Builder
	b.WriteString(styleGuideHeader)
	for _, line := range []struct{ label, value string }{
		{"STYLE", g.Style},
		{"SURFACE", g.Surface},
		{"FONT", g.Font},
		{"LAYOUT", g.Layout},
		{"ELEMENTS", g.Elements},
		{"VIBE", g.Vibe},
		{"IDENTITY RULE", g.Identity},
	} {
		if strings.TrimSpace(line.value) == "" {
			continue
		}
		b.WriteString("\n" + line.label + ": " + line.value)
	}
	return b.String()
}

// IdentityLine is the exact identity-rule line as it appears in Text().
func (g StyleGuide) IdentityLine() string {
	if g.Identity == "" {
		return ""
	}
	return "IDENTITY RULE: " + g.Identity
}

// StyleGuideFor is total: unknown formats get the default guide.
func StyleGuideFor(f Format) StyleGuide {
	if g, ok := styleGuides[f]; ok {
		return g
	}
	return defaultStyleGuide
}

const (
	identityCustomerVoice = "The words belong to a customer, never to the brand. The brand is never shown suffering from the problem."
	identityPastSelf      = `Any complaint is attributed to "a client" or the author's "past self"; the brand never appears to be the one currently struggling.`
	identityBrandWins     = "The brand is always the winning side (Us / After / Green check). The losing side is the old habit or a generic alternative, never a named competitor."
	identityThirdParty    = "Text is presented as coming from a third party (reviewer, publication, friend); the brand does not praise itself in first person."
	identityBrandHelper   = "The brand speaks as the helper that solved the problem, never as the one complaining or apologising."
)

var defaultStyleGuide = StyleGuide{
	Style:    "Natural Text Overlay.",
	Surface:  "Whatever surface is natural to the scene (paper, packaging, screen, sign).",
	Font:     "Realistic, consistent with the scene context.",
	Layout:   "Long copy allowed; keep it legible and placed where a real person would put it.",
	Identity: identityCustomerVoice,
}

var styleGuides = map[Format]StyleGuide{
	FormatIGStoryText: {
		Style:    "Instagram Story Overlay.",
		Surface:  "A vertical phone photo with white text sitting on black semi-transparent background blocks.",
		Font:     "San Francisco (iOS) or modern sans-serif, white.",
		Layout:   "Center-aligned or left-aligned text blocks placed naturally over the image; long copy is fine.",
		Vibe:     `Casual, "Curhat" style.`,
		Identity: `The story is told by a customer about their own experience; struggles are framed as "before I found this", never as the brand's problem.`,
	},
	FormatPhoneNotes: {
		Style:    "Apple Notes App UI.",
		Surface:  "Textured yellowish paper background (Apple Notes style).",
		Font:     "System font (San Francisco), dark grey.",
		Layout:   "Title line in bold followed by short note lines.",
		Elements: `A hand-drawn red circle or red arrow, as if drawn by a finger, highlighting a key phrase.`,
		Identity: identityPastSelf,
	},
	FormatTwitterRepost: {
		Style:    "Twitter/X Post UI.",
		Surface:  "A digital tweet card in light or dark mode.",
		Font:     "System sans-serif.",
		Layout:   "Profile picture circle, name and handle on top, tweet body below.",
		Vibe:     "Authentic screenshot.",
		Identity: "The tweet is posted by a customer account, never by the brand account.",
	},
	FormatHandheldTweet: {
		Style:    "Printed Tweet held in hand.",
		Surface:  "A tweet printed on paper, held by a hand in a real room.",
		Font:     "System sans-serif.",
		Layout:   "Profile picture circle, name, handle and tweet body exactly as on screen.",
		Vibe:     "Authentic, slightly creased paper.",
		Identity: "The tweet is posted by a customer account, never by the brand account.",
	},
	FormatGmailUX: {
		Style:    "Gmail Inbox.",
		Surface:  "Clean white inbox list on a phone screen.",
		Font:     "Roboto or Product Sans.",
		Layout:   "Bold subject line with lighter preview text underneath.",
		Vibe:     "High urgency notification.",
		Identity: "The email is sent to the customer by the brand as a helpful reminder, or by a friend; the brand never sends a complaint.",
	},
	FormatDMNotification: {
		Style:    "iOS Lockscreen Notification bubble.",
		Surface:  "Glassmorphism blur effect box on a lockscreen.",
		Font:     "iOS System Font.",
		Layout:   "Tiny app icon, sender name, then one or two lines of message.",
		Vibe:     "Urgent personal alert.",
		Identity: "The sender is a friend or a client, never the brand complaining.",
	},
	FormatReminderNotif: {
		Style:    "iOS Lockscreen Reminder.",
		Surface:  "Glassmorphism blur effect box on a lockscreen.",
		Font:     "iOS System Font.",
		Layout:   "Tiny calendar icon, reminder title, short reminder body.",
		Vibe:     "Urgent personal alert.",
		Identity: "The reminder is written by the customer for themselves.",
	},
	FormatChatConversation: {
		Style:    "iMessage or WhatsApp Chat Bubbles.",
		Surface:  "Chat thread with blue bubbles on the right and grey bubbles on the left.",
		Font:     "iOS System Font.",
		Layout:   "Alternating bubbles, newest at the bottom, timestamps small and grey.",
		Vibe:     "Private conversation screenshot.",
		Identity: "Two friends or a customer and their friend are talking; the complaint comes from the friend and the recommendation from the customer. The brand is never a participant.",
	},
	FormatSearchBar: {
		Style:    "Google Search Bar.",
		Surface:  "Rounded pill-shaped search bar with soft shadow.",
		Font:     "Arial or Product Sans.",
		Layout:   `Text inside the bar, ending with a typing cursor "|".`,
		Identity: "The query is typed by the customer searching for a fix; it never reads as the brand asking for help.",
	},
	FormatSocialCommentStack: {
		Style:    "Social Media Comments Section.",
		Surface:  "Stacked comment rows under a post.",
		Font:     "System UI font.",
		Layout:   "Tiny profile avatars, usernames, comment text, like counts.",
		Identity: "Comments come from different customers; any brand reply is helpful and never defensive.",
	},
	FormatRedditThread: {
		Style:    "Reddit Dark Mode.",
		Surface:  "Dark grey thread background.",
		Font:     "Verdana or system sans-serif.",
		Layout:   "Orange upvote arrow, post title, user handle, body text.",
		Identity: "The post is written by a regular user sharing what worked for them; it is never signed by the brand.",
	},
	FormatUsVsThem: {
		Style:    "Comparison Table (hand-drawn or simple graphic).",
		Surface:  "Whiteboard, notebook page or plain card split into two columns.",
		Font:     "Handwritten or bold simple font.",
		Layout:   `Two columns: "Them" with red X marks vs "Us" with green check marks.`,
		Vibe:     "Brutal honesty.",
		Identity: identityBrandWins,
	},
	FormatBeforeAfter: {
		Style:    "Split Screen Labels.",
		Surface:  "Two side-by-side photos of the same situation.",
		Font:     "Bold white text with black outline (subtitle style).",
		Layout:   `"Day 1" vs "Day 30" (or similar time markers) at the bottom center of each half.`,
		Identity: identityBrandWins,
	},
	FormatOldMeVsNewMe: {
		Style:    "Split Screen Labels.",
		Surface:  "Two side-by-side photos of the same person.",
		Font:     "Bold white text with black outline (subtitle style).",
		Layout:   `"Old me" vs "New me" labels at the bottom center of each half.`,
		Identity: identityPastSelf,
	},
	FormatGraphChart: {
		Style:    "Graph Annotation.",
		Surface:  "A simple printed or on-screen line chart.",
		Font:     "Handwritten note.",
		Layout:   "Hand-drawn arrow pointing to the spike, handwritten note next to the arrow explaining the result.",
		Identity: "The result shown is the customer's result after switching; the dip is their past, never the brand's performance.",
	},
	FormatTimelineJourney: {
		Style:    "Graph Annotation.",
		Surface:  "A timeline drawn on paper or a whiteboard.",
		Font:     "Handwritten note.",
		Layout:   "Milestones along a line with a hand-drawn arrow at the turning point.",
		Identity: identityPastSelf,
	},
	FormatMechanismXRay: {
		Style:    "Scientific Labeling lines.",
		Surface:  "Cut-away or x-ray view of the product or the problem area.",
		Font:     "Small, clean, technical font.",
		Layout:   "Thin lines pointing to specific parts with a label at the end of each line.",
		Identity: identityBrandHelper,
	},
	FormatAnnotatedProduct: {
		Style:    "Scientific Labeling lines.",
		Surface:  "The product photographed on a plain surface.",
		Font:     "Small, clean, technical font.",
		Layout:   "Thin lines pointing to specific parts with a label at the end of each line.",
		Identity: identityBrandHelper,
	},
	FormatBenefitPointers: {
		Style:    "Benefit Callouts.",
		Surface:  "The product photographed on a plain surface.",
		Font:     "Small, clean sans-serif.",
		Layout:   "Short benefit labels connected to the product with thin pointer lines.",
		Identity: identityBrandHelper,
	},
	FormatTestimonialHighlight: {
		Style:    "Highlighted Testimonial Block.",
		Surface:  "A printed review or on-screen review card.",
		Font:     "Clean serif or system font.",
		Layout:   "A block of review text with a bright neon yellow or green highlighter mark over the most important phrase.",
		Identity: identityThirdParty,
	},
	FormatPressFeature: {
		Style:    "Magazine / Newspaper Headline.",
		Surface:  "Printed newspaper or magazine page.",
		Font:     "Serif (Times New Roman style) or bold editorial sans.",
		Layout:   "Headline on top, short deck underneath, body columns implied.",
		Vibe:     "Prestigious authority.",
		Identity: identityThirdParty,
	},
	FormatChecklistTodo: {
		Style:    "Handwritten Checklist.",
		Surface:  "Notebook page or sticky pad.",
		Font:     "Marker handwriting.",
		Layout:   "Checkboxes in a column; red crosses on the old habits, green check marks on the new routine.",
		Identity: "The checklist belongs to the customer; crossed-out items are their old habits, never the brand's failures.",
	},
	FormatUglyVisual: {
		Style:    "Handwritten Sticky Note or MS Paint Scribble.",
		Surface:  "A crumpled Post-it note OR a raw digital brush stroke.",
		Font:     "Messy handwriting (marker style) OR pixelated digital text.",
		Layout:   "A few words, slightly crooked, filling most of the surface.",
		Vibe:     `Amateur, "Do It Yourself", clean desk setup.`,
		Identity: identityPastSelf,
	},
	FormatStickyNoteRealism: {
		Style:    "Handwritten Sticky Note.",
		Surface:  "Textured yellow paper sticky note stuck on a mirror, laptop or fridge.",
		Font:     "Black marker handwriting.",
		Layout:   "Two to five short lines, slightly crooked.",
		Vibe:     `Amateur, "Do It Yourself".`,
		Identity: identityPastSelf,
	},
	FormatMSPaint: {
		Style:    "MS Paint Scribble.",
		Surface:  "White digital canvas with raw brush strokes.",
		Font:     "Pixelated digital text or mouse-drawn handwriting.",
		Layout:   "Crude arrows and circles around the key words.",
		Vibe:     "Deliberately amateur.",
		Identity: identityPastSelf,
	},
	FormatBigFont: {
		Style:    "Massive Bold Overlay.",
		Surface:  "Flat colour block or photo background.",
		Font:     "Impact or Helvetica Bold (very thick).",
		Layout:   "White with black outline, or black on yellow; text takes up 50% of the image.",
		Identity: identityCustomerVoice,
	},
	FormatBillboard: {
		Style:    "Street Billboard.",
		Surface:  "A real roadside or building billboard photographed from the street.",
		Font:     "Impact or Helvetica Bold (very thick).",
		Layout:   "One short line, huge, centered on the board.",
		Identity: identityBrandHelper,
	},
	FormatMeme: {
		Style:    "Classic Meme Format.",
		Surface:  "A relatable reaction photo.",
		Font:     "Impact Font (white with black outline).",
		Layout:   "Top text and bottom text.",
		Identity: `The joke is on the old habit or the customer's "past self", never on the brand or its customers.`,
	},
	FormatCartoon: {
		Style:    "Simple Comic Panel.",
		Surface:  "Flat cartoon illustration.",
		Font:     "Comic hand lettering.",
		Layout:   "Speech bubbles above the characters.",
		Identity: "The struggling character is a customer before the fix; the brand never plays the struggling character.",
	},
	FormatUGCMirror: {
		Style:    "Mirror Selfie Caption.",
		Surface:  "A bathroom or bedroom mirror selfie with an Instagram-style caption sticker.",
		Font:     "Instagram Modern or Classic font.",
		Layout:   "One caption sticker near the top or bottom third, not covering the face.",
		Identity: "The person in the mirror is a customer speaking for themselves.",
	},
	FormatEducationalRant: {
		Style:    "Talking-Head Caption.",
		Surface:  "A creator filmed talking to camera with burned-in captions.",
		Font:     "Bold white captions with black outline.",
		Layout:   "Caption lines in the lower third.",
		Identity: "The creator rants about the industry myth, not about the brand; the brand is the fix they recommend.",
	},
	FormatCarouselEducational: {
		Style:    "Carousel Slide Header.",
		Surface:  "Clean flat background slide.",
		Font:     "Bold, clean typography.",
		Layout:   "Big headline at top, smaller subtext below.",
		Vibe:     "Educational infographic.",
		Identity: identityBrandHelper,
	},
	FormatCarouselPanorama: {
		Style:    "Carousel Slide Header.",
		Surface:  "One continuous panoramic scene split across slides.",
		Font:     "Bold, clean typography.",
		Layout:   "Big headline at top, smaller subtext below, continuing across the seam.",
		Vibe:     "Educational infographic.",
		Identity: identityBrandHelper,
	},
	FormatCarouselPhotoDump: {
		Style:    "Instagram Sticker Text.",
		Surface:  "Casual phone photos from everyday life.",
		Font:     `"Modern" or "Neon" Instagram font style.`,
		Layout:   "One short sticker per photo, slightly tilted.",
		Identity: identityCustomerVoice,
	},
	FormatCarouselRealStory: {
		Style:    "Story Caption Sequence.",
		Surface:  "Candid phone photos following one person over time.",
		Font:     "Instagram Classic font on semi-transparent blocks.",
		Layout:   "One caption block per slide telling the next beat of the story.",
		Identity: identityPastSelf,
	},
	FormatAestheticMinimal: {
		Style:    "Minimalist Overlay.",
		Surface:  "Soft, uncluttered lifestyle photo.",
		Font:     "Thin, elegant sans-serif.",
		Layout:   "Small and unobtrusive, in the negative space.",
		Identity: identityBrandHelper,
	},
	FormatProductHero: {
		Style:    "Packaging and Label Text.",
		Surface:  "The product packaging itself, on a real surface.",
		Font:     "Exactly as printed on the packaging.",
		Layout:   "Only the real label text; any extra line sits on a small card next to the product.",
		Identity: identityBrandHelper,
	},
}

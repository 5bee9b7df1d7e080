package creative

type trait uint8

const (
	traitDigitalUI trait = 1 << iota
	traitRaw
	traitNativeStory
	traitCreator
)

// formatTraits must list every member of allFormats; format_test.go checks it.
var formatTraits = map[Format]trait{
	FormatIGStoryText:          traitCreator,
	FormatPhoneNotes:           traitDigitalUI | traitRaw,
	FormatTwitterRepost:        traitDigitalUI | traitNativeStory,
	FormatHandheldTweet:        traitNativeStory,
	FormatGmailUX:              traitDigitalUI,
	FormatDMNotification:       traitDigitalUI | traitNativeStory,
	FormatReminderNotif:        traitDigitalUI | traitNativeStory,
	FormatChatConversation:     traitDigitalUI | traitNativeStory,
	FormatSearchBar:            traitDigitalUI,
	FormatSocialCommentStack:   traitDigitalUI | traitNativeStory,
	FormatRedditThread:         traitDigitalUI | traitRaw,
	FormatUsVsThem:             traitRaw,
	FormatBeforeAfter:          0,
	FormatOldMeVsNewMe:         0,
	FormatGraphChart:           0,
	FormatTimelineJourney:      0,
	FormatMechanismXRay:        0,
	FormatAnnotatedProduct:     0,
	FormatBenefitPointers:      0,
	FormatTestimonialHighlight: 0,
	FormatPressFeature:         0,
	FormatChecklistTodo:        0,
	FormatUglyVisual:           traitRaw,
	FormatStickyNoteRealism:    traitRaw,
	FormatMSPaint:              traitRaw,
	FormatBigFont:              traitRaw,
	FormatBillboard:            0,
	FormatMeme:                 traitRaw,
	FormatCartoon:              traitRaw,
	FormatUGCMirror:            traitNativeStory | traitCreator,
	FormatEducationalRant:      traitNativeStory | traitCreator,
	FormatCarouselEducational:  0,
	FormatCarouselPanorama:     0,
	FormatCarouselPhotoDump:    0,
	FormatCarouselRealStory:    traitNativeStory | traitCreator,
	FormatAestheticMinimal:     0,
	FormatProductHero:          0,
}

const (
	RoleplayScreenshot = "Act as a user taking a sharp screenshot of their phone screen to show proof."
	RoleplayReviewer   = "Act as a regular user posting a review on Reddit or Twitter."
	RoleplayCreator    = "Act as an aesthetic Gen-Z creator sharing a 'Daily Life' update."
	RoleplayDefault    = "Act as a person taking a quick photo to send to a friend via WhatsApp."
)

type Classification struct {
	Format       Format
	DigitalUI    bool
	RawAuthentic bool
	NativeStory  bool
	Roleplay     string
	Enhancer     Enhancer
}

// Classify never fails: unknown formats get every flag false, the default
// roleplay and the professional enhancer.
func Classify(f Format) Classification {
	t := formatTraits[f]
	c := Classification{
		Format:       f,
		DigitalUI:    t&traitDigitalUI != 0,
		RawAuthentic: t&traitRaw != 0,
		NativeStory:  t&traitNativeStory != 0,
	}

	switch {
	case c.DigitalUI:
		c.Roleplay = RoleplayScreenshot
	case c.RawAuthentic:
		c.Roleplay = RoleplayReviewer
	case t&traitCreator != 0:
		c.Roleplay = RoleplayCreator
	default:
		c.Roleplay = RoleplayDefault
	}

	switch {
	case c.RawAuthentic:
		c.Enhancer = EnhancerRaw
	case c.NativeStory:
		c.Enhancer = EnhancerUGC
	default:
		c.Enhancer = EnhancerProfessional
	}
	return c
}

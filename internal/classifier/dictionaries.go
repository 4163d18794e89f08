package classifier

import "github.com/ajitpratap0/leadsegment/internal/models"

// Social platforms detected in traffic-source history.
const (
	PlatformFacebook      Category = "Facebook"
	PlatformInstagram     Category = "Instagram"
	PlatformLinkedIn      Category = "LinkedIn"
	PlatformTwitter       Category = "Twitter"
	PlatformTikTok        Category = "TikTok"
	PlatformYouTube       Category = "YouTube"
	PlatformGoogleAds     Category = "Google_Ads"
	PlatformEventbrite    Category = "Eventbrite"
	PlatformWhatsApp      Category = "WhatsApp"
	PlatformMake          Category = "MAKE"
	PlatformAtomChat      Category = "AtomChat"
	PlatformOrganicSocial Category = "Organic_Social"
)

// Platforms is the platform dictionary, counted in occurrence mode.
var Platforms = MustDictionary(
	Entry{PlatformFacebook, []string{"facebook", "fb.com", "facebook.com", "facebook ads", "facebook lead ads", "fb ads", "meta ads", "fb.me"}},
	Entry{PlatformInstagram, []string{"instagram", "ig.com", "instagram.com", "instagram ads", "ig ads", "insta", "instagr.am"}},
	Entry{PlatformLinkedIn, []string{"linkedin", "linkedin.com", "linkedin ads", "lnkd.in", "linked in"}},
	Entry{PlatformTwitter, []string{"twitter", "twitter.com", "x.com", "twitter ads", "t.co", "tweet", "x ads"}},
	Entry{PlatformTikTok, []string{"tiktok", "tiktok.com", "tiktok ads", "tt ads", "tik tok"}},
	Entry{PlatformYouTube, []string{"youtube", "youtube.com", "youtu.be", "youtube ads", "yt.com", "youtube.mx"}},
	Entry{PlatformGoogleAds, []string{"google ads", "google adwords", "adwords", "googleads", "paid_search", "cpc", "ppc", "sem"}},
	Entry{PlatformEventbrite, []string{"eventbrite", "eventbrite.com", "eventbrite.mx", "evbuc.com"}},
	Entry{PlatformWhatsApp, []string{"whatsapp", "whatsapp.com", "wa.me", "whatsapp business"}},
	Entry{PlatformMake, []string{"make.com", "make", "integromat"}},
	Entry{PlatformAtomChat, []string{"atomchat", "atom chat"}},
	Entry{PlatformOrganicSocial, []string{"organic_social", "organic social", "social"}},
)

// TagPlatforms are the platforms eligible as a contact's dominant platform
// tag. AtomChat and Organic_Social are counted but never tagged.
var TagPlatforms = []Category{
	PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformTwitter,
	PlatformTikTok, PlatformYouTube, PlatformGoogleAds, PlatformEventbrite,
	PlatformWhatsApp, PlatformMake,
}

// SocialKeywords mark a traffic-source value as social.
var SocialKeywords = []string{
	"facebook", "instagram", "linkedin", "twitter", "tiktok", "youtube",
	"social", "fb", "ig", "ads", "eventbrite", "make", "atomchat",
}

// OfflineKeyword marks an offline touchpoint in source history.
const OfflineKeyword = "offline"

// Entry channels detected in promotional-activity history.
const (
	ChannelDigital   Category = models.ChannelDigital
	ChannelEvent     Category = models.ChannelEvent
	ChannelMessaging Category = models.ChannelMessaging
	ChannelNiche     Category = models.ChannelNiche
)

// ChannelPriority breaks ties between entry channels.
var ChannelPriority = []Category{ChannelEvent, ChannelDigital, ChannelMessaging, ChannelNiche}

// Activities is the entry-channel dictionary, counted in presence mode.
var Activities = MustDictionary(
	Entry{ChannelDigital, []string{
		"sitio web", "sitio", "website", "web",
		"formulario", "formulario rua", "rua", "form",
		"google ads", "facebook ads", "ads", "paid search",
		"organic search", "organic", "seo",
		"landing page", "lp",
	}},
	Entry{ChannelEvent, []string{
		"open day", "openday", "open house",
		"fogatada", "fogata",
		"tdla", "tour de la admision", "tour admisión",
		"gira panama", "gira panamá", "panama", "panamá",
		"feria", "feria universitaria", "expo",
		"evento carrera", "eventos carreras",
		"visita campus", "campus tour", "recorrido",
		"conferencia", "charla", "webinar",
		"día de puertas abiertas",
	}},
	Entry{ChannelMessaging, []string{
		"whatsapp", "whats app", "wa",
		"mensaje directo", "direct message", "dm",
		"chat", "messenger",
		"contacto directo", "direct contact",
		"llamada", "phone call", "call",
	}},
	Entry{ChannelNiche, []string{
		"lion leaders", "lion leader", "leaders",
		"programa especial", "special program",
		"beca", "scholarship", "becas",
		"intercambio", "exchange",
		"embajador", "ambassador", "embajadores",
		"referido", "referral", "referred",
		"alumni", "ex-alumno",
	}},
)

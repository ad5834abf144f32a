package models

import "strings"

// TrustTier is the classification the platform encodes in a user's tags.
type TrustTier int

const (
	TrustVisitor TrustTier = iota
	TrustNew
	TrustUser
	TrustKnown
	TrustTrusted
	TrustVeteran
)

func (t TrustTier) String() string {
	switch t {
	case TrustNew:
		return "new user"
	case TrustUser:
		return "user"
	case TrustKnown:
		return "known user"
	case TrustTrusted:
		return "trusted user"
	case TrustVeteran:
		return "veteran user"
	default:
		return "visitor"
	}
}

// Trust is the classification derived from a user's merged tags. Pure
// function of the tag set; recomputed unconditionally on every merge.
type Trust struct {
	Tier        TrustTier
	ColorClass  string
	IsModerator bool
	IsTroll     bool
	IsSupporter bool
}

var trustTierTags = map[string]TrustTier{
	"system_trust_basic":   TrustNew,
	"system_trust_known":   TrustUser,
	"system_trust_trusted": TrustKnown,
	"system_trust_veteran": TrustTrusted,
	"system_trust_legend":  TrustVeteran,
}

// ComputeTrust classifies a tag set. Moderator and troll flags override the
// tier's display color: moderators show as moderators regardless of tier, and
// trolls likewise.
func ComputeTrust(tags []string) Trust {
	var tr Trust
	for _, tag := range tags {
		if tier, ok := trustTierTags[tag]; ok && tier > tr.Tier {
			tr.Tier = tier
		}
		switch tag {
		case "admin_moderator":
			tr.IsModerator = true
		case "system_troll", "system_probable_troll":
			tr.IsTroll = true
		case "system_supporter", "system_early_adopter":
			tr.IsSupporter = true
		}
	}

	switch {
	case tr.IsModerator:
		tr.ColorClass = "moderator"
	case tr.IsTroll:
		tr.ColorClass = "troll"
	default:
		tr.ColorClass = trustColorClass(tr.Tier)
	}
	return tr
}

func trustColorClass(tier TrustTier) string {
	switch tier {
	case TrustNew:
		return "basic"
	case TrustUser:
		return "known"
	case TrustKnown:
		return "trusted"
	case TrustTrusted:
		return "veteran"
	case TrustVeteran:
		return "legend"
	default:
		return "untrusted"
	}
}

// languageNames maps the platform's language tag suffixes to display names.
var languageNames = map[string]string{
	"eng": "English",
	"kor": "한국어",
	"rus": "Русский",
	"spa": "Español",
	"por": "Português",
	"zho": "中文",
	"deu": "Deutsch",
	"jpn": "日本語",
	"fra": "Français",
	"swe": "Svenska",
	"nld": "Nederlands",
	"pol": "Polski",
	"dan": "Dansk",
	"nor": "Norsk",
	"ita": "Italiano",
	"tha": "ภาษาไทย",
	"fin": "Suomi",
	"hun": "Magyar",
	"ces": "Čeština",
	"tur": "Türkçe",
	"ara": "العربية",
	"ron": "Română",
	"vie": "Tiếng Việt",
	"ukr": "Українська",
	"ase": "American Sign Language",
	"bfi": "British Sign Language",
	"dse": "Dutch Sign Language",
	"fsl": "French Sign Language",
	"tok": "Toki Pona",
}

// ComputeLanguages extracts the human-readable language list from a tag set.
// Unknown codes are kept as-is so new platform languages still surface.
func ComputeLanguages(tags []string) []string {
	langs := []string{}
	for _, tag := range tags {
		code, ok := strings.CutPrefix(tag, "language_")
		if !ok {
			continue
		}
		if name, known := languageNames[code]; known {
			langs = append(langs, name)
		} else {
			langs = append(langs, code)
		}
	}
	return langs
}

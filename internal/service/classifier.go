package service

import (
	"regexp"
	"strings"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

var scamKeywords = []string{"steamcommunity", "steamtrade", "freegame", "giveaway"}

var inviteMarkers = []string{"discord.gg", "discord.com/invite", "discordapp.com/invite"}

var spamPatterns = compileAll(
	`discord\.gg/\w+`,
	`discord\.com/invite/\w+`,
	`discordapp\.com/invite/\w+`,
	`@everyone|@here`,
	`gratis|free|money|dinero`,
	`telegram\.me|t\.me`,
	`whatsapp|wa\.me`,
)

var steamScamPatterns = compileAll(
	`steam.*gift`,
	`cs.*go.*skin`,
	`steam.*trade`,
	`steamcommunity.*com.*profiles`,
	`steam.*wallet`,
	`free.*steam`,
	`steam.*code`,
	`votekick.*com|csgopolygon|skinbaron`,
)

var adPatterns = compileAll(
	`compra|venta|vendo|buy|sell`,
	`precio|price|€|\$|usd|eur`,
	`tienda|shop|store`,
	`descuento|discount|oferta|offer`,
	`amazon|mercadolibre|ebay`,
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Classifier maps message text to a violation category. It holds only
// compiled patterns and is safe for concurrent use.
type Classifier struct {
	groups []patternGroup
}

type patternGroup struct {
	category model.ViolationCategory
	patterns []*regexp.Regexp
}

func NewClassifier() *Classifier {
	return &Classifier{
		groups: []patternGroup{
			{category: model.ViolationSpam, patterns: spamPatterns},
			{category: model.ViolationScam, patterns: steamScamPatterns},
			{category: model.ViolationAdvertisement, patterns: adPatterns},
		},
	}
}

// Classify returns the first matching category, or ViolationNone.
// URL checks run before the text pattern groups.
func (c *Classifier) Classify(text string) model.ViolationCategory {
	if category := classifyURLs(ExtractURLs(text)); category.IsViolation() {
		return category
	}

	lower := strings.ToLower(text)
	for _, g := range c.groups {
		for _, p := range g.patterns {
			if p.MatchString(lower) {
				return g.category
			}
		}
	}
	return model.ViolationNone
}

// ExtractURLs returns every scheme-prefixed token in text.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

func classifyURLs(urls []string) model.ViolationCategory {
	if len(urls) == 0 {
		return model.ViolationNone
	}
	lowered := make([]string, len(urls))
	for i, u := range urls {
		lowered[i] = strings.ToLower(u)
	}
	if anyContains(lowered, scamKeywords) {
		return model.ViolationScam
	}
	if anyContains(lowered, inviteMarkers) {
		return model.ViolationSpam
	}
	return model.ViolationNone
}

func anyContains(haystacks, needles []string) bool {
	for _, h := range haystacks {
		for _, n := range needles {
			if strings.Contains(h, n) {
				return true
			}
		}
	}
	return false
}

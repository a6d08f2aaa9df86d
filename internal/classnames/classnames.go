package classnames

import (
	"regexp"
	"strings"
)

// HostedClass is the bucket for hosted sessions and special events.
const HostedClass = "Hosted Class"

type rule struct {
	pattern *regexp.Regexp
	name    string
	// express is used instead of name when the raw class name mentions "express".
	express string
}

func (r rule) canonical(raw string) string {
	if r.express != "" && strings.Contains(strings.ToLower(raw), "express") {
		return r.express
	}
	return r.name
}

func family(pattern, name, express string) rule {
	return rule{
		pattern: regexp.MustCompile(`(?i)` + pattern),
		name:    name,
		express: express,
	}
}

// rules are matched in order, first match wins.
var rules = []rule{
	family(`barre\s*57`, "Studio Barre 57", "Studio Barre 57 Express"),
	family(`cardio\s*barre\s*plus`, "Studio Cardio Barre Plus", ""),
	family(`cardio\s*barre`, "Studio Cardio Barre", "Studio Cardio Barre Express"),
	family(`mat\s*57`, "Studio Mat 57", "Studio Mat 57 Express"),
	family(`back\s*body\s*blaze`, "Studio Back Body Blaze", "Studio Back Body Blaze Express"),
	family(`power\s*cycle`, "Studio PowerCycle", "Studio PowerCycle Express"),
	family(`hiit`, "Studio HIIT", ""),
	family(`amped\s*up`, "Studio Amped Up!", ""),
	family(`foundations`, "Studio Foundations", ""),
	family(`sweat\s*in\s*30`, "Studio SWEAT In 30", ""),
	family(`recovery`, "Studio Recovery", ""),
	family(`pre/?\s*post\s*natal`, "Studio Pre/Post Natal", ""),
	family(`strength\s*lab`, "Studio Strength Lab", ""),
	family(`trainer'?s?\s*choice`, "Studio Trainer's Choice", ""),
	family(`\bfit\b`, "Studio FIT", ""),
	family(`barre`, "Studio Barre 57", "Studio Barre 57 Express"),
	family(`cardio`, "Studio Cardio Barre", "Studio Cardio Barre Express"),
	family(`\bmat\b`, "Studio Mat 57", "Studio Mat 57 Express"),
}

// hostedKeywords are matched as plain case-insensitive substrings. The single
// letter "x" is part of the list and matches any name containing an x.
var hostedKeywords = []string{
	"hosted", "bridal", "lrs", "x", "p57", "birthday", "workshop", "corporate",
	"private", "event", "launch", "collab", "popup", "pop-up", "charity", "influencer",
}

var hostedPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(hostedKeywords))
	for i, keyword := range hostedKeywords {
		out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword))
	}
	return out
}()

// Normalize maps a free-text class name to its canonical class type. Names that
// match no known family and no hosted keyword are returned unchanged.
func Normalize(raw string) string {
	for _, r := range rules {
		if r.pattern.MatchString(raw) {
			return r.canonical(raw)
		}
	}
	for _, pattern := range hostedPatterns {
		if pattern.MatchString(raw) {
			return HostedClass
		}
	}
	return raw
}

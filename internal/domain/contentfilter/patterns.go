package contentfilter

import "regexp"

// platforms named in handle-sharing phrases
const (
	platformNames = `insta(?:gram)?|ig|snap(?:chat)?|tiktok|discord|telegram|kik|whatsapp|twitter`
	platforms     = `(?:` + platformNames + `)`
)

// Patterns are compiled once and safe for concurrent use.
// Each family is checked in order; the first match decides the reason.
var piiChecks = []patternCheck{
	{
		reason: "Contains phone number",
		// +1 555-123-4567, (555) 123 4567, 555.123.4567, 5551234567.
		// Area codes never start with 0 or 1, which keeps runs of small numbers out.
		re: regexp.MustCompile(`(?:^|[^\d])(?:\+?1[\s.-]?)?\(?[2-9]\d{2}\)?[\s.-]?\d{3}[\s.-]?\d{4}(?:[^\d]|$)`),
	},
	{
		reason: "Contains email address",
		re:     regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`),
	},
	{
		reason: "Contains street address",
		re: regexp.MustCompile(`(?i)\b\d{1,5}\s+(?:[a-z0-9.']+\s+){1,2}` +
			`(?:street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|court|ct|circle|cir|terrace|parkway|pkwy)\b`),
	},
	{
		reason: "Contains social media handle",
		// A bare platform mention ("a snap: easy") needs a handle-like token:
		// an @ prefix, or a digit or underscore somewhere in it.
		re: regexp.MustCompile(`(?i)(?:^|\s)@[a-z0-9_.]{3,}` +
			`|\b` + platforms + `\s*(?:handle|username|user|id|name)\s*(?:is|:|=)\s*@?[a-z0-9_.]{3,}` +
			`|\b` + platforms + `\s*(?:is|:|=)\s*(?:@[a-z0-9_.]{3,}|[a-z0-9_.]{2,}[0-9_][a-z0-9_.]*|[a-z0-9_.]*[0-9_][a-z0-9_.]{2,})` +
			`|\b(?:add|follow|dm|message|text|find)\s+me\s+on\s+(?:` + platformNames + `|facebook|fb)\b`),
	},
	{
		reason: "Contains meetup request",
		re: regexp.MustCompile(`(?i)\b(?:meet\s+(?:me|up)\s+(?:at|in|behind|outside|near)` +
			`|come\s+(?:over\s+)?to\s+my\s+(?:house|place|home|apartment)` +
			`|my\s+address\s+is|i\s+live\s+(?:at|on)` +
			`|what(?:'s|\s+is)\s+your\s+(?:address|home\s+address)` +
			`|where\s+do\s+you\s+live)\b`),
	},
}

var linkChecks = []patternCheck{
	{reason: "Contains link", re: regexp.MustCompile(`(?i)\bhttps?://\S+`)},
	{reason: "Contains link", re: regexp.MustCompile(`(?i)\bwww\.\S+`)},
	{
		reason: "Contains video call or short link",
		re: regexp.MustCompile(`(?i)\b(?:zoom\.us|meet\.google\.com|teams\.microsoft\.com|discord\.gg|` +
			`whereby\.com|skype\.com|facetime|bit\.ly|tinyurl\.com|t\.co|goo\.gl|ow\.ly|is\.gd|rb\.gy|cutt\.ly)\b`),
	},
	{
		// Bare domains. The TLD is matched lowercase only so sentence joins
		// like "work.Me" or "etc.Info" are not read as hosts.
		reason: "Contains link",
		re:     regexp.MustCompile(`\b[A-Za-z0-9-]{2,}\.(?:com|net|org|io|co|me|ly|gg|app|xyz|info|biz)\b`),
	},
}

type patternCheck struct {
	reason string
	re     *regexp.Regexp
}

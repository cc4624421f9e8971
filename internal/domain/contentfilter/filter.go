// Package contentfilter validates user text before it is stored: length, PII
// (phone, email, street address, social handles, meetup requests), links, and
// whole-word blocklist terms after leetspeak normalization.
package contentfilter

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
	"github.com/neighborly/neighborly-api/internal/pkg/metrics"
)

// Code classifies a rejection
type Code string

const (
	CodeBlocked Code = "BLOCKED"
	CodePII     Code = "PII"
	CodeLink    Code = "LINK"
)

// Rejection explains why text was refused
type Rejection struct {
	Code   Code
	Reason string
}

func (r *Rejection) Error() string { return string(r.Code) + ": " + r.Reason }

// Blocklists are the admin-managed term lists. Terms may be single words or phrases.
type Blocklists struct {
	Profanity []string `json:"profanity"`
	Sexual    []string `json:"sexual"`
	SelfHarm  []string `json:"selfHarm"`
}

type blocklist struct {
	reason string
	terms  []string // normalized, space-padded
}

// Filter is immutable after New and safe for concurrent use
type Filter struct {
	lists []blocklist
}

// Provider returns a filter built from the current blocklists
type Provider interface {
	Filter(ctx context.Context) (*Filter, error)
}

// New builds a filter from blocklists
func New(lists Blocklists) *Filter {
	return &Filter{lists: []blocklist{
		{reason: "Inappropriate language is not allowed", terms: normalizeTerms(lists.Profanity)},
		{reason: "Sexual content is not allowed", terms: normalizeTerms(lists.Sexual)},
		{reason: "This message mentions self-harm. If you are struggling, please reach out to a trusted adult or a crisis line", terms: normalizeTerms(lists.SelfHarm)},
	}}
}

// FilterText returns the trimmed, whitespace-collapsed text, or a rejection.
// Empty input is accepted as empty. Length is checked first, then PII, then
// links, then blocklist terms.
func (f *Filter) FilterText(raw string, maxLen int) (string, *Rejection) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", &Rejection{Code: CodeBlocked, Reason: "Text too long"}
	}

	for _, c := range piiChecks {
		if c.re.MatchString(trimmed) {
			return "", &Rejection{Code: CodePII, Reason: c.reason}
		}
	}

	for _, c := range linkChecks {
		if c.re.MatchString(trimmed) {
			return "", &Rejection{Code: CodeLink, Reason: c.reason}
		}
	}

	padded := " " + Normalize(trimmed) + " "
	for _, l := range f.lists {
		for _, term := range l.terms {
			if strings.Contains(padded, term) {
				return "", &Rejection{Code: CodeBlocked, Reason: l.reason}
			}
		}
	}

	return strings.Join(strings.Fields(trimmed), " "), nil
}

// FilterStrict is FilterText plus flood checks, used for report descriptions
func (f *Filter) FilterStrict(raw string, maxLen int) (string, *Rejection) {
	text, rej := f.FilterText(raw, maxLen)
	if rej != nil {
		return "", rej
	}
	if hasCharFlood(text) {
		return "", &Rejection{Code: CodeBlocked, Reason: "Character flooding is not allowed"}
	}
	if hasWordFlood(text) {
		return "", &Rejection{Code: CodeBlocked, Reason: "Repeated words are not allowed"}
	}
	return text, nil
}

// Check filters one request field and converts a rejection into an
// invalid-argument error naming the field
func (f *Filter) Check(field, raw string, maxLen int) (string, error) {
	text, rej := f.FilterText(raw, maxLen)
	return text, rejectionError(field, rej)
}

// CheckStrict is Check with FilterStrict
func (f *Filter) CheckStrict(field, raw string, maxLen int) (string, error) {
	text, rej := f.FilterStrict(raw, maxLen)
	return text, rejectionError(field, rej)
}

// ErrRejected is the sentinel behind every filter rejection
var ErrRejected = apperr.InvalidArgument("Text was rejected by the content filter")

func rejectionError(field string, rej *Rejection) error {
	if rej == nil {
		return nil
	}
	metrics.ContentRejections.WithLabelValues(string(rej.Code)).Inc()
	return &apperr.Error{
		Code:    apperr.CodeInvalidArgument,
		Message: rej.Reason,
		Details: map[string]string{"field": field, "filter_code": string(rej.Code)},
		Err:     ErrRejected,
	}
}

var leet = map[rune]rune{
	'$': 's',
	'@': 'a',
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
}

// Normalize lowercases, folds leetspeak substitutions, turns punctuation into
// spaces and collapses whitespace
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if m, ok := leet[r]; ok {
			r = m
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := Normalize(t); n != "" {
			out = append(out, " "+n+" ")
		}
	}
	return out
}

// hasCharFlood reports 5 or more identical consecutive characters
func hasCharFlood(text string) bool {
	const threshold = 5

	count := 1
	prev := rune(-1)
	for _, r := range text {
		if r == prev {
			count++
			if count >= threshold {
				return true
			}
		} else {
			count = 1
			prev = r
		}
	}
	return false
}

// hasWordFlood reports the same word 3 or more times in a row
func hasWordFlood(text string) bool {
	const threshold = 3

	count := 1
	prev := ""
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if w == prev {
			count++
			if count >= threshold {
				return true
			}
		} else {
			count = 1
			prev = w
		}
	}
	return false
}

// Static is a Provider that always returns the same filter
type Static struct{ F *Filter }

func (s Static) Filter(context.Context) (*Filter, error) { return s.F, nil }

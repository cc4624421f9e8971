package contentfilter

import (
	"errors"
	"strings"
	"testing"

	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
)

func testFilter() *Filter {
	return New(Blocklists{
		Profanity: []string{"shit", "Damn It"},
		Sexual:    []string{"nude"},
		SelfHarm:  []string{"kill myself"},
	})
}

func TestFilterText(t *testing.T) {
	f := testFilter()

	tests := []struct {
		name  string
		input string
		code  Code
		want  string
	}{
		{"clean text", "I can walk your dog after school", "", "I can walk your dog after school"},
		{"collapses whitespace", "  Great   with\tkids \n ", "", "Great with kids"},
		{"empty", "   ", "", ""},
		{"email", "email me at a@b.com", CodePII, ""},
		{"phone dashes", "call 555-123-4567 tonight", CodePII, ""},
		{"phone parens", "my cell is (555) 123 4567", CodePII, ""},
		{"street address", "I am at 123 Main St", CodePII, ""},
		{"social handle", "follow @sunny_teen", CodePII, ""},
		{"platform handle", "my snap is sunnyteen22", CodePII, ""},
		{"add me on", "add me on insta", CodePII, ""},
		{"meetup phrase", "meet me at the mall", CodePII, ""},
		{"where do you live", "where do you live?", CodePII, ""},
		{"url", "see https://example.com/x", CodeLink, ""},
		{"www", "go to www.example.org", CodeLink, ""},
		{"video call", "join zoom.us/j/123", CodeLink, ""},
		{"short link", "bit.ly/abc", CodeLink, ""},
		{"bare domain", "check mysite.io", CodeLink, ""},
		{"leet profanity", "sh1t is not allowed", CodeBlocked, ""},
		{"dollar leet", "$hit happens", CodeBlocked, ""},
		{"punctuation split", "oh, shit!", CodeBlocked, ""},
		{"substring is fine", "shitake mushrooms", "", "shitake mushrooms"},
		{"phrase term", "DAMN, it broke", CodeBlocked, ""},
		{"sexual list", "send nude pics", CodeBlocked, ""},
		{"self harm list", "I want to kill myself", CodeBlocked, ""},
		{"self harm partial no match", "kill myselfie", "", "kill myselfie"},
		{"price is fine", "I charge 15 per hour, 2 hours minimum", "", "I charge 15 per hour, 2 hours minimum"},
		{"walking distance is fine", "I walk 3 dogs on my street", "", "I walk 3 dogs on my street"},
		{"sentence join is not a domain", "yard work.Me and my brother", "", "yard work.Me and my brother"},
		{"etc join is not a domain", "etc.Info on request", "", "etc.Info on request"},
		{"platform word without handle", "Babysitting is a snap: easy", "", "Babysitting is a snap: easy"},
		{"small number runs", "grades 100 200 3000", "", "grades 100 200 3000"},
		{"platform username", "my snapchat username is sam", CodePII, ""},
		{"platform handle underscore", "my ig: sam_k", CodePII, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rej := f.FilterText(tt.input, 500)
			if tt.code == "" {
				if rej != nil {
					t.Fatalf("FilterText(%q) rejected: %v", tt.input, rej)
				}
				if got != tt.want {
					t.Fatalf("FilterText(%q) = %q, want %q", tt.input, got, tt.want)
				}
				return
			}
			if rej == nil {
				t.Fatalf("FilterText(%q) accepted, want %s", tt.input, tt.code)
			}
			if rej.Code != tt.code {
				t.Fatalf("FilterText(%q).Code = %s, want %s (%s)", tt.input, rej.Code, tt.code, rej.Reason)
			}
		})
	}
}

func TestFilterTextReasons(t *testing.T) {
	f := testFilter()

	tests := []struct {
		input  string
		reason string
	}{
		{"call 555-123-4567", "Contains phone number"},
		{"email me at a@b.com", "Contains email address"},
		{"I am at 123 Main St", "Contains street address"},
		{"follow @sunny_teen", "Contains social media handle"},
		{"meet me at the mall", "Contains meetup request"},
		{"see https://example.com/x", "Contains link"},
		{strings.Repeat("a", 501), "Text too long"},
	}
	for _, tt := range tests {
		_, rej := f.FilterText(tt.input, 500)
		if rej == nil || rej.Reason != tt.reason {
			t.Fatalf("FilterText(%q) = %v, want reason %q", tt.input, rej, tt.reason)
		}
	}
}

func TestFilterTextLength(t *testing.T) {
	f := testFilter()

	if _, rej := f.FilterText(strings.Repeat("a", 10), 10); rej != nil {
		t.Fatalf("expected text at limit to pass, got %v", rej)
	}
	_, rej := f.FilterText(strings.Repeat("a", 11), 10)
	if rej == nil || rej.Code != CodeBlocked {
		t.Fatalf("expected BLOCKED for long text, got %v", rej)
	}
	// Multi-byte runes count once.
	if _, rej := f.FilterText(strings.Repeat("é", 10), 10); rej != nil {
		t.Fatalf("expected 10 runes to pass, got %v", rej)
	}
}

func TestFilterStrictFlooding(t *testing.T) {
	f := testFilter()

	if _, rej := f.FilterStrict("this is soooooo rude", 500); rej == nil {
		t.Fatalf("expected char flood rejection")
	}
	if _, rej := f.FilterStrict("spam spam spam everywhere", 500); rej == nil {
		t.Fatalf("expected word flood rejection")
	}
	if _, rej := f.FilterStrict("they keep sending rude messages", 500); rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
}

func TestCheckReturnsInvalidArgument(t *testing.T) {
	f := testFilter()

	_, err := f.Check("text", "email me at a@b.com", 500)
	if apperr.CodeOf(err) != apperr.CodeInvalidArgument {
		t.Fatalf("expected invalid-argument, got %v", err)
	}
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected in chain")
	}
	var e *apperr.Error
	if !errors.As(err, &e) || e.Details["filter_code"] != string(CodePII) || e.Details["field"] != "text" {
		t.Fatalf("unexpected details: %+v", e)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Sh1t!":          "shit",
		"  $4ND  w1CH ":  "sand wich",
		"hello,world":    "hello world",
		"n0 pr0bl3m...":  "no problem",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

package merchant

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain name uppercased",
			input: "netflix",
			want:  "NETFLIX",
		},
		{
			name:  "separators collapse to single spaces",
			input: "big__bazaar--retail",
			want:  "BIG BAZAAR RETAIL",
		},
		{
			name:  "trailing business suffix stripped",
			input: "NETFLIX Inc",
			want:  "NETFLIX",
		},
		{
			name:  "stacked suffixes stripped repeatedly",
			input: "Company Name Pvt Ltd",
			want:  "COMPANY NAME",
		},
		{
			name:  "domain extension stripped",
			input: "netflix.com",
			want:  "NETFLIX",
		},
		{
			name:  "www prefix and domain stripped",
			input: "www.netflix.com",
			want:  "NETFLIX",
		},
		{
			name:  "domain strip exposes further suffix",
			input: "acme ltd.com",
			want:  "ACME",
		},
		{
			name:  "suffix only matched as complete trailing token",
			input: "Commonwealth Bank",
			want:  "COMMONWEALTH BANK",
		},
		{
			name:  "suffix token never stripped to empty",
			input: "CO",
			want:  "CO",
		},
		{
			name:  "blank input",
			input: "   ",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "indian tld",
			input: "flipkart.in",
			want:  "FLIPKART",
		},
		{
			name:  "punctuation heavy upi handle",
			input: "  swiggy-instamart.co.in ",
			want:  "SWIGGY INSTAMART",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"www.netflix.com",
		"Company Name Pvt Ltd",
		"Commonwealth Bank",
		"swiggy-instamart.co.in",
		"",
		"  spaced   out  name  ",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize should be idempotent for %q", in)
	}
}

func TestNormalize_VariantsConverge(t *testing.T) {
	variants := []string{"Netflix", "NETFLIX Inc", "netflix.com", "www.netflix.com", "NETFLIX"}
	for _, v := range variants {
		assert.Equal(t, "NETFLIX", Normalize(v), "variant %q", v)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Netflix", "NETFLIX Inc"))
	assert.True(t, Matches("  ", ""), "two blank inputs both normalize to empty")
	assert.False(t, Matches("Netflix", "Spotify"))
}

func TestMatchesAny(t *testing.T) {
	patterns := []string{"spotify", "netflix.com"}

	assert.True(t, MatchesAny("NETFLIX", patterns))
	assert.False(t, MatchesAny("NETFLIX", nil), "empty pattern list never matches")
	assert.False(t, MatchesAny("Hotstar", patterns))
}

func TestFindBestMatch(t *testing.T) {
	candidates := []string{"Amazon Prime", "netflix.com", "NETFLIX Inc"}

	got, ok := FindBestMatch("Netflix", candidates)
	assert.True(t, ok)
	assert.Equal(t, "netflix.com", got, "first matching candidate in list order wins")

	_, ok = FindBestMatch("Zomato", candidates)
	assert.False(t, ok)
}

func TestGroupByNormalized(t *testing.T) {
	merchants := []string{"Netflix", "netflix.com", "  ", "Spotify", "", "www.spotify.com"}

	groups := GroupByNormalized(merchants)

	assert.Len(t, groups, 2)
	assert.Equal(t, []string{"Netflix", "netflix.com"}, groups["NETFLIX"])
	assert.NotContains(t, groups, "", "blank entries are dropped before grouping")
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("HDFC Home Loan EMI", "emi"))
	assert.True(t, Contains("Netflix", ""), "empty keyword is contained in any non-empty merchant")
	assert.False(t, Contains("", ""), "blank merchant contains nothing")
	assert.False(t, Contains("Netflix", "loan"))
}

func TestMatchesPattern(t *testing.T) {
	re := regexp.MustCompile(`^NETFLIX( |$)`)

	assert.True(t, MatchesPattern("www.netflix.com", re))
	assert.False(t, MatchesPattern("Not Netflix", re))
	assert.False(t, MatchesPattern("netflix", nil))
}

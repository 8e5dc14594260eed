package market

import "strings"

type Category string

const (
	CategorySports        Category = "sports"
	CategoryPolitics      Category = "politics"
	CategoryCrypto        Category = "crypto"
	CategoryEconomics     Category = "economics"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

type keywordSet struct {
	category Category
	keywords []string
}

// Keyword sets overlap ("price" is in crypto, "award" could show up
// anywhere), so match order decides ties. Sports is checked first,
// entertainment last.
var categoryKeywords = []keywordSet{
	{CategorySports, []string{
		"sport", "game", "match", "team", "player", "nfl", "nba", "mlb",
		"nhl", "soccer", "football", "basketball", "baseball", "hockey",
		"championship", "tournament", "playoff", "super bowl", "world cup",
	}},
	{CategoryPolitics, []string{
		"election", "president", "senate", "congress", "vote", "candidate",
		"democrat", "republican", "trump", "biden", "political", "policy",
	}},
	{CategoryCrypto, []string{
		"bitcoin", "btc", "ethereum", "eth", "crypto", "cryptocurrency",
		"blockchain", "defi", "nft", "token", "coin", "price", "market cap",
	}},
	{CategoryEconomics, []string{
		"gdp", "inflation", "unemployment", "fed", "federal reserve",
		"interest rate", "economy", "economic", "recession",
	}},
	{CategoryEntertainment, []string{
		"movie", "film", "oscar", "grammy", "award", "celebrity",
		"actor", "actress", "music", "album", "tv show", "television",
	}},
}

// Categorize classifies a market by keyword search over its question,
// description and tags.
func Categorize(question, description string, tags []string) Category {
	var b strings.Builder
	b.WriteString(strings.ToLower(question))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(description))
	for _, tag := range tags {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(tag))
	}
	text := b.String()

	for _, set := range categoryKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(text, kw) {
				return set.category
			}
		}
	}
	return CategoryOther
}

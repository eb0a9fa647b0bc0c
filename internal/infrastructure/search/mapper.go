package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Result page selectors
const (
	resultSelector  = ".result"
	titleSelector   = ".result__a"
	snippetSelector = ".result__snippet"
)

// ExtractSnippets flattens a results page into "title\nsnippet" blocks separated by blank lines.
// Pages without recognizable result blocks fall back to their whitespace-collapsed body text.
func ExtractSnippets(page string, limit int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var blocks []string
	doc.Find(resultSelector).EachWithBreak(func(i int, result *goquery.Selection) bool {
		if limit > 0 && len(blocks) >= limit {
			return false
		}
		title := collapse(result.Find(titleSelector).First().Text())
		snippet := collapse(result.Find(snippetSelector).First().Text())
		if title == "" && snippet == "" {
			return true
		}
		blocks = append(blocks, strings.TrimSpace(title+"\n"+snippet))
		return true
	})

	if len(blocks) == 0 {
		return collapse(doc.Find("body").Text())
	}
	return strings.Join(blocks, "\n\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Package extract flattens HTML fragments found in catalog text into plain text.
//
// Catalog descriptions scraped from web pages often carry markup ("<p>", "<br>",
// "&amp;"). Left in place, tag names would become vocabulary terms, so text is
// flattened at ingestion before any term extraction happens.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tagRegex    = regexp.MustCompile(`</?([a-zA-Z][a-zA-Z0-9]*)(?:\s[^<>]*)?/?>`)
	entityRegex = regexp.MustCompile(`&[a-zA-Z]+;|&#[0-9]+;`)
)

// blockSelector lists elements whose boundaries separate words.
const blockSelector = "address,article,aside,blockquote,br,dd,div,dl,dt,footer,h1,h2,h3,h4,h5,h6,header,hr,li,ol,p,pre,section,table,td,th,tr,ul"

// inlineElements are the other tag names treated as markup. "<Roll>" in a
// title is not one of them.
var inlineElements = []string{
	"a", "abbr", "b", "body", "cite", "code", "del", "em", "font", "html", "i", "img",
	"ins", "mark", "noscript", "q", "s", "script", "small", "span", "strong", "style",
	"sub", "sup", "template", "u",
}

var knownElements = func() map[string]bool {
	m := make(map[string]bool)
	for _, name := range strings.Split(blockSelector, ",") {
		m[name] = true
	}
	for _, name := range inlineElements {
		m[name] = true
	}
	return m
}()

// LooksLikeHTML reports whether s contains a known HTML element or an entity.
func LooksLikeHTML(s string) bool {
	if entityRegex.MatchString(s) {
		return true
	}
	for _, m := range tagRegex.FindAllStringSubmatch(s, -1) {
		if knownElements[strings.ToLower(m[1])] {
			return true
		}
	}
	return false
}

// PlainText returns s with HTML removed and whitespace collapsed to single spaces.
// Text without markup is only whitespace-normalized. If parsing fails the
// whitespace-normalized input is returned.
func PlainText(s string) string {
	if !LooksLikeHTML(s) {
		return collapse(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}

	doc.Find("script,style,noscript,template").Remove()
	// pad block boundaries so "<p>a</p><p>b</p>" reads "a b"
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		sel.BeforeHtml(" ")
		sel.AppendHtml(" ")
	})

	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

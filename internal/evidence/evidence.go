// Package evidence normalizes raw page markup into the view consumed by
// every detector and the price pipeline. Parsing is best-effort: malformed
// markup never fails an analysis, it just yields a sparser view.
package evidence

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// Element is a role-tagged page element. Nearby carries surrounding text
// for elements (like checkboxes) whose own text is empty.
type Element struct {
	Text   string
	Nearby string
}

// View is the per-analysis evidence snapshot. Built once per fetch and
// read-only afterward.
type View struct {
	PlainText string // lower-cased visible text
	RawMarkup string
	Domain    string
	Offers    []model.Offer

	doc           *goquery.Document
	checked       []Element
	preselected   []Element
	strikethrough []Element
	smallPrint    []Element
}

var countdownKeywords = []string{
	"countdown", "timer", "offer ends", "ends in", "deal ends",
	"limited time", "flash sale",
}

var clockRe = regexp.MustCompile(`\d{1,2}:\d{2}:\d{2}`)

// New builds a View from raw markup. On a parser failure the view still
// carries plain text and raw markup, with empty structured data.
func New(markup, domain string) *View {
	v := &View{
		PlainText: stripMarkup(markup),
		RawMarkup: markup,
		Domain:    strings.ToLower(domain),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return v
	}
	v.doc = doc
	v.Offers = extractOffers(doc)
	v.collectTagged(doc)
	return v
}

// CheckedBoxes returns checkboxes that are checked in the initial markup.
func (v *View) CheckedBoxes() []Element { return v.checked }

// PreselectedOptions returns option elements selected by default.
func (v *View) PreselectedOptions() []Element { return v.preselected }

// Strikethrough returns elements rendered with struck-through text.
func (v *View) Strikethrough() []Element { return v.strikethrough }

// SmallPrint returns fine-print elements.
func (v *View) SmallPrint() []Element { return v.smallPrint }

// CountdownLike reports whether the page shows countdown hints.
func (v *View) CountdownLike() bool {
	for _, kw := range countdownKeywords {
		if strings.Contains(v.PlainText, kw) {
			return true
		}
	}
	return clockRe.MatchString(v.PlainText)
}

// Find runs a selector query against the parsed document. Returns an
// empty selection when parsing failed.
func (v *View) Find(selector string) *goquery.Selection {
	if v.doc == nil {
		return new(goquery.Selection)
	}
	return v.doc.Find(selector)
}

func (v *View) collectTagged(doc *goquery.Document) {
	doc.Find(`input[type="checkbox"][checked]`).Each(func(_ int, s *goquery.Selection) {
		nearby := strings.ToLower(strings.TrimSpace(s.Parent().Text()))
		v.checked = append(v.checked, Element{Nearby: clip(nearby, 100)})
	})
	doc.Find(`option[selected]`).Each(func(_ int, s *goquery.Selection) {
		v.preselected = append(v.preselected, Element{Text: strings.ToLower(strings.TrimSpace(s.Text()))})
	})
	doc.Find(`del, s, strike, [style*="line-through"]`).Each(func(_ int, s *goquery.Selection) {
		v.strikethrough = append(v.strikethrough, Element{Text: strings.TrimSpace(s.Text())})
	})
	doc.Find(`small, span[class*="small"], span[class*="fine"], span[class*="print"], span[class*="hidden"], div[class*="fine"]`).
		Each(func(_ int, s *goquery.Selection) {
			v.smallPrint = append(v.smallPrint, Element{Text: strings.ToLower(strings.TrimSpace(s.Text()))})
		})
}

// clip truncates to at most n bytes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var (
	blockTagRes = func() []*regexp.Regexp {
		var res []*regexp.Regexp
		for _, tag := range []string{"script", "style", "nav", "footer"} {
			res = append(res, regexp.MustCompile(`(?is)<`+tag+`[^>]*>.*?</`+tag+`>`))
		}
		return res
	}()
	tagRe   = regexp.MustCompile(`<[^>]+>`)
	spaceRe = regexp.MustCompile(`[ \t]+`)
	nlRe    = regexp.MustCompile(`\n{3,}`)
)

// stripMarkup removes scripts/styles/nav/footer, strips tags, decodes
// entities, collapses whitespace, and lower-cases the result.
func stripMarkup(html string) string {
	for _, re := range blockTagRes {
		html = re.ReplaceAllString(html, "")
	}

	html = tagRe.ReplaceAllString(html, " ")

	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	html = r.Replace(html)

	html = spaceRe.ReplaceAllString(html, " ")
	html = nlRe.ReplaceAllString(html, "\n\n")

	return strings.ToLower(strings.TrimSpace(html))
}

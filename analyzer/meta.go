package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// AnalyzeMeta fetches the page and classifies its meta data against the
// configured thresholds. Findings come back in a fixed order: Title,
// Description, Canonical, Open Graph, Twitter Card, Viewport, Language, H1.
func (a *Analyzer) AnalyzeMeta(ctx context.Context, rawURL string) ([]MetaTagFinding, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, pageFetchTimeout)
	defer cancel()

	doc, err := a.fetcher.document(fetchCtx, rawURL)
	if err != nil {
		return nil, err
	}

	findings := []MetaTagFinding{
		a.checkTitle(doc),
		a.checkDescription(doc),
		a.checkCanonical(doc, base),
		a.checkOpenGraph(doc),
		a.checkTwitterCard(doc),
		a.checkViewport(doc),
		a.checkLanguage(doc),
		a.checkH1(doc),
	}
	return findings, nil
}

func (a *Analyzer) checkTitle(doc *goquery.Document) MetaTagFinding {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	length := utf8.RuneCountInString(title)

	finding := MetaTagFinding{Name: "Title", Value: title, Length: length}
	switch {
	case length == 0:
		finding.Status = StatusError
		finding.Description = "Page is missing a title tag"
	case length < a.metaRules.TitleMin:
		finding.Status = StatusWarning
		finding.Description = fmt.Sprintf("Title %q is too short (%d characters, recommended %d-%d)",
			title, length, a.metaRules.TitleMin, a.metaRules.TitleMax)
	case length > a.metaRules.TitleMax:
		finding.Status = StatusWarning
		finding.Description = fmt.Sprintf("Title %q is too long (%d characters, recommended %d-%d)",
			title, length, a.metaRules.TitleMin, a.metaRules.TitleMax)
	default:
		finding.Status = StatusGood
		finding.Description = fmt.Sprintf("Title %q has a good length (%d characters)", title, length)
	}
	return finding
}

func (a *Analyzer) checkDescription(doc *goquery.Document) MetaTagFinding {
	desc, _ := doc.Find("meta[name='description']").Attr("content")
	desc = strings.TrimSpace(desc)
	length := utf8.RuneCountInString(desc)

	finding := MetaTagFinding{Name: "Description", Value: desc, Length: length}
	switch {
	case length == 0:
		finding.Status = StatusError
		finding.Description = "Page is missing a meta description"
	case length < a.metaRules.DescriptionMin:
		finding.Status = StatusWarning
		finding.Description = fmt.Sprintf("Meta description is too short (%d characters, recommended %d-%d)",
			length, a.metaRules.DescriptionMin, a.metaRules.DescriptionMax)
	case length > a.metaRules.DescriptionMax:
		finding.Status = StatusWarning
		finding.Description = fmt.Sprintf("Meta description is too long (%d characters, recommended %d-%d)",
			length, a.metaRules.DescriptionMin, a.metaRules.DescriptionMax)
	default:
		finding.Status = StatusGood
		finding.Description = fmt.Sprintf("Meta description has a good length (%d characters)", length)
	}
	return finding
}

func (a *Analyzer) checkCanonical(doc *goquery.Document, base *url.URL) MetaTagFinding {
	finding := MetaTagFinding{Name: "Canonical"}

	href, exists := doc.Find("link[rel='canonical']").Attr("href")
	href = strings.TrimSpace(href)
	if !exists || href == "" {
		finding.Status = StatusWarning
		finding.Description = "Page has no canonical link"
		return finding
	}

	parsed, err := url.Parse(href)
	if err != nil {
		finding.Status = StatusError
		finding.Description = fmt.Sprintf("Canonical link %q could not be resolved", href)
		finding.Value = href
		return finding
	}

	resolved := base.ResolveReference(parsed)
	finding.Status = StatusGood
	finding.Description = fmt.Sprintf("Canonical link points to %s", resolved.String())
	finding.Value = resolved.String()
	return finding
}

func (a *Analyzer) checkOpenGraph(doc *goquery.Document) MetaTagFinding {
	var missing []string
	for _, tag := range a.metaRules.RequiredOpenGraph {
		content, _ := doc.Find(fmt.Sprintf("meta[property='%s']", tag)).Attr("content")
		if strings.TrimSpace(content) == "" {
			missing = append(missing, tag)
		}
	}

	finding := MetaTagFinding{Name: "Open Graph"}
	switch {
	case len(missing) == 0:
		finding.Status = StatusGood
		finding.Description = "All required Open Graph tags are present"
	case len(missing) <= 2:
		finding.Status = StatusWarning
		finding.Description = fmt.Sprintf("Missing Open Graph tags: %s", strings.Join(missing, ", "))
	default:
		finding.Status = StatusError
		finding.Description = fmt.Sprintf("Missing Open Graph tags: %s", strings.Join(missing, ", "))
	}
	return finding
}

func (a *Analyzer) checkTwitterCard(doc *goquery.Document) MetaTagFinding {
	finding := MetaTagFinding{Name: "Twitter Card"}

	card, _ := doc.Find("meta[name='twitter:card']").Attr("content")
	if strings.TrimSpace(card) == "" {
		finding.Status = StatusWarning
		finding.Description = "Page has no twitter:card tag"
		return finding
	}
	finding.Value = card

	title, _ := doc.Find("meta[name='twitter:title']").Attr("content")
	desc, _ := doc.Find("meta[name='twitter:description']").Attr("content")
	if strings.TrimSpace(title) == "" || strings.TrimSpace(desc) == "" {
		finding.Status = StatusWarning
		finding.Description = "Twitter card is missing a title or description"
		return finding
	}

	finding.Status = StatusGood
	finding.Description = "Twitter card tags are complete"
	return finding
}

func (a *Analyzer) checkViewport(doc *goquery.Document) MetaTagFinding {
	finding := MetaTagFinding{Name: "Viewport"}

	content, exists := doc.Find("meta[name='viewport']").Attr("content")
	if !exists || strings.TrimSpace(content) == "" {
		finding.Status = StatusError
		finding.Description = "Page is missing a viewport meta tag"
		return finding
	}
	finding.Value = content

	if !strings.Contains(strings.ToLower(content), "width=device-width") {
		finding.Status = StatusWarning
		finding.Description = "Viewport tag does not include width=device-width"
		return finding
	}

	finding.Status = StatusGood
	finding.Description = "Viewport is configured for mobile devices"
	return finding
}

func (a *Analyzer) checkLanguage(doc *goquery.Document) MetaTagFinding {
	finding := MetaTagFinding{Name: "Language"}

	lang, _ := doc.Find("html").Attr("lang")
	lang = strings.TrimSpace(lang)
	if lang == "" {
		finding.Status = StatusWarning
		finding.Description = "The html element has no lang attribute"
		return finding
	}

	finding.Status = StatusGood
	finding.Description = fmt.Sprintf("Page language is declared as %q", lang)
	finding.Value = lang
	return finding
}

func (a *Analyzer) checkH1(doc *goquery.Document) MetaTagFinding {
	finding := MetaTagFinding{Name: "H1"}

	h1s := doc.Find("h1")
	count := h1s.Length()
	switch {
	case count == 0:
		finding.Status = StatusError
		finding.Description = "Page has no H1 heading"
	case count > 1:
		finding.Status = StatusWarning
		finding.Description = fmt.Sprintf("Page has %d H1 headings, expected exactly one", count)
	default:
		text := strings.TrimSpace(h1s.First().Text())
		finding.Value = text
		finding.Length = utf8.RuneCountInString(text)
		if finding.Length > a.metaRules.H1TextMax {
			finding.Status = StatusWarning
			finding.Description = fmt.Sprintf("Page has one H1 heading; its text exceeds %d characters", a.metaRules.H1TextMax)
		} else {
			finding.Status = StatusGood
			finding.Description = "Page has exactly one H1 heading"
		}
	}
	return finding
}

package googleplay

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"AppScanner/internal/domain"
)

const detailsLinkSelector = `a[href*="/store/apps/details?id="]`

// Search returns up to count apps in result-page order.
func (c *Client) Search(ctx context.Context, term string, count int) ([]domain.AppRef, error) {
	doc, err := c.fetchDocument(ctx, c.pageURL(searchPath, url.Values{"q": {term}, "c": {"apps"}}))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	refs := collectRefs(doc.Selection, "", count)
	c.debug("search results", "term", term, "count", len(refs))
	return refs, nil
}

// collectRefs walks details links in document order, skipping duplicates and exclude.
// A count of zero or less means no cap.
func collectRefs(sel *goquery.Selection, exclude string, count int) []domain.AppRef {
	var refs []domain.AppRef
	seen := map[string]struct{}{}

	sel.Find(detailsLinkSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		id := appIDFromHref(href)
		if id == "" || id == exclude {
			return true
		}
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}

		title := strings.TrimSpace(a.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(a.Find("span").First().Text())
		}
		refs = append(refs, domain.AppRef{ID: id, Title: title})

		return count <= 0 || len(refs) < count
	})

	return refs
}

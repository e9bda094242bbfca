package googleplay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"AppScanner/internal/domain"
)

var errNoListing = errors.New("listing metadata not found")

// AppDetails scrapes the listing page. The structured data block carries the core fields;
// OpenGraph tags and page markup fill in media and fallbacks.
func (c *Client) AppDetails(ctx context.Context, id string) (domain.AppMetadata, error) {
	pageURL := c.detailsURL(id)
	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return domain.AppMetadata{}, fmt.Errorf("app %s: %w", id, err)
	}

	meta, err := parseDetails(doc)
	if err != nil {
		return domain.AppMetadata{}, fmt.Errorf("app %s: %w", id, err)
	}
	meta.URL = pageURL
	return meta, nil
}

func parseDetails(doc *goquery.Document) (domain.AppMetadata, error) {
	var meta domain.AppMetadata

	if ld, ok := findSoftwareApplication(doc); ok {
		meta.Title = ld.Get("name").String()
		meta.Description = ld.Get("description").String()
		meta.Icon = ld.Get("image").String()
		meta.Developer = ld.Get("author.name").String()
		meta.DeveloperID = developerIDFromURL(ld.Get("author.url").String())
		meta.Score = ld.Get("aggregateRating.ratingValue").Float()
		meta.Ratings = int(ld.Get("aggregateRating.ratingCount").Int())
		meta.Genre = ld.Get("applicationCategory").String()
		meta.Price = ld.Get("offers.0.price").Float()
		meta.Currency = ld.Get("offers.0.priceCurrency").String()
	}

	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if meta.Title == "" {
		meta.Title = metaContent(doc, `meta[property="og:title"]`)
	}
	if meta.Title == "" {
		return domain.AppMetadata{}, errNoListing
	}

	if meta.Description == "" {
		meta.Description = strings.TrimSpace(doc.Find(`[data-g-id="description"]`).First().Text())
	}
	if meta.Description == "" {
		meta.Description = metaContent(doc, `meta[name="description"]`)
	}
	meta.Summary = metaContent(doc, `meta[property="og:description"]`)
	meta.HeaderImage = metaContent(doc, `meta[property="og:image"]`)
	if meta.Icon == "" {
		meta.Icon = doc.Find(`img[itemprop="image"]`).First().AttrOr("src", "")
	}

	meta.Screenshots = []string{}
	doc.Find(`img[alt="Screenshot image"], img[data-screenshot-index]`).Each(func(_ int, img *goquery.Selection) {
		if src := img.AttrOr("src", ""); src != "" {
			meta.Screenshots = append(meta.Screenshots, src)
		}
	})
	meta.Video = doc.Find(`button[data-trailer-url]`).First().AttrOr("data-trailer-url", "")

	meta.Version = strings.TrimSpace(doc.Find(`[itemprop="softwareVersion"]`).First().Text())
	meta.Updated = strings.TrimSpace(doc.Find(`[itemprop="datePublished"]`).First().Text())

	// the listing exposes one count; reviews track ratings
	meta.ReviewsTotal = meta.Ratings
	meta.Free = meta.Price == 0

	return meta, nil
}

func findSoftwareApplication(doc *goquery.Document) (gjson.Result, bool) {
	var found gjson.Result
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if !gjson.Valid(raw) {
			return true
		}
		parsed := gjson.Parse(raw)
		if parsed.Get("@type").String() == "SoftwareApplication" {
			found = parsed
			return false
		}
		return true
	})
	return found, found.Exists()
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

func developerIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("id")
}

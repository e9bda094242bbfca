package googleplay

import (
	"context"
	"fmt"
	"strings"

	"AppScanner/internal/domain"
)

const clusterLinkSelector = `a[href*="/store/apps/collection/cluster"]`

// SimilarApps follows the listing's "similar apps" cluster link. Listings without one fall
// back to the apps linked from the details page itself.
func (c *Client) SimilarApps(ctx context.Context, id string) ([]domain.AppRef, error) {
	pacer := c.newPacer()
	if err := pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("similar to %s: %w", id, err)
	}
	doc, err := c.fetchDocument(ctx, c.detailsURL(id))
	if err != nil {
		return nil, fmt.Errorf("similar to %s: %w", id, err)
	}

	href, ok := doc.Find(clusterLinkSelector).First().Attr("href")
	if !ok {
		return collectRefs(doc.Selection, id, 0), nil
	}

	clusterURL := href
	if !strings.HasPrefix(href, "http") {
		clusterURL = c.baseURL + href
	}
	if err := pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("similar cluster for %s: %w", id, err)
	}
	cluster, err := c.fetchDocument(ctx, clusterURL)
	if err != nil {
		return nil, fmt.Errorf("similar cluster for %s: %w", id, err)
	}

	refs := collectRefs(cluster.Selection, id, 0)
	c.debug("similar apps", "app_id", id, "count", len(refs))
	return refs, nil
}

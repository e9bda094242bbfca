package googleplay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"AppScanner/internal/domain"
	"AppScanner/internal/ports"
)

const (
	reviewsRPC  = "UsvDTd"
	xssiGuard   = ")]}'"
	maxPageSize = 200
)

// Reviews requests one page from the review RPC. An empty NextToken marks the last page.
func (c *Client) Reviews(ctx context.Context, id string, req ports.ReviewPageRequest) (ports.ReviewPage, error) {
	freq, err := buildReviewsRequest(id, req)
	if err != nil {
		return ports.ReviewPage{}, fmt.Errorf("reviews %s: %w", id, err)
	}

	endpoint := c.pageURL(batchPath, url.Values{"rpcids": {reviewsRPC}})
	body, err := c.post(ctx, endpoint, url.Values{"f.req": {freq}})
	if err != nil {
		return ports.ReviewPage{}, fmt.Errorf("reviews %s: %w", id, err)
	}

	page, err := parseReviewsResponse(body)
	if err != nil {
		return ports.ReviewPage{}, fmt.Errorf("reviews %s: %w", id, err)
	}
	return page, nil
}

// buildReviewsRequest encodes the batchexecute envelope; the inner request is itself a JSON string.
func buildReviewsRequest(id string, req ports.ReviewPageRequest) (string, error) {
	size := req.PageSize
	if size <= 0 || size > maxPageSize {
		size = maxPageSize
	}
	sort := req.Sort
	if sort == 0 {
		sort = ports.SortNewest
	}

	var token any
	if req.Token != "" {
		token = req.Token
	}

	inner, err := json.Marshal([]any{
		nil, nil,
		[]any{2, int(sort), []any{size, nil, token}, nil, []any{}},
		[]any{id, 7},
	})
	if err != nil {
		return "", fmt.Errorf("marshal inner request: %w", err)
	}

	outer, err := json.Marshal([]any{[]any{[]any{reviewsRPC, string(inner), nil, "generic"}}})
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	return string(outer), nil
}

func parseReviewsResponse(body []byte) (ports.ReviewPage, error) {
	body = bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(body), []byte(xssiGuard)))
	if !gjson.ValidBytes(body) {
		return ports.ReviewPage{}, fmt.Errorf("malformed batchexecute response")
	}

	payload := gjson.GetBytes(body, "0.2")
	if payload.Type != gjson.String || payload.String() == "" {
		// no payload means the listing has no (more) reviews
		return ports.ReviewPage{}, nil
	}

	data := gjson.Parse(payload.String())
	page := ports.ReviewPage{NextToken: data.Get("1.1").String()}

	data.Get("0").ForEach(func(_, r gjson.Result) bool {
		review := domain.Review{
			ID:        r.Get("0").String(),
			UserName:  r.Get("1.0").String(),
			Score:     int(r.Get("2").Int()),
			Text:      r.Get("4").String(),
			ReplyText: r.Get("7.1").String(),
		}
		if secs := r.Get("5.0").Int(); secs > 0 {
			review.At = time.Unix(secs, 0).UTC()
		}
		page.Items = append(page.Items, review)
		return true
	})

	return page, nil
}

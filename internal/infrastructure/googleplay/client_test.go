package googleplay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"AppScanner/internal/ports"
)

const detailsHTML = `<html><head>
<meta property="og:description" content="Play games, earn rewards">
<meta property="og:image" content="https://img.example/header.png">
<script type="application/ld+json">{"@type":"WebSite","name":"Google Play"}</script>
<script type="application/ld+json">{
  "@type": "SoftwareApplication",
  "name": "Mistplay: Play to Earn",
  "description": "Earn gift cards by playing games.",
  "image": "https://img.example/icon.png",
  "applicationCategory": "GAME_CASUAL",
  "author": {"name": "Mistplay", "url": "https://play.google.com/store/apps/dev?id=5700313618786177705"},
  "aggregateRating": {"ratingValue": "4.3", "ratingCount": "482113"},
  "offers": [{"price": "0", "priceCurrency": "USD"}]
}</script>
</head><body>
<h1>Ignored heading</h1>
<img alt="Screenshot image" src="https://img.example/s1.png">
<img data-screenshot-index="1" src="https://img.example/s2.png">
<a href="/store/apps/details?id=com.other.app" title="Other App">Other</a>
</body></html>`

func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(server.Close)

	return server, NewClient(Options{BaseURL: server.URL, HTTPClient: server.Client()})
}

func TestSearchCollectsDistinctApps(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	_, client := newTestServer(t, map[string]http.HandlerFunc{
		searchPath: func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			fmt.Fprint(w, `<div>
			  <a href="/store/apps/details?id=com.a" title="App A">A</a>
			  <a href="/store/apps/details?id=com.a">A again</a>
			  <a href="/store/apps/details?id=com.b"><span>App B</span></a>
			  <a href="/store/apps/dev?id=123">Developer</a>
			  <a href="/store/apps/details?id=com.c">C</a>
			</div>`)
		},
	})

	refs, err := client.Search(context.Background(), "earn money", 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if gotQuery.Get("q") != "earn money" || gotQuery.Get("c") != "apps" {
		t.Fatalf("unexpected query: %v", gotQuery)
	}
	if gotQuery.Get("hl") != "en" || gotQuery.Get("gl") != "us" {
		t.Fatalf("expected default locale, got hl=%s gl=%s", gotQuery.Get("hl"), gotQuery.Get("gl"))
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].ID != "com.a" || refs[0].Title != "App A" {
		t.Fatalf("unexpected first ref: %+v", refs[0])
	}
	if refs[1].ID != "com.b" || refs[1].Title != "App B" {
		t.Fatalf("unexpected second ref: %+v", refs[1])
	}
}

func TestSearchServerError(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, map[string]http.HandlerFunc{
		searchPath: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
	})

	if _, err := client.Search(context.Background(), "cash", 5); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestAppDetailsReadsStructuredData(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, map[string]http.HandlerFunc{
		detailsPath: func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("id") != "com.mistplay.mistplay" {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, detailsHTML)
		},
	})

	meta, err := client.AppDetails(context.Background(), "com.mistplay.mistplay")
	if err != nil {
		t.Fatalf("AppDetails returned error: %v", err)
	}

	if meta.Title != "Mistplay: Play to Earn" {
		t.Fatalf("unexpected title: %q", meta.Title)
	}
	if meta.Developer != "Mistplay" || meta.DeveloperID != "5700313618786177705" {
		t.Fatalf("unexpected developer: %q / %q", meta.Developer, meta.DeveloperID)
	}
	if meta.Score != 4.3 || meta.Ratings != 482113 || meta.ReviewsTotal != 482113 {
		t.Fatalf("unexpected rating fields: %+v", meta)
	}
	if !meta.Free || meta.Currency != "USD" {
		t.Fatalf("expected free USD listing, got free=%v currency=%q", meta.Free, meta.Currency)
	}
	if meta.Summary != "Play games, earn rewards" || meta.HeaderImage != "https://img.example/header.png" {
		t.Fatalf("unexpected og fields: %q %q", meta.Summary, meta.HeaderImage)
	}
	if len(meta.Screenshots) != 2 {
		t.Fatalf("expected 2 screenshots, got %v", meta.Screenshots)
	}
	if !strings.Contains(meta.URL, "id=com.mistplay.mistplay") {
		t.Fatalf("unexpected url: %s", meta.URL)
	}
}

func TestAppDetailsFallsBackToMarkup(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, map[string]http.HandlerFunc{
		detailsPath: func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `<html><head><meta name="description" content="Cash for surveys"></head>
			<body><h1> Survey Cash </h1></body></html>`)
		},
	})

	meta, err := client.AppDetails(context.Background(), "com.survey")
	if err != nil {
		t.Fatalf("AppDetails returned error: %v", err)
	}
	if meta.Title != "Survey Cash" || meta.Description != "Cash for surveys" {
		t.Fatalf("unexpected fallback fields: %+v", meta)
	}
	if meta.ReviewsTotal != 0 {
		t.Fatalf("expected zero reviews total, got %d", meta.ReviewsTotal)
	}
}

func TestAppDetailsMissingListing(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, map[string]http.HandlerFunc{
		detailsPath: func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `<html><body><p>nothing here</p></body></html>`)
		},
	})

	if _, err := client.AppDetails(context.Background(), "com.gone"); err == nil {
		t.Fatal("expected error for page without listing")
	}
}

func TestBuildReviewsRequest(t *testing.T) {
	t.Parallel()

	freq, err := buildReviewsRequest("com.app", ports.ReviewPageRequest{PageSize: 500, Token: "tok", Sort: ports.SortRating})
	if err != nil {
		t.Fatalf("buildReviewsRequest returned error: %v", err)
	}

	if got := gjson.Get(freq, "0.0.0").String(); got != reviewsRPC {
		t.Fatalf("unexpected rpc id: %s", got)
	}
	inner := gjson.Parse(gjson.Get(freq, "0.0.1").String())
	if inner.Get("2.1").Int() != int64(ports.SortRating) {
		t.Fatalf("unexpected sort: %s", inner.Get("2.1").Raw)
	}
	if inner.Get("2.2.0").Int() != maxPageSize {
		t.Fatalf("expected page size clamped to %d, got %s", maxPageSize, inner.Get("2.2.0").Raw)
	}
	if inner.Get("2.2.2").String() != "tok" {
		t.Fatalf("unexpected token: %s", inner.Get("2.2.2").Raw)
	}
	if inner.Get("3.0").String() != "com.app" {
		t.Fatalf("unexpected app id: %s", inner.Get("3.0").Raw)
	}

	first, err := buildReviewsRequest("com.app", ports.ReviewPageRequest{PageSize: 50})
	if err != nil {
		t.Fatalf("buildReviewsRequest returned error: %v", err)
	}
	firstInner := gjson.Parse(gjson.Get(first, "0.0.1").String())
	if firstInner.Get("2.2.2").Type != gjson.Null {
		t.Fatalf("expected null token on first page, got %s", firstInner.Get("2.2.2").Raw)
	}
	if firstInner.Get("2.1").Int() != int64(ports.SortNewest) {
		t.Fatalf("expected newest sort by default, got %s", firstInner.Get("2.1").Raw)
	}
}

func reviewsBody(t *testing.T, payload any) string {
	t.Helper()

	inner, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	outer, err := json.Marshal([]any{[]any{"wrb.fr", reviewsRPC, string(inner), nil, nil, nil, "generic"}})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return xssiGuard + "\n\n" + string(outer)
}

func TestReviewsPage(t *testing.T) {
	t.Parallel()

	body := reviewsBody(t, []any{
		[]any{
			[]any{"gp:1", []any{"Ann"}, 5, nil, "Paid instantly, legit.", []any{1700000000, 0}, nil, []any{nil, "Thanks!"}},
			[]any{"gp:2", []any{"Bob"}, 1, nil, "Withdrawal pending for weeks", []any{1700000100, 0}},
		},
		[]any{nil, "next-token"},
	})

	var form url.Values
	_, client := newTestServer(t, map[string]http.HandlerFunc{
		batchPath: func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Query().Get("rpcids") != reviewsRPC {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			raw, _ := io.ReadAll(r.Body)
			form, _ = url.ParseQuery(string(raw))
			fmt.Fprint(w, body)
		},
	})

	page, err := client.Reviews(context.Background(), "com.app", ports.ReviewPageRequest{PageSize: 2})
	if err != nil {
		t.Fatalf("Reviews returned error: %v", err)
	}

	if !strings.Contains(form.Get("f.req"), reviewsRPC) {
		t.Fatalf("f.req missing rpc id: %s", form.Get("f.req"))
	}
	if page.NextToken != "next-token" {
		t.Fatalf("unexpected token: %q", page.NextToken)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(page.Items))
	}

	first := page.Items[0]
	if first.ID != "gp:1" || first.UserName != "Ann" || first.Score != 5 || first.Text != "Paid instantly, legit." {
		t.Fatalf("unexpected review: %+v", first)
	}
	if first.ReplyText != "Thanks!" || first.At.Unix() != 1700000000 {
		t.Fatalf("unexpected reply/time: %+v", first)
	}
	if page.Items[1].ReplyText != "" {
		t.Fatalf("expected no reply, got %q", page.Items[1].ReplyText)
	}
}

func TestParseReviewsResponseWithoutPayload(t *testing.T) {
	t.Parallel()

	page, err := parseReviewsResponse([]byte(xssiGuard + "\n[[\"wrb.fr\",\"UsvDTd\",null,null,null,[5],\"generic\"]]"))
	if err != nil {
		t.Fatalf("parseReviewsResponse returned error: %v", err)
	}
	if len(page.Items) != 0 || page.NextToken != "" {
		t.Fatalf("expected empty last page, got %+v", page)
	}

	if _, err := parseReviewsResponse([]byte("<html>")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestSimilarAppsFollowsCluster(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, map[string]http.HandlerFunc{
		detailsPath: func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `<a href="/store/apps/collection/cluster?gsr=abc">Similar apps</a>`)
		},
		"/store/apps/collection/cluster": func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `
			<a href="/store/apps/details?id=com.self">Self</a>
			<a href="/store/apps/details?id=com.sim.one" title="One">One</a>
			<a href="/store/apps/details?id=com.sim.two" title="Two">Two</a>`)
		},
	})

	refs, err := client.SimilarApps(context.Background(), "com.self")
	if err != nil {
		t.Fatalf("SimilarApps returned error: %v", err)
	}
	if len(refs) != 2 || refs[0].ID != "com.sim.one" || refs[1].ID != "com.sim.two" {
		t.Fatalf("unexpected similar refs: %+v", refs)
	}
}

func TestSimilarAppsFallsBackToDetailsLinks(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, map[string]http.HandlerFunc{
		detailsPath: func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, detailsHTML)
		},
	})

	refs, err := client.SimilarApps(context.Background(), "com.mistplay.mistplay")
	if err != nil {
		t.Fatalf("SimilarApps returned error: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != "com.other.app" {
		t.Fatalf("unexpected fallback refs: %+v", refs)
	}
}

func TestSimilarAppsPacesClusterRequest(t *testing.T) {
	t.Parallel()

	const delay = 40 * time.Millisecond

	var (
		mu    sync.Mutex
		times []time.Time
	)
	record := func() {
		mu.Lock()
		defer mu.Unlock()
		times = append(times, time.Now())
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		record()
		switch r.URL.Path {
		case detailsPath:
			fmt.Fprint(w, `<a href="/store/apps/collection/cluster?gsr=abc">Similar apps</a>`)
		case "/store/apps/collection/cluster":
			fmt.Fprint(w, `<a href="/store/apps/details?id=com.sim.one">One</a>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, HTTPClient: server.Client(), RequestDelay: delay})
	if _, err := client.SimilarApps(context.Background(), "com.self"); err != nil {
		t.Fatalf("SimilarApps returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(times) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(times))
	}
	if gap := times[1].Sub(times[0]); gap < delay-5*time.Millisecond {
		t.Fatalf("cluster request followed details after %s, want at least %s", gap, delay)
	}
}

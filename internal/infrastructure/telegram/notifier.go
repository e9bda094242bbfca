package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"AppScanner/internal/domain"
	"AppScanner/internal/ports"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	topApps        = 10
)

// Notifier sends run summaries to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishSummary posts a Markdown digest of the run to Telegram.
func (n *Notifier) PublishSummary(ctx context.Context, report domain.RunReport) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", BuildSummaryMessage(report))
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// BuildSummaryMessage renders run counters and the most reviewed competitors.
func BuildSummaryMessage(report domain.RunReport) string {
	var b strings.Builder
	s := report.Stats
	fmt.Fprintf(&b, "*Competitor scan* %s\n", s.FinishedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Discovered: %d | Filtered out: %d | Final: %d\n\n", s.TotalDiscovered, s.FilteredOut, s.FinalCount)

	for i, rec := range report.Records {
		if i == topApps {
			break
		}
		fmt.Fprintf(&b, "- %s (%.1f, %d reviews)", rec.App.Title, rec.App.Score, rec.App.ReviewsTotal)
		if len(rec.Summary.TopComplaints) > 0 && rec.Summary.TopComplaints[0].Count > 0 {
			top := rec.Summary.TopComplaints[0]
			fmt.Fprintf(&b, " top complaint: %s (%d)", strings.ReplaceAll(top.Label, "_", " "), top.Count)
		}
		b.WriteString("\n")
	}

	return b.String()
}

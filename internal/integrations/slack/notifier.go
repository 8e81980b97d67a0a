// Package slackbot delivers run reports to a Slack channel.
package slackbot

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/FlipSniper/ebay-review-whisperer/internal/report"
	"github.com/slack-go/slack"
)

// API is the part of *slack.Client the notifier uses.
type API interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
	UploadFileV2(params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

type Notifier struct {
	api       API
	channelID string
}

func New(token, channelID string) *Notifier {
	return NewWithAPI(slack.New(token), channelID)
}

func NewWithAPI(api API, channelID string) *Notifier {
	return &Notifier{api: api, channelID: channelID}
}

// Delivery lists what a run produced for posting.
type Delivery struct {
	Overview      report.Overview
	ReportPath    string
	NegativesPath string
	WorkbookPath  string
}

// Deliver posts the overview and uploads the run's files. Upload failures are
// logged per file; the first error is returned after all attempts.
func (n *Notifier) Deliver(d Delivery) error {
	blocks := overviewBlocks(d.Overview)
	fallback := fmt.Sprintf("Seller feedback for %s: trust score %d (%s)", d.Overview.SellerName, d.Overview.TrustScore, d.Overview.TrustLevel)
	if _, _, err := n.api.PostMessage(n.channelID,
		slack.MsgOptionText(fallback, false),
		slack.MsgOptionBlocks(blocks...),
	); err != nil {
		return fmt.Errorf("post overview: %w", err)
	}

	var firstErr error
	for _, f := range []struct{ path, title string }{
		{d.ReportPath, "Seller report"},
		{d.NegativesPath, "Negative reviews"},
		{d.WorkbookPath, "Feedback workbook"},
	} {
		if f.path == "" {
			continue
		}
		if err := n.upload(f.path, f.title); err != nil {
			log.Printf("slack upload failed file=%s err=%v", f.path, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (n *Notifier) upload(path, title string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	_, err = n.api.UploadFileV2(slack.UploadFileV2Parameters{
		File:     path,
		FileSize: int(fi.Size()),
		Filename: filepath.Base(path),
		Channel:  n.channelID,
		Title:    title,
	})
	return err
}

func overviewBlocks(ov report.Overview) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType,
				fmt.Sprintf("Seller feedback: %s", ov.SellerName), false, false),
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Trust score:* %d (%s, trend %s)\n*Reviews:* %d\n*Positive:* %.1f%%  *Neutral:* %.1f%%  *Negative:* %.1f%%",
					ov.TrustScore, ov.TrustLevel, ov.Trend, ov.Reviews, ov.PositivePct, ov.NeutralPct, ov.NegativePct),
				false, false),
			nil, nil,
		),
	}
	if len(ov.CommonIssues) > 0 {
		lines := make([]string, 0, len(ov.CommonIssues))
		for _, ic := range ov.CommonIssues {
			lines = append(lines, fmt.Sprintf("• %s (%d)", ic.Issue, ic.Count))
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "*Common issues*\n"+strings.Join(lines, "\n"), false, false),
			nil, nil,
		))
	}
	return blocks
}

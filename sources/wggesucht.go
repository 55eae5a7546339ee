package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wohnmatch/wohnmatch.api/config"
	"github.com/wohnmatch/wohnmatch.api/enums"
	"github.com/wohnmatch/wohnmatch.api/models"
	"github.com/wohnmatch/wohnmatch.api/pipeline"
)

const wgGesuchtBaseURL = "https://www.wg-gesucht.de"

// Index pages polled each cycle. WG rooms and whole flats are separate
// listings on wg-gesucht, so both get their own page.
var wgGesuchtIndexPaths = []string{
	"/wg-zimmer-in-Berlin.8.0.1.0.html",
	"/wohnungen-in-Berlin.8.2.1.0.html",
}

type WgGesuchtPoller struct {
	logger       *slog.Logger
	httpClient   *http.Client
	pipeline     *pipeline.Pipeline
	baseURL      string
	pollInterval time.Duration
}

func NewWgGesuchtPoller(logger *slog.Logger, httpClient *http.Client, pipe *pipeline.Pipeline) *WgGesuchtPoller {
	return &WgGesuchtPoller{
		logger:       logger,
		httpClient:   httpClient,
		pipeline:     pipe,
		baseURL:      wgGesuchtBaseURL,
		pollInterval: time.Duration(config.Config.PollIntervalSeconds) * time.Second,
	}
}

func (p *WgGesuchtPoller) StartPolling(ctx context.Context) {
	p.logger.Info("starting wg-gesucht polling", "interval", p.pollInterval.Seconds())

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopping wg-gesucht polling")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *WgGesuchtPoller) pollOnce(ctx context.Context) {
	for i, path := range wgGesuchtIndexPaths {
		if i > 0 {
			time.Sleep(2 * time.Second) // Delay between requests to avoid rate limiting
		}

		doc, err := p.fetchDocument(ctx, p.baseURL+path)
		if err != nil {
			p.logger.Error("fetch wg-gesucht index", "path", path, "error", err)
			continue
		}

		raws := ParseWgGesuchtIndex(doc, p.baseURL, time.Now().UTC())
		if len(raws) == 0 {
			p.logger.Warn("wg-gesucht index yielded no offers, markup may have changed", "path", path)
			continue
		}

		p.pipeline.ProcessBatch(ctx, raws)
	}
}

func (p *WgGesuchtPoller) fetchDocument(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	// Make the request look like a real browser to avoid blocks
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en-US;q=0.8")
	req.Header.Set("Connection", "keep-alive")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("wg-gesucht returned status %d: %s", resp.StatusCode, string(body))
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// ParseWgGesuchtIndex extracts raw listings from an offer index page. Parsing
// is selector-based and deliberately loose: a card missing a detail still
// yields a listing, validation downstream decides whether it is usable.
func ParseWgGesuchtIndex(doc *goquery.Document, baseURL string, scrapedAt time.Time) []models.RawListing {
	var raws []models.RawListing

	doc.Find("div.offer_list_item[data-id]").Each(func(_ int, card *goquery.Selection) {
		externalID := strings.TrimSpace(card.AttrOr("data-id", ""))
		if externalID == "" {
			return
		}

		anchor := card.Find("h3 a").First()
		href := strings.TrimSpace(anchor.AttrOr("href", ""))

		raw := models.RawListing{
			Platform:   enums.PlatformWgGesucht,
			ExternalID: externalID,
			URL:        absoluteURL(baseURL, href),
			Title:      cleanText(anchor.Text()),
			PriceText:  labelCardPrice(cleanText(card.Find(".middle b").First().Text())),
			SizeText:   cleanText(card.Find(".middle .text-right b").First().Text()),
			ScrapedAt:  scrapedAt,
		}

		raw.District = parseDistrictLine(card.Find(".col-xs-11 span").First().Text())
		raw.Description = buildCardDescription(card)

		if src := strings.TrimSpace(card.Find("img").First().AttrOr("data-src", "")); src != "" {
			raw.Images = append(raw.Images, absoluteURL(baseURL, src))
		} else if src := strings.TrimSpace(card.Find("img").First().AttrOr("src", "")); src != "" {
			raw.Images = append(raw.Images, absoluteURL(baseURL, src))
		}

		raws = append(raws, raw)
	})

	return raws
}

// labelCardPrice labels the card's bare price cell. The index page shows the
// total rent, the listing body is where the cold/utilities split lives.
func labelCardPrice(price string) string {
	if price == "" {
		return ""
	}
	return "Gesamtmiete: " + price
}

// parseDistrictLine reads the card's location line, e.g.
// "WG in Berlin Kreuzberg | möbliert". The district is everything after the
// city name.
func parseDistrictLine(line string) string {
	line = cleanText(line)
	if at := strings.Index(line, "|"); at >= 0 {
		line = strings.TrimSpace(line[:at])
	}

	_, after, found := strings.Cut(line, " in ")
	if !found {
		return ""
	}
	parts := strings.Fields(after)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}

// buildCardDescription collects the card's detail cells into one text blob
// for the extractors. The availability cell is rewritten into the phrasing
// the listing body would use, so date extraction works off index pages too.
func buildCardDescription(card *goquery.Selection) string {
	var lines []string

	if location := cleanText(card.Find(".col-xs-11 span").First().Text()); location != "" {
		lines = append(lines, location)
	}

	availability := cleanText(card.Find(".middle .text-center").First().Text())
	if from, to, found := strings.Cut(availability, " - "); found {
		lines = append(lines, "frei ab "+strings.TrimSpace(from)+" bis "+strings.TrimSpace(to))
	} else if availability != "" {
		lines = append(lines, "frei ab "+availability)
	}

	return strings.Join(lines, "\n")
}

func cleanText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func absoluteURL(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

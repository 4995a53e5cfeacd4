package dataflows

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// HeadlineScraper serves the general-news tool when no FMP key is
// configured, by scraping headlines from a public finance news page.
type HeadlineScraper struct {
	client  *resty.Client
	pageURL string
}

// NewHeadlineScraper creates a scraper for the given news page URL.
func NewHeadlineScraper(pageURL string) *HeadlineScraper {
	if pageURL == "" {
		pageURL = "https://finance.yahoo.com/topic/stock-market-news/"
	}

	client := resty.New()
	client.SetTimeout(15 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; Aria/1.0)")

	return &HeadlineScraper{
		client:  client,
		pageURL: pageURL,
	}
}

// GetHeadlines fetches the page and extracts up to maxResults headlines.
func (hs *HeadlineScraper) GetHeadlines(maxResults int) ([]*NewsArticle, error) {
	if maxResults <= 0 {
		maxResults = 20
	}

	resp, err := hs.client.R().Get(hs.pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news page: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP error %d when fetching news page", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]bool)
	var articles []*NewsArticle
	doc.Find("h3 a, h2 a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Text())
		if len(title) < 15 || seen[title] {
			return true
		}
		seen[title] = true

		href, _ := s.Attr("href")
		if strings.HasPrefix(href, "/") {
			href = strings.TrimSuffix(hs.pageURL, "/") + href
		}

		articles = append(articles, &NewsArticle{
			Title:       title,
			URL:         href,
			Source:      "scraper",
			PublishedAt: time.Now(),
		})
		return len(articles) < maxResults
	})

	if len(articles) == 0 {
		return nil, ErrEmptyResponse
	}
	return articles, nil
}

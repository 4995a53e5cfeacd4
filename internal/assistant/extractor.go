package assistant

import (
	"regexp"
	"sort"
	"strings"

	"github.com/arialabs/aria/internal/models"
)

// tickerPattern captures maximal runs of 1-5 uppercase letters. It is a
// heuristic: acronyms are filtered by the stop-list below, and lowercase
// or suffixed tickers are not recognized.
var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// tickerStopList holds common financial acronyms and short words that the
// ticker pattern would otherwise swallow, plus the assistant's own name.
var tickerStopList = map[string]bool{
	"A": true, "I": true, "OK": true, "US": true, "UE": true, "EU": true,
	"AI": true, "IA": true, "API": true, "FAQ": true, "ARIA": true,
	"ETF": true, "IPO": true, "CEO": true, "CFO": true, "PDG": true,
	"PER": true, "PE": true, "EPS": true, "BPA": true, "ROE": true,
	"ROI": true, "TTM": true, "YTD": true, "RSI": true, "MACD": true,
	"SMA": true, "EMA": true, "USD": true, "EUR": true, "GBP": true,
	"TVA": true, "CAC": true, "DAX": true, "SP": true, "DJIA": true,
	"GAAP": true, "SEC": true, "AMF": true, "FED": true, "BCE": true,
	"ECB": true, "Q": true, "FY": true, "VS": true,
}

var (
	needsDataPattern  = regexp.MustCompile(`(?i)\b(prix|price|cours|cote|quote|valeur|combien|vaut|worth|trading|trade[sd]?|market cap|capitalisation)\b`)
	analysisPattern   = regexp.MustCompile(`(?i)\b(analys\w*|analyz\w*|évalu\w*|evaluat\w*|étud\w*|opinion|avis|recommand\w*|acheter|vendre|buy|sell|perspectives?|outlook)\b`)
	newsPattern       = regexp.MustCompile(`(?i)\b(news|actualités?|nouvelles?|informations?|articles?|presse|headlines?|annonces?)\b`)
	calendarPattern   = regexp.MustCompile(`(?i)\b(calendrier|calendar|agenda|résultats|earnings|dividendes?|dividends?|économique|economic)\b`)
	politenessPattern = regexp.MustCompile(`(?i)\b(merci|thanks?|thank you|bonjour|bonsoir|salut|hello|bye|au revoir|s'il vous pla[îi]t|please)\b`)
)

// Extract turns a raw user message into its structured form. Pure and
// synchronous; no I/O. Intent flags are independent of each other.
func Extract(message string) *models.ExtractedRequest {
	seen := make(map[string]bool)
	var tickers []string
	for _, candidate := range tickerPattern.FindAllString(message, -1) {
		if tickerStopList[candidate] || seen[candidate] {
			continue
		}
		seen[candidate] = true
		tickers = append(tickers, candidate)
	}
	sort.Strings(tickers)

	return &models.ExtractedRequest{
		Tickers:      tickers,
		NeedsData:    needsDataPattern.MatchString(message),
		IsAnalysis:   analysisPattern.MatchString(message),
		IsNews:       newsPattern.MatchString(message),
		IsCalendar:   calendarPattern.MatchString(message),
		IsPoliteness: politenessPattern.MatchString(message),
	}
}

// PrimaryTicker returns the deterministic cache entity for a request: the
// lexicographically smallest extracted ticker, empty when none.
func PrimaryTicker(extracted *models.ExtractedRequest) string {
	if extracted == nil || len(extracted.Tickers) == 0 {
		return ""
	}
	return extracted.Tickers[0]
}

// Intent collapses the extraction flags into the coarse label stored as a
// session's last intent.
func Intent(extracted *models.ExtractedRequest) string {
	switch {
	case extracted.IsAnalysis:
		return "analysis"
	case extracted.IsNews:
		return "news"
	case extracted.IsCalendar:
		return "calendar"
	default:
		return "general"
	}
}

func normalizeMessage(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

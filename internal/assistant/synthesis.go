package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/models"
)

// SynthesisDelegate turns tool results into a structured context document
// and forwards it, with a role preamble, to the analysis service. It does
// not retry: a failure here surfaces to the orchestrator, which must
// substitute a safe fallback.
type SynthesisDelegate struct {
	model model.BaseChatModel
}

// NewSynthesisDelegate wraps a chat model.
func NewSynthesisDelegate(chatModel model.BaseChatModel) *SynthesisDelegate {
	return &SynthesisDelegate{model: chatModel}
}

// Document sections, rendered in this order.
var sectionOrder = []string{
	"COURS / QUOTE",
	"FONDAMENTAUX",
	"RATIOS",
	"MÉTRIQUES CLÉS",
	"ACTUALITÉS",
	"CALENDRIER",
	"AUTRES DONNÉES",
}

var toolSections = map[string]string{
	consts.ToolQuote:            "COURS / QUOTE",
	consts.ToolCompanyProfile:   "FONDAMENTAUX",
	consts.ToolRatios:           "RATIOS",
	consts.ToolKeyMetrics:       "MÉTRIQUES CLÉS",
	consts.ToolStockNews:        "ACTUALITÉS",
	consts.ToolGeneralNews:      "ACTUALITÉS",
	consts.ToolEarningsCalendar: "CALENDRIER",
	consts.ToolEconomicCalendar: "CALENDRIER",
}

// Payload objects wider than this are projected onto priorityFields only.
const maxObjectFields = 15

var priorityFields = []string{
	"symbol", "price", "change", "changesPercentage", "dayLow", "dayHigh",
	"yearLow", "yearHigh", "volume", "marketCap", "previousClose",
	"eps", "pe", "peRatioTTM", "priceEarningsRatioTTM",
	"netIncomePerShareTTM", "dividendYieldTTM", "returnOnEquityTTM",
	"debtEquityRatioTTM", "currentRatioTTM", "companyName", "sector",
	"industry", "rating", "ratingRecommendation",
}

const noDataInstruction = "AUCUNE DONNÉE DE MARCHÉ DISPONIBLE. " +
	"Réponds à partir de tes connaissances générales et précise que les chiffres temps réel sont momentanément indisponibles."

// Delegate builds the context document and preamble, calls the analysis
// service, and returns the synthesized text plus usage metadata.
func (s *SynthesisDelegate) Delegate(ctx context.Context, userMessage string, results []models.ToolResult, convCtx *models.ConversationalContext, extracted *models.ExtractedRequest, reqCtx *models.RequestContext) (*models.SynthesisResult, error) {
	document := BuildDataDocument(results)
	preamble := BuildPreamble(convCtx, extracted, reqCtx)

	messages := []*schema.Message{
		schema.SystemMessage(preamble),
		schema.UserMessage(document + "\n\nQuestion de l'utilisateur : " + userMessage),
	}

	start := time.Now()
	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("analysis service call failed: %w", err)
	}

	result := &models.SynthesisResult{
		Content:   resp.Content,
		Citations: CollectCitations(results),
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		result.Cost = models.TokenCost{
			PromptTokens:     resp.ResponseMeta.Usage.PromptTokens,
			CompletionTokens: resp.ResponseMeta.Usage.CompletionTokens,
			Total:            resp.ResponseMeta.Usage.TotalTokens,
		}
	}
	return result, nil
}

// BuildDataDocument groups tool results into named sections. News arrays
// become trimmed headline lists; wide objects are projected onto the
// priority financial fields.
func BuildDataDocument(results []models.ToolResult) string {
	if len(results) == 0 {
		return noDataInstruction
	}

	sections := make(map[string][]string)
	for _, res := range results {
		section, ok := toolSections[res.ToolID]
		if !ok {
			section = "AUTRES DONNÉES"
		}
		sections[section] = append(sections[section], renderPayload(res.ToolID, res.Data))
	}

	var b strings.Builder
	b.WriteString("DONNÉES DE MARCHÉ DISPONIBLES :\n")
	for _, section := range sectionOrder {
		parts, ok := sections[section]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n=== %s ===\n", section)
		for _, part := range parts {
			b.WriteString(part)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderPayload(toolID string, data any) string {
	if headlines := newsHeadlines(data); headlines != nil {
		return strings.Join(headlines, "\n")
	}

	// Single-element arrays of objects are the common FMP shape.
	if arr, ok := data.([]any); ok {
		if len(arr) == 1 {
			if obj, ok := arr[0].(map[string]any); ok {
				return renderObject(obj)
			}
		}
		if len(arr) > 5 {
			arr = arr[:5]
		}
		return marshalCompact(arr)
	}

	if obj, ok := data.(map[string]any); ok {
		return renderObject(obj)
	}
	return marshalCompact(data)
}

// newsHeadlines returns trimmed headline lines when the payload looks
// like a news array, nil otherwise.
func newsHeadlines(data any) []string {
	arr, ok := data.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}

	var lines []string
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		title, _ := obj["title"].(string)
		if title == "" {
			title, _ = obj["headline"].(string)
		}
		if title == "" {
			return nil
		}
		source, _ := obj["site"].(string)
		if source == "" {
			source, _ = obj["source"].(string)
		}
		if source != "" {
			lines = append(lines, fmt.Sprintf("- %s (%s)", title, source))
		} else {
			lines = append(lines, "- "+title)
		}
		if len(lines) >= 5 {
			break
		}
	}
	return lines
}

func renderObject(obj map[string]any) string {
	if len(obj) > maxObjectFields {
		projected := make(map[string]any)
		for _, field := range priorityFields {
			if v, ok := obj[field]; ok {
				projected[field] = v
			}
		}
		if len(projected) > 0 {
			obj = projected
		}
	}
	return marshalCompact(obj)
}

func marshalCompact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// BuildPreamble assembles the system-role instruction: persona, priority
// metrics, conditional context notes, and a channel formatting directive.
func BuildPreamble(convCtx *models.ConversationalContext, extracted *models.ExtractedRequest, reqCtx *models.RequestContext) string {
	var b strings.Builder
	b.WriteString("Tu es Aria, assistante financière personnelle. ")
	b.WriteString("Tu produis des analyses claires et sourcées à partir des données fournies. ")
	b.WriteString("Mets systématiquement en avant : prix actuel, variation, PER, BPA et la position dans la fourchette 52 semaines quand ces données existent. ")
	b.WriteString("Ne donne jamais de conseil d'investissement personnalisé.\n")

	if convCtx != nil {
		if convCtx.ShouldIntroduce {
			b.WriteString("C'est un premier contact : présente-toi en une phrase avant de répondre.\n")
		}
		if (convCtx.HasCoreference || convCtx.HasContextualRef) && len(convCtx.PreviousTickers) > 0 {
			fmt.Fprintf(&b, "La question fait suite à un échange sur %s : résous les références implicites dans ce contexte.\n",
				strings.Join(convCtx.PreviousTickers, ", "))
		}
		if len(convCtx.MatchedSkills) > 0 {
			var names []string
			for _, skill := range convCtx.MatchedSkills {
				names = append(names, skill.Name)
			}
			fmt.Fprintf(&b, "L'utilisateur invoque la compétence « %s » : structure la réponse autour de cette demande.\n",
				strings.Join(names, ", "))
		}
	}

	channel := ""
	if reqCtx != nil {
		channel = reqCtx.Channel
	}
	switch channel {
	case consts.ChannelSMS:
		b.WriteString("Format : réponse courte et directe, phrases simples, pas de mise en forme, 3 à 5 phrases maximum.")
	case consts.ChannelEmail:
		b.WriteString("Format : réponse structurée et professionnelle avec des titres de sections, adaptée à un e-mail.")
	default:
		b.WriteString("Format : réponse structurée mais conversationnelle, avec des puces pour les chiffres clés.")
	}

	return b.String()
}

// CollectCitations pulls article URLs out of news-shaped tool results.
func CollectCitations(results []models.ToolResult) []string {
	var citations []string
	seen := make(map[string]bool)
	for _, res := range results {
		arr, ok := res.Data.([]any)
		if !ok {
			continue
		}
		for _, item := range arr {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			url, _ := obj["url"].(string)
			if url == "" || seen[url] {
				continue
			}
			seen[url] = true
			citations = append(citations, url)
			if len(citations) >= 10 {
				return citations
			}
		}
	}
	return citations
}

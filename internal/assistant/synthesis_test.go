package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/models"
)

// stubChatModel is a canned analysis service for tests.
type stubChatModel struct {
	reply     string
	err       error
	lastInput []*schema.Message
}

func (m *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return &schema.Message{
		Role:    schema.Assistant,
		Content: m.reply,
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200},
		},
	}, nil
}

func (m *stubChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestDelegateBuildsMessagesAndCost(t *testing.T) {
	chatModel := &stubChatModel{reply: "AAPL cote 231,50 $."}
	delegate := NewSynthesisDelegate(chatModel)

	results := []models.ToolResult{quoteResult()}
	out, err := delegate.Delegate(context.Background(), "Analyse AAPL",
		results, &models.ConversationalContext{}, Extract("Analyse AAPL"), &models.RequestContext{Channel: consts.ChannelWeb})
	if err != nil {
		t.Fatalf("Delegate: %v", err)
	}

	if out.Content != "AAPL cote 231,50 $." {
		t.Fatalf("unexpected content: %q", out.Content)
	}
	if out.Cost.Total != 200 || out.Cost.PromptTokens != 120 {
		t.Fatalf("unexpected cost: %+v", out.Cost)
	}

	if len(chatModel.lastInput) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(chatModel.lastInput))
	}
	if chatModel.lastInput[0].Role != schema.System {
		t.Fatalf("expected system message first, got %s", chatModel.lastInput[0].Role)
	}
	if !strings.Contains(chatModel.lastInput[1].Content, "Question de l'utilisateur : Analyse AAPL") {
		t.Fatalf("user message must carry the original question")
	}
	if !strings.Contains(chatModel.lastInput[1].Content, "COURS / QUOTE") {
		t.Fatalf("user message must carry the data document")
	}
}

func TestDelegatePropagatesModelError(t *testing.T) {
	delegate := NewSynthesisDelegate(&stubChatModel{err: errors.New("rate limited")})

	_, err := delegate.Delegate(context.Background(), "Analyse AAPL",
		nil, &models.ConversationalContext{}, Extract("Analyse AAPL"), &models.RequestContext{})
	if err == nil {
		t.Fatalf("expected error from failing model")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}

func TestBuildDataDocumentEmpty(t *testing.T) {
	doc := BuildDataDocument(nil)
	if !strings.Contains(doc, "AUCUNE DONNÉE") {
		t.Fatalf("expected no-data instruction, got %q", doc)
	}
}

func TestBuildDataDocumentSections(t *testing.T) {
	results := []models.ToolResult{
		quoteResult(),
		{
			ToolID:  consts.ToolStockNews,
			Success: true,
			Data: []any{
				map[string]any{"title": "Apple unveils new chip", "site": "Reuters", "url": "https://example.com/a"},
				map[string]any{"title": "iPhone sales beat estimates", "site": "Bloomberg", "url": "https://example.com/b"},
			},
		},
	}

	doc := BuildDataDocument(results)
	if !strings.Contains(doc, "=== COURS / QUOTE ===") {
		t.Fatalf("missing quote section:\n%s", doc)
	}
	if !strings.Contains(doc, "=== ACTUALITÉS ===") {
		t.Fatalf("missing news section:\n%s", doc)
	}
	if !strings.Contains(doc, "- Apple unveils new chip (Reuters)") {
		t.Fatalf("expected trimmed headline line:\n%s", doc)
	}
	// Section order is fixed: quote before news.
	if strings.Index(doc, "COURS / QUOTE") > strings.Index(doc, "ACTUALITÉS") {
		t.Fatalf("sections out of order:\n%s", doc)
	}
}

func TestBuildDataDocumentLimitsHeadlines(t *testing.T) {
	var articles []any
	for i := 0; i < 12; i++ {
		articles = append(articles, map[string]any{"title": "headline", "site": "wire"})
	}

	doc := BuildDataDocument([]models.ToolResult{{ToolID: consts.ToolGeneralNews, Success: true, Data: articles}})
	if got := strings.Count(doc, "- headline"); got != 5 {
		t.Fatalf("expected 5 headlines, got %d", got)
	}
}

func TestBuildDataDocumentProjectsWideObjects(t *testing.T) {
	wide := map[string]any{"price": 231.5, "symbol": "AAPL"}
	for i := 0; i < 30; i++ {
		wide["filler_"+strings.Repeat("x", i+1)] = i
	}

	doc := BuildDataDocument([]models.ToolResult{{ToolID: consts.ToolQuote, Success: true, Data: wide}})
	if !strings.Contains(doc, "\"price\"") || !strings.Contains(doc, "\"symbol\"") {
		t.Fatalf("priority fields must survive projection:\n%s", doc)
	}
	if strings.Contains(doc, "filler_x\"") {
		t.Fatalf("filler fields must be projected away:\n%s", doc)
	}
}

func TestBuildDataDocumentUnwrapsSingleElementArrays(t *testing.T) {
	data := []any{map[string]any{"symbol": "AAPL", "price": 231.5}}

	doc := BuildDataDocument([]models.ToolResult{{ToolID: consts.ToolQuote, Success: true, Data: data}})
	if strings.Contains(doc, "[{") {
		t.Fatalf("single-element array should render as an object:\n%s", doc)
	}
	if !strings.Contains(doc, "\"symbol\":\"AAPL\"") {
		t.Fatalf("expected object fields:\n%s", doc)
	}
}

func TestBuildPreamblePersonaAndChannel(t *testing.T) {
	preamble := BuildPreamble(&models.ConversationalContext{}, Extract("Analyse AAPL"), &models.RequestContext{Channel: consts.ChannelSMS})
	if !strings.Contains(preamble, "Aria") {
		t.Fatalf("preamble must name the persona")
	}
	if !strings.Contains(preamble, "3 à 5 phrases") {
		t.Fatalf("sms channel directive missing:\n%s", preamble)
	}

	preamble = BuildPreamble(&models.ConversationalContext{}, Extract("Analyse AAPL"), &models.RequestContext{Channel: consts.ChannelEmail})
	if !strings.Contains(preamble, "e-mail") {
		t.Fatalf("email channel directive missing:\n%s", preamble)
	}
}

func TestBuildPreambleContextNotes(t *testing.T) {
	convCtx := &models.ConversationalContext{
		ShouldIntroduce: true,
		HasCoreference:  true,
		PreviousTickers: []string{"AAPL", "MSFT"},
	}

	preamble := BuildPreamble(convCtx, Extract("et MSFT ?"), &models.RequestContext{})
	if !strings.Contains(preamble, "présente-toi") {
		t.Fatalf("introduction note missing:\n%s", preamble)
	}
	if !strings.Contains(preamble, "AAPL, MSFT") {
		t.Fatalf("coreference note must list prior tickers:\n%s", preamble)
	}
}

func TestCollectCitations(t *testing.T) {
	results := []models.ToolResult{
		{ToolID: consts.ToolStockNews, Data: []any{
			map[string]any{"title": "a", "url": "https://example.com/a"},
			map[string]any{"title": "b", "url": "https://example.com/a"},
			map[string]any{"title": "c", "url": "https://example.com/c"},
		}},
		{ToolID: consts.ToolQuote, Data: map[string]any{"price": 1.0}},
	}

	citations := CollectCitations(results)
	if len(citations) != 2 {
		t.Fatalf("expected 2 deduplicated citations, got %v", citations)
	}
}

func TestCollectCitationsCapped(t *testing.T) {
	var articles []any
	for i := 0; i < 25; i++ {
		articles = append(articles, map[string]any{"url": "https://example.com/" + strings.Repeat("x", i+1)})
	}

	citations := CollectCitations([]models.ToolResult{{ToolID: consts.ToolGeneralNews, Data: articles}})
	if len(citations) != 10 {
		t.Fatalf("expected citation cap of 10, got %d", len(citations))
	}
}

package assistant

import (
	"context"
	"log"

	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/models"
	"github.com/arialabs/aria/internal/tools"
)

// DefaultSessionID is used when the caller supplies no session id; the
// single-user CLI then behaves like one long-lived conversation.
const DefaultSessionID = "default"

const fallbackMessage = "Désolée, je ne parviens pas à finaliser votre analyse pour le moment. " +
	"Merci de réessayer dans quelques instants."

// TurnRecorder persists completed turns. Implemented by the storage
// package; nil disables persistence.
type TurnRecorder interface {
	SaveTurn(sessionID string, turn models.ConversationTurn, tickers []string, intent string) error
}

// Orchestrator is the caller-facing engine: it classifies a message,
// extracts entities, selects and executes tools, delegates synthesis,
// post-processes the answer and maintains conversational state.
type Orchestrator struct {
	analyzer *ContextAnalyzer
	catalog  *tools.Catalog
	engine   *ExecutionEngine
	delegate *SynthesisDelegate
	history  *HistoryStore
	recorder TurnRecorder
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Catalog  *tools.Catalog
	Engine   *ExecutionEngine
	Delegate *SynthesisDelegate
	History  *HistoryStore
	Recorder TurnRecorder
}

// NewOrchestrator builds an orchestrator. Catalog and History default to
// fresh instances when nil; Engine and Delegate are required.
func NewOrchestrator(opts Options) *Orchestrator {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = tools.DefaultCatalog()
	}
	history := opts.History
	if history == nil {
		history = NewHistoryStore()
	}
	return &Orchestrator{
		analyzer: NewContextAnalyzer(catalog.Skills()),
		catalog:  catalog,
		engine:   opts.Engine,
		delegate: opts.Delegate,
		history:  history,
		recorder: opts.Recorder,
	}
}

// History exposes the session store, mainly for rehydration at startup.
func (o *Orchestrator) History() *HistoryStore {
	return o.history
}

// Process runs one request end to end. It always returns a well-formed
// response: failures carry a user-safe fallback message plus the
// underlying error for diagnostics.
func (o *Orchestrator) Process(ctx context.Context, message string, reqCtx models.RequestContext) models.ProcessResponse {
	if reqCtx.SessionID == "" {
		reqCtx.SessionID = DefaultSessionID
	}
	if reqCtx.Channel == "" {
		reqCtx.Channel = consts.ChannelWeb
	}

	state := o.history.State(reqCtx.SessionID)
	convCtx := o.analyzer.Analyze(message, &state)

	// Canned answers short-circuit the whole pipeline: no extraction,
	// no tools, no synthesis cost.
	if convCtx.CanAnswerDirectly {
		return models.ProcessResponse{
			Success:   true,
			Response:  convCtx.DirectReply,
			ToolsUsed: []string{},
			Cost:      &models.TokenCost{},
		}
	}

	extracted := Extract(message)

	// Follow-ups without an explicit ticker inherit the previous ones.
	if !extracted.HasTicker() && (convCtx.HasCoreference || convCtx.HasContextualRef) && len(convCtx.PreviousTickers) > 0 {
		extracted.Tickers = append([]string(nil), convCtx.PreviousTickers...)
	}

	selected := SelectTools(extracted, &convCtx, &reqCtx, o.catalog)
	results := o.engine.Execute(ctx, selected, extracted)

	toolsUsed := make([]string, 0, len(results))
	for _, res := range results {
		toolsUsed = append(toolsUsed, res.ToolID)
	}

	synthesis, err := o.delegate.Delegate(ctx, message, results, &convCtx, extracted, &reqCtx)
	if err != nil {
		log.Printf("synthesis failed for session %s: %v", reqCtx.SessionID, err)
		return models.ProcessResponse{
			Success:   false,
			Response:  fallbackMessage,
			ToolsUsed: toolsUsed,
			Error:     err.Error(),
		}
	}

	content := FormatForChannel(synthesis.Content, reqCtx.Channel)

	var validation *models.ValidationReport
	if extracted.HasTicker() && extracted.IsAnalysis {
		validation = Validate(content, results)
	}

	o.recordExchange(reqCtx.SessionID, message, content, extracted)

	return models.ProcessResponse{
		Success:    true,
		Response:   content,
		Citations:  synthesis.Citations,
		Cost:       &synthesis.Cost,
		ToolsUsed:  toolsUsed,
		Validation: validation,
	}
}

func (o *Orchestrator) recordExchange(sessionID, userMessage, assistantMessage string, extracted *models.ExtractedRequest) {
	intent := Intent(extracted)
	o.history.AppendExchange(sessionID, userMessage, assistantMessage, extracted.Tickers, intent)

	if o.recorder == nil {
		return
	}
	state := o.history.State(sessionID)
	n := len(state.History)
	if n < 2 {
		return
	}
	for _, turn := range state.History[n-2:] {
		if err := o.recorder.SaveTurn(sessionID, turn, extracted.Tickers, intent); err != nil {
			log.Printf("persist turn for session %s: %v", sessionID, err)
		}
	}
}

package assistant

import (
	"reflect"
	"strings"
	"testing"

	"github.com/arialabs/aria/internal/models"
	"github.com/arialabs/aria/internal/tools"
)

func newTestAnalyzer() *ContextAnalyzer {
	return NewContextAnalyzer(tools.DefaultCatalog().Skills())
}

func TestAnalyzePoliteness(t *testing.T) {
	a := newTestAnalyzer()

	for _, msg := range []string{"Merci", "merci !", "Merci beaucoup", "Thanks", "au revoir"} {
		ctx := a.Analyze(msg, nil)
		if ctx.Rule != "politeness" {
			t.Errorf("Analyze(%q).Rule = %q, want politeness", msg, ctx.Rule)
			continue
		}
		if !ctx.CanAnswerDirectly || ctx.DirectReply == "" {
			t.Errorf("Analyze(%q) missing canned reply", msg)
		}
	}
}

func TestAnalyzeHelp(t *testing.T) {
	a := newTestAnalyzer()

	ctx := a.Analyze("Que peux-tu faire ?", nil)
	if ctx.Rule != "help" {
		t.Fatalf("expected help rule, got %q", ctx.Rule)
	}
	if !ctx.CanAnswerDirectly || !strings.Contains(ctx.DirectReply, "Aria") {
		t.Fatalf("expected help reply introducing the assistant")
	}
}

func TestAnalyzeSkill(t *testing.T) {
	a := newTestAnalyzer()

	ctx := a.Analyze("Prépare-moi un briefing du matin", nil)
	if ctx.Rule != "skill" {
		t.Fatalf("expected skill rule, got %q", ctx.Rule)
	}
	if len(ctx.MatchedSkills) != 1 || ctx.MatchedSkills[0].Name != "briefing" {
		t.Fatalf("expected briefing skill, got %v", ctx.MatchedSkills)
	}

	// Several skill keywords in one message match several skills.
	ctx = a.Analyze("analyse technique et calendrier de la semaine", nil)
	if len(ctx.MatchedSkills) != 2 {
		t.Fatalf("expected 2 matched skills, got %d", len(ctx.MatchedSkills))
	}
}

func TestAnalyzeGreeting(t *testing.T) {
	a := newTestAnalyzer()

	ctx := a.Analyze("Bonjour !", nil)
	if ctx.Rule != "greeting" || !ctx.ShouldIntroduce {
		t.Fatalf("expected greeting with introduction, got %+v", ctx)
	}

	// A greeting buried mid-sentence is not a greeting opener.
	ctx = a.Analyze("Analyse AAPL et bonjour chez vous", nil)
	if ctx.Rule == "greeting" {
		t.Fatalf("mid-sentence greeting must not classify as greeting")
	}
}

func TestAnalyzeCoreference(t *testing.T) {
	a := newTestAnalyzer()
	prior := &models.ConversationState{
		LastTickers: []string{"AAPL"},
		LastIntent:  "analysis",
	}

	ctx := a.Analyze("et MSFT ?", prior)
	if ctx.Rule != "coreference" || !ctx.HasCoreference {
		t.Fatalf("expected coreference rule, got %+v", ctx)
	}
	if !reflect.DeepEqual(ctx.PreviousTickers, []string{"AAPL"}) {
		t.Fatalf("expected prior tickers carried, got %v", ctx.PreviousTickers)
	}
	if ctx.PreviousIntent != "analysis" {
		t.Fatalf("expected prior intent carried, got %q", ctx.PreviousIntent)
	}

	// Coreference matches on form alone, with or without prior state.
	ctx = a.Analyze("qu'en est-il de TSLA ?", nil)
	if ctx.Rule != "coreference" {
		t.Fatalf("expected coreference without prior state, got %q", ctx.Rule)
	}
	if len(ctx.PreviousTickers) != 0 {
		t.Fatalf("expected no prior tickers, got %v", ctx.PreviousTickers)
	}
}

func TestAnalyzeContextualReference(t *testing.T) {
	a := newTestAnalyzer()
	prior := &models.ConversationState{LastTickers: []string{"TSLA"}}

	ctx := a.Analyze("quel est son PER ?", prior)
	if ctx.Rule != "contextual" || !ctx.HasContextualRef {
		t.Fatalf("expected contextual rule, got %+v", ctx)
	}
	if !reflect.DeepEqual(ctx.PreviousTickers, []string{"TSLA"}) {
		t.Fatalf("expected prior tickers carried, got %v", ctx.PreviousTickers)
	}

	// Without prior tickers the contextual rule cannot fire.
	ctx = a.Analyze("quel est son PER ?", nil)
	if ctx.Rule != "general" {
		t.Fatalf("expected general fallback without prior state, got %q", ctx.Rule)
	}
}

func TestAnalyzeDefault(t *testing.T) {
	a := newTestAnalyzer()

	ctx := a.Analyze("Analyse AAPL", nil)
	if ctx.Rule != "general" {
		t.Fatalf("expected general rule, got %q", ctx.Rule)
	}
	if ctx.CanAnswerDirectly {
		t.Fatalf("general classification must not answer directly")
	}
}

func TestAnalyzeRuleOrder(t *testing.T) {
	a := newTestAnalyzer()

	// Politeness outranks skill keywords in the same message.
	ctx := a.Analyze("merci pour le briefing", nil)
	if ctx.Rule != "politeness" {
		t.Fatalf("expected politeness to win over skill, got %q", ctx.Rule)
	}

	// Skill outranks greeting.
	ctx = a.Analyze("bonjour, un briefing du matin s'il te plaît", nil)
	if ctx.Rule != "skill" {
		t.Fatalf("expected skill to win over greeting, got %q", ctx.Rule)
	}
}

package assistant

import (
	"regexp"
	"strings"

	"github.com/arialabs/aria/internal/models"
)

// ContextAnalyzer classifies a message against the session's rolling
// state. Classification is an explicit ordered rule list: the first
// matching rule fully determines the outcome, which keeps the tie-break
// order auditable. It never fails; any internal miss degrades to the
// default classification.
type ContextAnalyzer struct {
	skills []models.Skill
	rules  []classifierRule
}

type classifierRule struct {
	name  string
	match func(raw, normalized string, prior *models.ConversationState) *models.ConversationalContext
}

// Canned reply tables. Keys are matched against the trimmed lowercase
// message as exact, prefix or suffix.
var politenessReplies = map[string]string{
	"merci":          "Avec plaisir ! N'hésitez pas si vous avez d'autres questions sur les marchés.",
	"merci beaucoup": "Avec plaisir ! N'hésitez pas si vous avez d'autres questions sur les marchés.",
	"thanks":         "You're welcome! Feel free to ask me anything about the markets.",
	"thank you":      "You're welcome! Feel free to ask me anything about the markets.",
	"parfait":        "Ravie d'avoir pu vous aider !",
	"super":          "Ravie d'avoir pu vous aider !",
	"top":            "Ravie d'avoir pu vous aider !",
	"au revoir":      "À bientôt ! Je reste disponible pour vos analyses financières.",
	"bye":            "À bientôt ! Je reste disponible pour vos analyses financières.",
	"bonne journée":  "Bonne journée à vous ! À bientôt.",
}

const helpReply = "Je suis Aria, votre assistante financière. Je peux :\n" +
	"• analyser une action (cours, fondamentaux, ratios, recommandations) — « Analyse AAPL »\n" +
	"• suivre l'actualité d'un titre ou du marché — « actualités TSLA »\n" +
	"• préparer un briefing de marché — « briefing du matin »\n" +
	"• consulter les calendriers de résultats et économiques — « calendrier de la semaine »\n" +
	"• calculer des indicateurs techniques — « RSI de MSFT »"

var helpPhrases = []string{
	"help", "aide", "que peux-tu faire", "que sais-tu faire",
	"what can you do", "tes capacités", "your capabilities",
	"comment ça marche", "how do you work",
}

var greetingPhrases = []string{
	"bonjour", "bonsoir", "salut", "coucou", "hello", "hi", "hey",
	"good morning", "good evening",
}

var coreferencePattern = regexp.MustCompile(`^(et|and)\s+\S|^(what about|qu'en est-il|quid de|et pour)\b`)

var possessivePatterns = []string{
	"its ", "son ", "sa ", "ses ", "leur ", "their ",
	"le titre", "l'action", "cette valeur", "the stock",
}

// NewContextAnalyzer builds the analyzer over the catalog's skill table.
func NewContextAnalyzer(skills []models.Skill) *ContextAnalyzer {
	a := &ContextAnalyzer{skills: skills}
	a.rules = []classifierRule{
		{name: "politeness", match: a.matchPoliteness},
		{name: "help", match: a.matchHelp},
		{name: "skill", match: a.matchSkill},
		{name: "greeting", match: a.matchGreeting},
		{name: "coreference", match: a.matchCoreference},
		{name: "contextual", match: a.matchContextual},
	}
	return a
}

// Analyze classifies one message. Read-only over prior state.
func (a *ContextAnalyzer) Analyze(message string, prior *models.ConversationState) (out models.ConversationalContext) {
	// Matching must never take the request down; fall back to the
	// default classification on any internal failure.
	defer func() {
		if r := recover(); r != nil {
			out = defaultContext()
		}
	}()

	normalized := normalizeMessage(message)
	for _, rule := range a.rules {
		if ctx := rule.match(message, normalized, prior); ctx != nil {
			return *ctx
		}
	}
	return defaultContext()
}

func defaultContext() models.ConversationalContext {
	return models.ConversationalContext{Rule: "general"}
}

func (a *ContextAnalyzer) matchPoliteness(_, normalized string, _ *models.ConversationState) *models.ConversationalContext {
	trimmed := strings.Trim(normalized, " !.?")
	for phrase, reply := range politenessReplies {
		if trimmed == phrase || strings.HasPrefix(trimmed, phrase+" ") || strings.HasSuffix(trimmed, " "+phrase) {
			return &models.ConversationalContext{
				Rule:              "politeness",
				CanAnswerDirectly: true,
				DirectReply:       reply,
			}
		}
	}
	return nil
}

func (a *ContextAnalyzer) matchHelp(_, normalized string, _ *models.ConversationState) *models.ConversationalContext {
	for _, phrase := range helpPhrases {
		if strings.Contains(normalized, phrase) {
			return &models.ConversationalContext{
				Rule:              "help",
				CanAnswerDirectly: true,
				DirectReply:       helpReply,
			}
		}
	}
	return nil
}

func (a *ContextAnalyzer) matchSkill(_, normalized string, _ *models.ConversationState) *models.ConversationalContext {
	var matched []models.Skill
	for _, skill := range a.skills {
		for _, keyword := range skill.Keywords {
			if strings.Contains(normalized, keyword) {
				matched = append(matched, skill)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return &models.ConversationalContext{
		Rule:          "skill",
		MatchedSkills: matched,
	}
}

func (a *ContextAnalyzer) matchGreeting(_, normalized string, _ *models.ConversationState) *models.ConversationalContext {
	trimmed := strings.Trim(normalized, " !.?,")
	for _, phrase := range greetingPhrases {
		if trimmed == phrase || strings.HasPrefix(trimmed, phrase+" ") || strings.HasPrefix(trimmed, phrase+",") {
			return &models.ConversationalContext{
				Rule:            "greeting",
				ShouldIntroduce: true,
			}
		}
	}
	return nil
}

func (a *ContextAnalyzer) matchCoreference(_, normalized string, prior *models.ConversationState) *models.ConversationalContext {
	if !coreferencePattern.MatchString(normalized) {
		return nil
	}
	ctx := &models.ConversationalContext{
		Rule:           "coreference",
		HasCoreference: true,
	}
	if prior != nil {
		ctx.PreviousTickers = append([]string(nil), prior.LastTickers...)
		ctx.PreviousIntent = prior.LastIntent
	}
	return ctx
}

func (a *ContextAnalyzer) matchContextual(_, normalized string, prior *models.ConversationState) *models.ConversationalContext {
	if prior == nil || len(prior.LastTickers) == 0 {
		return nil
	}
	for _, pattern := range possessivePatterns {
		if strings.Contains(normalized, pattern) {
			return &models.ConversationalContext{
				Rule:             "contextual",
				HasContextualRef: true,
				PreviousTickers:  append([]string(nil), prior.LastTickers...),
				PreviousIntent:   prior.LastIntent,
			}
		}
	}
	return nil
}

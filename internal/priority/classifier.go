// Package priority assigns a severity level to incoming communications.
package priority

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/textnorm"
)

// Input is what the classifier looks at.
type Input struct {
	Kind         domain.CommunicationKind
	Description  string
	Category     string
	AreaInvolved string
}

// Assessment is a classification together with its cause.
type Assessment struct {
	Level   domain.PriorityLevel
	Keyword string
	Reason  string
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	complaint  []Rule
	suggestion []Rule
}

// complaintTiers fixes evaluation order: urgency dominates severity.
var complaintTiers = []domain.PriorityLevel{domain.PriorityUrgent, domain.PriorityHigh}

// NewClassifier builds a classifier from rule sets. Keywords are folded once here.
func NewClassifier(complaint, suggestion []Rule) *Classifier {
	return &Classifier{complaint: foldRules(complaint), suggestion: foldRules(suggestion)}
}

// Default returns a classifier with the built-in Spanish keyword sets.
func Default() *Classifier {
	return NewClassifier(DefaultComplaintRules(), DefaultSuggestionRules())
}

// Classify returns the level for in. It never fails; Media is the fallback.
func (c *Classifier) Classify(in Input) domain.PriorityLevel {
	return c.Assess(in).Level
}

// Explain returns a short justification for the level Classify returns.
func (c *Classifier) Explain(in Input) string {
	return c.Assess(in).Reason
}

// Assess classifies in and records which keyword decided it.
func (c *Classifier) Assess(in Input) Assessment {
	switch in.Kind {
	case domain.KindRecognition:
		return Assessment{Level: domain.PriorityLow, Reason: "Reconocimiento: prioridad baja"}
	case domain.KindSuggestion:
		text := blob(in)
		if kw, ok := firstMatch(text, c.suggestion, domain.PriorityMedium); ok {
			return Assessment{
				Level:   domain.PriorityMedium,
				Keyword: kw,
				Reason:  fmt.Sprintf("Sugerencia con término de relevancia %q: prioridad media", kw),
			}
		}
		return Assessment{Level: domain.PriorityLow, Reason: "Sugerencia sin términos de relevancia: prioridad baja"}
	case domain.KindComplaint:
		text := blob(in)
		for _, level := range complaintTiers {
			if kw, ok := firstMatch(text, c.complaint, level); ok {
				return Assessment{Level: level, Keyword: kw, Reason: complaintReason(level, kw)}
			}
		}
		return Assessment{Level: domain.PriorityMedium, Reason: "Queja sin términos de riesgo o gravedad: prioridad media"}
	default:
		return Assessment{Level: domain.PriorityMedium, Reason: "Tipo de comunicación desconocido: prioridad media"}
	}
}

func complaintReason(level domain.PriorityLevel, kw string) string {
	if level == domain.PriorityUrgent {
		return fmt.Sprintf("Queja con término de emergencia %q: prioridad urgente", kw)
	}
	return fmt.Sprintf("Queja con término de gravedad %q: prioridad alta", kw)
}

func blob(in Input) string {
	return textnorm.Fold(strings.Join([]string{in.Description, in.AreaInvolved, in.Category}, " "))
}

func firstMatch(text string, rules []Rule, level domain.PriorityLevel) (string, bool) {
	for _, r := range rules {
		if r.Level == level && r.Keyword != "" && containsWord(text, r) {
			return r.Keyword, true
		}
	}
	return "", false
}

// containsWord reports whether r.Keyword occurs in text starting at a word
// boundary. Whole-word rules must also end at a boundary, after an optional
// plural "s" or "es".
func containsWord(text string, r Rule) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], r.Keyword)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(r.Keyword)
		if wordStart(text, start) && (r.Stem || wordEnd(text, end)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func wordStart(text string, i int) bool {
	if i == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(prev)
}

func wordEnd(text string, i int) bool {
	rest := text[i:]
	for _, suffix := range []string{"", "s", "es"} {
		if !strings.HasPrefix(rest, suffix) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(rest[len(suffix):])
		if len(rest) == len(suffix) || !isWordRune(next) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func foldRules(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, Rule{Keyword: textnorm.Fold(strings.TrimSpace(r.Keyword)), Level: r.Level, Stem: r.Stem})
	}
	return out
}

package priority

import "github.com/fmht/buzon-service/internal/domain"

// Rule maps a keyword to the level it triggers. Keywords match whole words of
// the folded text, plural forms included. A Stem rule only has to start a
// word, so "desmay" covers "desmayo" and "desmayó".
type Rule struct {
	Keyword string
	Level   domain.PriorityLevel
	Stem    bool
}

var urgentKeywords = []string{
	"emergencia", "accidente", "lesion", "riesgo",
	"incendio", "fuego", "humo", "violencia", "agresion",
	"asalto", "robo", "amenaza", "acoso", "sismo",
}

var urgentStems = []string{"herid", "peligr", "desmay", "agredi", "evacua"}

var highKeywords = []string{
	"grave", "critico", "critica", "dano", "roto", "rota",
	"no funciona", "muchos afectados", "varios afectados", "todos afectados",
	"salud", "comida", "alimento", "agua", "luz",
	"electricidad", "sin energia", "fuga de gas", "derrumbe", "colapso",
	"estructural", "inundacion", "inseguro", "insegura",
}

var highStems = []string{"destruid", "descompuest", "hospital", "enferm", "inundad"}

var seriousnessKeywords = []string{
	"problema", "grave", "importante", "necesario", "necesaria", "urgente", "urge",
}

// DefaultComplaintRules returns the complaint cascade: urgent terms, then high-severity terms.
func DefaultComplaintRules() []Rule {
	rules := make([]Rule, 0, len(urgentKeywords)+len(urgentStems)+len(highKeywords)+len(highStems))
	for _, k := range urgentKeywords {
		rules = append(rules, Rule{Keyword: k, Level: domain.PriorityUrgent})
	}
	for _, k := range urgentStems {
		rules = append(rules, Rule{Keyword: k, Level: domain.PriorityUrgent, Stem: true})
	}
	for _, k := range highKeywords {
		rules = append(rules, Rule{Keyword: k, Level: domain.PriorityHigh})
	}
	for _, k := range highStems {
		rules = append(rules, Rule{Keyword: k, Level: domain.PriorityHigh, Stem: true})
	}
	return rules
}

// DefaultSuggestionRules returns the terms that raise a suggestion to Media.
func DefaultSuggestionRules() []Rule {
	rules := make([]Rule, 0, len(seriousnessKeywords))
	for _, k := range seriousnessKeywords {
		rules = append(rules, Rule{Keyword: k, Level: domain.PriorityMedium})
	}
	return rules
}

package domain

import "strings"

// PriorityLevel is the severity assigned to a communication at intake.
type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "Baja"
	PriorityMedium PriorityLevel = "Media"
	PriorityHigh   PriorityLevel = "Alta"
	PriorityUrgent PriorityLevel = "Urgente"
)

// Valid reports whether p is a known level.
func (p PriorityLevel) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriorityLevel accepts the serialized level, ignoring case.
func ParsePriorityLevel(raw string) (PriorityLevel, bool) {
	for _, p := range []PriorityLevel{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		if strings.EqualFold(strings.TrimSpace(raw), string(p)) {
			return p, true
		}
	}
	return "", false
}

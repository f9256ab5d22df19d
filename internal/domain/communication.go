package domain

import (
	"strings"
	"time"
)

// CommunicationKind classifies what the submitter is sending.
type CommunicationKind string

const (
	KindComplaint   CommunicationKind = "Queja"
	KindSuggestion  CommunicationKind = "Sugerencia"
	KindRecognition CommunicationKind = "Reconocimiento"
)

// Valid reports whether k is one of the known kinds.
func (k CommunicationKind) Valid() bool {
	switch k {
	case KindComplaint, KindSuggestion, KindRecognition:
		return true
	}
	return false
}

// ParseCommunicationKind accepts the serialized kind, ignoring case.
func ParseCommunicationKind(raw string) (CommunicationKind, bool) {
	for _, k := range []CommunicationKind{KindComplaint, KindSuggestion, KindRecognition} {
		if strings.EqualFold(strings.TrimSpace(raw), string(k)) {
			return k, true
		}
	}
	return "", false
}

// Channel is how the communication was received.
type Channel string

const (
	ChannelPaper   Channel = "F"
	ChannelDigital Channel = "D"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelPaper || c == ChannelDigital
}

// Communication is a complaint, suggestion or recognition.
// Folio and ReceivedAt are assigned by storage.
type Communication struct {
	ID           int64
	Folio        string
	Kind         CommunicationKind
	SubmitterID  *int64
	CategoryID   *int64
	Description  string
	AreaInvolved *string
	ReceivedAt   time.Time
	Channel      Channel
	IsPublic     bool
}

// Anonymous reports whether no submitter is linked.
func (c *Communication) Anonymous() bool {
	return c.SubmitterID == nil
}

// NormalizeVisibility clears the public flag on anything but recognitions.
func (c *Communication) NormalizeVisibility() {
	if c.Kind != KindRecognition {
		c.IsPublic = false
	}
}

// CommunicationSummary is a listing row: the communication plus its current tracking state.
type CommunicationSummary struct {
	Communication
	CategoryName    *string
	StatusName      *string
	Priority        *PriorityLevel
	AssignedAdminID *int64
	TrackingUpdated *time.Time
}

// PublicStatus is what a submitter can learn from a folio.
type PublicStatus struct {
	Folio      string
	Kind       CommunicationKind
	ReceivedAt time.Time
	StatusName *string
	Priority   *PriorityLevel
	UpdatedAt  *time.Time
	ResolvedOn *time.Time
}

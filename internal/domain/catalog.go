package domain

import "strings"

// Status is a configured, human-named tracking state.
type Status struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// Category groups communications by subject.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

// Status names that drive business rules. These are matched against
// operator-entered names, never against ids.
const (
	statusNamePending  = "Pendiente"
	statusNameClosed   = "Cerrada"
	statusNameAttended = "Atendida"
)

// IsPendingStatusName reports whether name denotes the initial status.
func IsPendingStatusName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), statusNamePending)
}

// IsTerminalStatusName reports whether name closes a tracking record.
func IsTerminalStatusName(name string) bool {
	name = strings.TrimSpace(name)
	return strings.EqualFold(name, statusNameClosed) || strings.EqualFold(name, statusNameAttended)
}

// FindPendingStatus returns the pending status from a catalog, if configured.
func FindPendingStatus(statuses []Status) (Status, bool) {
	for _, s := range statuses {
		if IsPendingStatusName(s.Name) {
			return s, true
		}
	}
	return Status{}, false
}

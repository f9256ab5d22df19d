package domain

import "time"

// Evidence is a file attached to a communication.
type Evidence struct {
	ID              int64
	CommunicationID int64
	StorageKey      string
	OriginalName    string
	MIMEType        string
	SizeBytes       int64
	UploadedAt      time.Time
}

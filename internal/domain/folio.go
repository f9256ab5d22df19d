package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// FolioOffice is the fixed office segment of every folio.
const FolioOffice = "FMHT"

var folioPattern = regexp.MustCompile(`^([FD])(\d{4,})/(\d{2})/FMHT/(\d{2})$`)

// Folio is the decoded form of a ticket code such as D0007/03/FMHT/25.
type Folio struct {
	Channel  Channel
	Sequence int
	Month    int
	Year     int // two digits
}

// FormatFolio renders the code the database trigger assigns.
func FormatFolio(channel Channel, sequence int, receivedAt time.Time) string {
	return fmt.Sprintf("%s%04d/%02d/%s/%02d", channel, sequence, int(receivedAt.Month()), FolioOffice, receivedAt.Year()%100)
}

// ParseFolio decodes a folio string.
func ParseFolio(raw string) (Folio, error) {
	m := folioPattern.FindStringSubmatch(raw)
	if m == nil {
		return Folio{}, fmt.Errorf("invalid folio %q", raw)
	}
	seq, _ := strconv.Atoi(m[2])
	month, _ := strconv.Atoi(m[3])
	year, _ := strconv.Atoi(m[4])
	if seq == 0 || month < 1 || month > 12 {
		return Folio{}, fmt.Errorf("invalid folio %q", raw)
	}
	return Folio{Channel: Channel(m[1]), Sequence: seq, Month: month, Year: year}, nil
}

func (f Folio) String() string {
	return fmt.Sprintf("%s%04d/%02d/%s/%02d", f.Channel, f.Sequence, f.Month, FolioOffice, f.Year)
}

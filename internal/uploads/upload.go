package uploads

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type ID string

func NewID() ID {
	return ID(gonanoid.Must())
}

type Status uint

const (
	StatusUndefined Status = iota
	StatusPending
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "undefined"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for candidate := StatusPending; candidate <= StatusFailed; candidate++ {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	*s = StatusUndefined
	return nil
}

// Upload records one ingestion attempt.
type Upload struct {
	ID       ID        `json:"id"`
	Filename string    `json:"filename"`
	Time     time.Time `json:"time"`
	Status   Status    `json:"status"`
	// Source is the name of the CSV picked from the archive.
	Source   string `json:"source,omitempty"`
	Rows     int    `json:"rows"`
	Skipped  int    `json:"skipped"`
	Slots    int    `json:"slots"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration,omitempty"`
}

func NewUpload(filename string, now time.Time) *Upload {
	return &Upload{
		ID:       NewID(),
		Filename: filename,
		Time:     now,
		Status:   StatusPending,
	}
}

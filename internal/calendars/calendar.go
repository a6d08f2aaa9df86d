package calendars

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/studioanalytics/internal/query"
)

type ID string

func NewID() ID {
	return ID(gonanoid.Must())
}

// Calendar is a saved subscription feed over the active dataset.
type Calendar struct {
	ID      ID            `json:"id"`
	Name    string        `json:"name" validate:"required,max=100"`
	Request query.Request `json:"request"`
	Created time.Time     `json:"created"`
}

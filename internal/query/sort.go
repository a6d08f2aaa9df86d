package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/studioanalytics/internal/slots"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

type SortKey struct {
	Field     Field     `json:"field" validate:"required"`
	Direction Direction `json:"direction" validate:"omitempty,oneof=asc desc"`
}

// ParseSortKeys parses "field:dir,field:dir". The direction defaults to asc.
func ParseSortKeys(s string) ([]SortKey, error) {
	var keys []SortKey
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, dir, _ := strings.Cut(part, ":")
		field, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		key := SortKey{Field: field, Direction: Ascending}
		switch strings.ToLower(dir) {
		case "", string(Ascending):
		case string(Descending):
			key.Direction = Descending
		default:
			return nil, fmt.Errorf("%q: unknown sort direction", dir)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// compareValues orders numbers numerically and everything else with the
// collator. Not applicable values order before any number.
func compareValues(c *collate.Collator, a, b Value) int {
	if a.Missing || b.Missing {
		switch {
		case a.Missing && b.Missing:
			return 0
		case a.Missing:
			return -1
		default:
			return 1
		}
	}
	if x, ok := a.asNumber(); ok {
		if y, ok := b.asNumber(); ok {
			return cmp.Compare(x, y)
		}
	}
	return c.CompareString(a.Text, b.Text)
}

// Sort returns a copy of dataset ordered by keys. Ties on every key keep their
// original relative order.
func Sort(dataset []slots.Slot, keys ...SortKey) []slots.Slot {
	out := slices.Clone(dataset)
	if len(keys) == 0 {
		return out
	}
	c := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b slots.Slot) int {
		for _, key := range keys {
			result := compareValues(c, key.Field.Get(a), key.Field.Get(b))
			if key.Direction == Descending {
				result = -result
			}
			if result != 0 {
				return result
			}
		}
		return 0
	})
	return out
}

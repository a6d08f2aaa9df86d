package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/studioanalytics/internal/slots"
)

type Operator string

const (
	OperatorContains   Operator = "contains"
	OperatorEquals     Operator = "equals"
	OperatorStartsWith Operator = "startsWith"
	OperatorEndsWith   Operator = "endsWith"
	OperatorGreater    Operator = "greater"
	OperatorLess       Operator = "less"
	OperatorAfter      Operator = "after"
	OperatorBefore     Operator = "before"
	OperatorOn         Operator = "on"
	OperatorIn         Operator = "in"
)

var operators = []Operator{
	OperatorContains, OperatorEquals, OperatorStartsWith, OperatorEndsWith,
	OperatorGreater, OperatorLess, OperatorAfter, OperatorBefore, OperatorOn, OperatorIn,
}

func ParseOperator(s string) (Operator, error) {
	for _, op := range operators {
		if strings.EqualFold(string(op), s) {
			return op, nil
		}
	}
	return "", fmt.Errorf("%q: unknown operator", s)
}

// Filter is an ad hoc predicate over one slot field. For OperatorIn, Value is
// a comma separated list.
type Filter struct {
	Field    Field    `json:"field" validate:"required"`
	Operator Operator `json:"operator" validate:"required,oneof=contains equals startsWith endsWith greater less after before on in"`
	Value    string   `json:"value"`
}

func (f Filter) Match(slot slots.Slot) bool {
	got := f.Field.Get(slot)
	want := Value{Text: f.Value}
	switch f.Operator {
	case OperatorContains:
		return strings.Contains(strings.ToLower(got.Text), strings.ToLower(f.Value))
	case OperatorEquals:
		if a, ok := got.asNumber(); ok {
			if b, ok := want.asNumber(); ok {
				return a == b
			}
		}
		return strings.EqualFold(got.Text, f.Value)
	case OperatorStartsWith:
		return strings.HasPrefix(strings.ToLower(got.Text), strings.ToLower(f.Value))
	case OperatorEndsWith:
		return strings.HasSuffix(strings.ToLower(got.Text), strings.ToLower(f.Value))
	case OperatorGreater, OperatorLess:
		a, ok := got.asNumber()
		if !ok {
			return false
		}
		b, ok := want.asNumber()
		if !ok {
			return false
		}
		if f.Operator == OperatorGreater {
			return a > b
		}
		return a < b
	case OperatorAfter, OperatorBefore, OperatorOn:
		a, ok := got.asDate()
		if !ok {
			return false
		}
		b, ok := want.asDate()
		if !ok {
			return false
		}
		switch f.Operator {
		case OperatorAfter:
			return a.After(b)
		case OperatorBefore:
			return a.Before(b)
		default:
			return a.Equal(b)
		}
	case OperatorIn:
		values := strings.Split(f.Value, ",")
		return slices.ContainsFunc(values, func(v string) bool {
			return strings.EqualFold(strings.TrimSpace(v), got.Text)
		})
	default:
		return false
	}
}

// Apply keeps the slots matching every filter.
func Apply(dataset []slots.Slot, filters ...Filter) []slots.Slot {
	out := make([]slots.Slot, 0, len(dataset))
	for _, slot := range dataset {
		keep := true
		for _, f := range filters {
			if !f.Match(slot) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, slot)
		}
	}
	return out
}

package http

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/studioanalytics/internal/query"
)

// requestFromParams builds a query request from URL parameters:
// search, trainer, class, location, day, period, from, to,
// sort=field:dir,... and repeatable filter=field:operator:value.
func requestFromParams(params url.Values) (query.Request, error) {
	req := query.Request{
		Options: query.Options{
			SearchTerm:        params.Get("search"),
			SelectedTrainer:   params.Get("trainer"),
			SelectedClass:     params.Get("class"),
			SelectedLocation:  params.Get("location"),
			SelectedDayOfWeek: params.Get("day"),
			SelectedPeriod:    params.Get("period"),
		},
	}
	if from, to := params.Get("from"), params.Get("to"); from != "" || to != "" {
		req.Options.DateRange = &query.DateRange{From: from, To: to}
	}

	if s := params.Get("sort"); s != "" {
		keys, err := query.ParseSortKeys(s)
		if err != nil {
			return query.Request{}, fmt.Errorf("parse sort: %w", err)
		}
		req.Sort = keys
	}

	for _, raw := range params["filter"] {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return query.Request{}, fmt.Errorf("%q: filter must be field:operator:value", raw)
		}
		field, err := query.ParseField(parts[0])
		if err != nil {
			return query.Request{}, fmt.Errorf("parse filter: %w", err)
		}
		op, err := query.ParseOperator(parts[1])
		if err != nil {
			return query.Request{}, fmt.Errorf("parse filter: %w", err)
		}
		req.Filters = append(req.Filters, query.Filter{Field: field, Operator: op, Value: parts[2]})
	}

	if err := req.Validate(); err != nil {
		return query.Request{}, err
	}
	return req, nil
}

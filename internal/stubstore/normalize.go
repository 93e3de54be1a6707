package stubstore

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/common"
)

// normalize checks body against the field schema of e and returns the stored
// form: trimmed text, json.Number numbers, YYYY-MM-DD dates and existing
// relation ids. Absent optional attributes of prev are kept. The caller
// holds the write lock.
func (s *Store) normalize(e schema.Entity, body map[string]any, prev client.Record) (client.Record, error) {
	rec := client.Record{}
	var errs ValidationErrors

	for _, f := range schema.FieldsFor(e) {
		raw, present := body[f.Wire]
		if !present && prev != nil {
			raw = prev[f.Wire]
		}
		text := strings.TrimSpace(schema.TextOf(raw))
		if text == "" {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Wire, Msg: "field required"})
			}
			rec[f.Wire] = nil
			continue
		}

		switch f.Kind {
		case schema.KindNumber:
			v, ok := schema.FloatOf(raw)
			if !ok {
				errs = append(errs, FieldError{Field: f.Wire, Msg: "value is not a valid number"})
				continue
			}
			if err := f.CheckRange(text, s.now()); err != nil {
				errs = append(errs, FieldError{Field: f.Wire, Msg: err.Error()})
				continue
			}
			if f.Step == 1 && v != float64(int64(v)) {
				errs = append(errs, FieldError{Field: f.Wire, Msg: "value is not a valid integer"})
				continue
			}
			rec[f.Wire] = json.Number(strconv.FormatFloat(v, 'f', -1, 64))

		case schema.KindRelation:
			id, ok := schema.IntOf(raw)
			if !ok {
				errs = append(errs, FieldError{Field: f.Wire, Msg: "value is not a valid integer"})
				continue
			}
			if _, exists := s.tables[f.Related][id]; !exists {
				return nil, detailf(common.ErrorIncorrectInput, "%s not found", title(f.Related))
			}
			rec[f.Wire] = json.Number(strconv.FormatInt(id, 10))

		case schema.KindDate:
			if len(text) > len(client.DateLayout) {
				text = text[:len(client.DateLayout)]
			}
			if _, err := time.Parse(client.DateLayout, text); err != nil {
				errs = append(errs, FieldError{Field: f.Wire, Msg: "invalid date format"})
				continue
			}
			rec[f.Wire] = text

		default:
			rec[f.Wire] = text
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Record is one decoded JSON object. Numbers are kept as json.Number.
type Record map[string]any

// Int reads an integer attribute.
func (r Record) Int(key string) (int64, bool) {
	return schema.IntOf(r[key])
}

// Float reads a numeric attribute.
func (r Record) Float(key string) (float64, bool) {
	return schema.FloatOf(r[key])
}

// Text renders an attribute for display; absent and null become "".
func (r Record) Text(key string) string {
	return schema.TextOf(r[key])
}

// Decimal reads a money attribute without float rounding. Absent, null and
// malformed values are reported as zero with ok=false.
func (r Record) Decimal(key string) (decimal.Decimal, bool) {
	switch v := r[key].(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		return decimal.Zero, false
	}
}

// Date reads a calendar date, accepting a full timestamp as well.
// blank=true means the attribute is absent or empty.
func (r Record) Date(key string) (t time.Time, blank bool, err error) {
	s := strings.TrimSpace(r.Text(key))
	if s == "" {
		return time.Time{}, true, nil
	}
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("parse date %q", s)
}

func decodeRecords(body []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out []Record
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

func decodeRecord(body []byte) (Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Record{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out Record
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if out == nil {
		out = Record{}
	}
	return out, nil
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// The structured AI payloads live in JSONB columns; Valuer/Scanner keep the
// database layer free of per-field marshaling.

func jsonValue(v any) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(dst any, src any) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	}
	return fmt.Errorf("unsupported JSONB source type %T", src)
}

func (a CallAnalysis) Value() (driver.Value, error) { return jsonValue(a) }
func (a *CallAnalysis) Scan(src any) error          { return jsonScan(a, src) }

func (r EvaluationResult) Value() (driver.Value, error) { return jsonValue(r) }
func (r *EvaluationResult) Scan(src any) error          { return jsonScan(r, src) }

func (c CriteriaMet) Value() (driver.Value, error) { return jsonValue(c) }
func (c *CriteriaMet) Scan(src any) error          { return jsonScan(c, src) }

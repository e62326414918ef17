// Package normalize maps heterogeneous backend candidate shapes onto the
// canonical result schema. Recognition is data driven: an ordered table of
// shape rules, evaluated first-match-wins, plus an independent rule set for
// address field promotion.
package normalize

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/tilebound/geomux/internal/types"
)

// Normalizer turns raw backend candidates into canonical results.
type Normalizer struct {
	rules []Rule
}

// New returns a normalizer over the given shape table, or over DefaultRules
// when none is supplied.
func New(rules ...Rule) *Normalizer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Normalizer{rules: rules}
}

// Normalize maps one raw candidate onto the canonical schema. ok reports
// whether any rule recognized a coordinate shape; unrecognized candidates
// come back with zero geometry so callers can still pass them through.
// Address promotion is independent of shape recognition.
func (n *Normalizer) Normalize(raw json.RawMessage) (types.Result, bool) {
	addr := promoteAddress(raw)
	for _, rule := range n.rules {
		if loc, ok := rule.Extract(raw); ok {
			return types.Result{
				Geometry: types.Geometry{Location: loc},
				Address:  addr,
			}, true
		}
	}
	return types.Result{Address: addr}, false
}

// CandidateError returns the embedded error text when the candidate carries
// an explicit error field: the field's string form, or its message member
// when the field is an object.
func CandidateError(raw json.RawMessage) (string, bool) {
	v := gjson.GetBytes(raw, "error")
	if !v.Exists() {
		return "", false
	}
	if v.IsObject() {
		if msg := v.Get("message"); msg.Exists() {
			return msg.String(), true
		}
	}
	return v.String(), true
}

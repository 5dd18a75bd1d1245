// Package lead turns extracted record maps into canonical Lead values and
// renders them for callers. The model output uses several spellings for the
// same field across runs, so every alias is resolved exactly once here and
// nowhere downstream.
package lead

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

const (
	scoreMin = 1
	scoreMax = 10
)

// FromRecords normalizes extracted records into Leads. Nil entries are
// skipped; diagnostic records pass through as diagnostic leads so callers
// can still see what failed.
func FromRecords(records []map[string]any) []model.Lead {
	leads := make([]model.Lead, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		leads = append(leads, fromRecord(rec))
	}
	return leads
}

func fromRecord(rec map[string]any) model.Lead {
	if errVal := stringField(rec, "error"); errVal != "" {
		return model.Lead{Error: errVal, Raw: stringField(rec, "raw")}
	}
	if raw, ok := rec["raw_output"]; ok && len(rec) == 1 {
		return model.Lead{Error: "unstructured_output", Raw: renderScalar(raw)}
	}

	l := model.Lead{
		CompanyName:    stringField(rec, "company_name", "company"),
		AnnualRevenue:  stringField(rec, "annual_revenue", "revenue"),
		WebsiteURL:     stringField(rec, "website_url", "link"),
		Review:         stringField(rec, "review"),
		Assessment:     stringField(rec, "assessment"),
		Recommendation: stringField(rec, "sales_recommendations", "recommendation"),
		Location:       locationField(rec["location"]),
		NumEmployees:   intField(rec, "num_employees", "employees"),
	}

	if score := intField(rec, "score"); score != nil {
		if *score < scoreMin || *score > scoreMax {
			zap.L().Warn("lead: score outside expected range",
				zap.String("company", l.CompanyName),
				zap.Int("score", *score),
			)
		}
		l.Score = score
	}

	if dms, ok := rec["key_decision_makers"].([]any); ok {
		l.KeyDecisionMakers = decisionMakers(dms)
	}

	return l
}

// locationField accepts both shapes the model produces: a
// {"city": ..., "country": ...} object or a plain string.
func locationField(v any) model.Location {
	switch loc := v.(type) {
	case map[string]any:
		return model.Location{
			City:    stringField(loc, "city"),
			Country: stringField(loc, "country"),
		}
	case string:
		return model.Location{Raw: strings.TrimSpace(loc)}
	default:
		return model.Location{}
	}
}

func decisionMakers(items []any) []model.DecisionMaker {
	out := make([]model.DecisionMaker, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		dm := model.DecisionMaker{
			Name:     stringField(m, "name"),
			Role:     stringField(m, "role", "position", "title"),
			LinkedIn: stringField(m, "linkedin", "linkedin_url"),
		}
		if dm.Name == "" && dm.Role == "" {
			continue
		}
		out = append(out, dm)
	}
	return out
}

// stringField returns the first present key rendered as a string. Numbers
// are formatted rather than dropped: revenue in particular arrives as either
// "$4M" or 4000000 depending on the run.
func stringField(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if s := renderScalar(v); s != "" {
			return s
		}
	}
	return ""
}

// intField returns the first present key coerced to an int, accepting JSON
// numbers and numeric strings.
func intField(rec map[string]any, keys ...string) *int {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			if n == math.Trunc(n) {
				i := int(n)
				return &i
			}
		case int:
			i := n
			return &i
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				return &i
			}
		}
	}
	return nil
}

func renderScalar(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

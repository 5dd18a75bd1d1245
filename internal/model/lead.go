package model

import "strings"

// Location is a company location that arrives either as a {city, country}
// object or as a free-text string, depending on what the model produced.
// Both shapes normalize to the same display representation without data loss.
type Location struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Raw     string `json:"raw,omitempty"` // free-text form when not structured
}

// Display renders the location as a single string. Structured parts are
// joined with a comma; the free-text form is returned as-is.
func (l Location) Display() string {
	if l.Raw != "" {
		return l.Raw
	}
	parts := make([]string, 0, 2)
	if l.City != "" {
		parts = append(parts, l.City)
	}
	if l.Country != "" {
		parts = append(parts, l.Country)
	}
	return strings.Join(parts, ", ")
}

// IsZero reports whether no location information is present.
func (l Location) IsZero() bool {
	return l.City == "" && l.Country == "" && l.Raw == ""
}

// DecisionMaker is one key contact at a company.
type DecisionMaker struct {
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Lead is the canonical, alias-resolved company record produced by the
// normalizer. All fields are optional; a record that could not be parsed at
// all carries only Error and Raw.
type Lead struct {
	CompanyName       string          `json:"company_name,omitempty"`
	AnnualRevenue     string          `json:"annual_revenue,omitempty"`
	Location          Location        `json:"location,omitzero"`
	WebsiteURL        string          `json:"website_url,omitempty"`
	Review            string          `json:"review,omitempty"`
	Assessment        string          `json:"assessment,omitempty"`
	NumEmployees      *int            `json:"num_employees,omitempty"`
	KeyDecisionMakers []DecisionMaker `json:"key_decision_makers,omitempty"`
	Score             *int            `json:"score,omitempty"`
	Recommendation    string          `json:"recommendation,omitempty"` // resolved once from alias keys

	// Diagnostic shape: populated instead of the fields above when the raw
	// output could not be parsed into a record.
	Error string `json:"error,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

// IsDiagnostic reports whether this lead is a parse-failure placeholder
// rather than a real company record.
func (l Lead) IsDiagnostic() bool {
	return l.Error != ""
}

package lead

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/leadgen-cli/internal/cost"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// RenderReport produces a markdown summary of a run: one section per
// company, a diagnostics section for records that failed to parse, and the
// usage totals.
func RenderReport(inputs model.Inputs, leads []model.Lead, usage cost.Summary, runID string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Lead Generation Report: %s in %s\n\n", inputs.Industry, inputs.Country)
	fmt.Fprintf(&b, "Run `%s` on %s.\n\n", runID, time.Now().Format("2006-01-02"))

	var companies, diagnostics []model.Lead
	for _, l := range leads {
		if l.IsDiagnostic() {
			diagnostics = append(diagnostics, l)
			continue
		}
		companies = append(companies, l)
	}

	fmt.Fprintf(&b, "**%d lead(s) identified.**\n", len(companies))

	for i, l := range companies {
		name := l.CompanyName
		if name == "" {
			name = fmt.Sprintf("Company %d", i+1)
		}
		fmt.Fprintf(&b, "\n## %d. %s\n\n", i+1, name)

		writeField(&b, "Website", l.WebsiteURL)
		writeField(&b, "Location", l.Location.Display())
		writeField(&b, "Annual revenue", l.AnnualRevenue)
		if l.NumEmployees != nil {
			writeField(&b, "Employees", fmt.Sprintf("%d", *l.NumEmployees))
		}
		if l.Score != nil {
			writeField(&b, "Score", fmt.Sprintf("%d / 10", *l.Score))
		}
		writeField(&b, "Recommendation", l.Recommendation)

		if len(l.KeyDecisionMakers) > 0 {
			b.WriteString("\n### Key decision makers\n\n")
			for _, dm := range l.KeyDecisionMakers {
				line := "- " + dm.Name
				if dm.Role != "" {
					line += " — " + dm.Role
				}
				if dm.LinkedIn != "" {
					line += " (" + dm.LinkedIn + ")"
				}
				b.WriteString(line + "\n")
			}
		}

		if l.Review != "" {
			fmt.Fprintf(&b, "\n### Review\n\n%s\n", l.Review)
		}
		if l.Assessment != "" {
			fmt.Fprintf(&b, "\n### Assessment\n\n%s\n", l.Assessment)
		}
	}

	if len(diagnostics) > 0 {
		b.WriteString("\n## Unparsed output\n")
		for _, d := range diagnostics {
			fmt.Fprintf(&b, "\n- `%s`:\n\n  ```\n  %s\n  ```\n", d.Error, d.Raw)
		}
	}

	b.WriteString("\n## Usage\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Input tokens | %d |\n", usage.InputTokens)
	fmt.Fprintf(&b, "| Output tokens | %d |\n", usage.OutputTokens)
	fmt.Fprintf(&b, "| Total tokens | %d |\n", usage.TotalTokens)
	fmt.Fprintf(&b, "| Estimated cost | $%.4f |\n", usage.TotalCost)

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- **%s:** %s\n", label, value)
}

// internal/workers/communication/deliver-report/report.go
package deliverreport

import (
	"bytes"
	"fmt"
	"text/template"
)

var reportTemplate = template.Must(template.New("report").Parse(`Comparison result{{if .Category}}: {{.Category}}{{end}}

Best choice: {{.BestItemName}}
{{if .Explanation}}
{{.Explanation}}
{{end}}{{if .RankedItems}}
Full ranking:
{{range .RankedItems}}  {{.Rank}}. {{.Name}} ({{printf "%.2f" .Score}})
{{end}}{{end}}
Report {{.ReportID}}
`))

type reportData struct {
	*Input
	ReportID string
}

// RenderReport returns the plain-text email body.
func RenderReport(in *Input, reportID string) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, reportData{Input: in, ReportID: reportID}); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// SMSSummary is the one-line text message; the sender truncates it to a
// single segment.
func SMSSummary(in *Input, emailed bool) string {
	msg := fmt.Sprintf("Best pick: %s", in.BestItemName)
	if in.Category != "" {
		msg = fmt.Sprintf("Best %s pick: %s", in.Category, in.BestItemName)
	}
	if emailed {
		msg += ". Full report sent to your email."
	}
	return msg
}

package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/antipiracy/exposure-dashboard/internal/models"
)

var emailTemplate = template.Must(template.New("email").Funcs(template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"num": func(v float64) string { return fmt.Sprintf("%.0f", v) },
}).Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 20px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        table { border-collapse: collapse; margin: 10px 0 20px 0; }
        th, td { border: 1px solid #ddd; padding: 4px 8px; text-align: left; }
        th { background-color: #1a3c6e; color: white; }
    </style>
</head>
<body>
    <p>Hi Team,</p>
    {{if eq .Kind "export"}}
    <p>Please find attached the filtered exposure data as an Excel workbook.</p>
    {{else}}
    <p>Please find attached the exposure score report{{with .Report}} for {{.Period}}{{end}}.</p>
    {{end}}

    {{with .Report}}
    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Total Properties:</strong> {{.Summary.TotalProperties}}</p>
        <p><strong>Total Fixtures:</strong> {{.Summary.TotalFixtures}}</p>
        <p><strong>Total Infringements:</strong> {{.Summary.TotalInfringements}}</p>
        <p><strong>Total Websites:</strong> {{.Summary.TotalWebsites}}</p>
        <p><strong>Removal Percentage:</strong> {{pct .Summary.RemovalPercentage}}</p>
        <p><strong>Telegram Channels Suspended:</strong> {{.Telegram.ChannelsSuspended}} of {{.Telegram.TotalChannels}}</p>
        <p><strong>Telegram Views:</strong> {{num .Telegram.TotalViews}}</p>
    </div>

    {{range .Pages}}
    <h3>{{.Title}}</h3>
    <table>
        <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
        {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
        {{end}}
    </table>
    {{end}}
    {{end}}

    <p>Should you have any questions or require further insights, please do not hesitate to reach out.</p>
    <p>Best regards,<br>Anti-Piracy Team</p>
</body>
</html>
`))

func buildEmailHTML(delivery *models.Delivery) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, delivery); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildEmailText(delivery *models.Delivery) string {
	var text strings.Builder

	text.WriteString(delivery.Subject + "\n\n")

	if r := delivery.Report; r != nil {
		text.WriteString("SUMMARY\n")
		text.WriteString("=======\n")
		text.WriteString(fmt.Sprintf("Total Properties: %d\n", r.Summary.TotalProperties))
		text.WriteString(fmt.Sprintf("Total Fixtures: %d\n", r.Summary.TotalFixtures))
		text.WriteString(fmt.Sprintf("Total Infringements: %d\n", r.Summary.TotalInfringements))
		text.WriteString(fmt.Sprintf("Total Websites: %d\n", r.Summary.TotalWebsites))
		text.WriteString(fmt.Sprintf("Removal Percentage: %.2f%%\n", r.Summary.RemovalPercentage))

		for _, page := range r.Pages {
			text.WriteString("\n" + strings.ToUpper(page.Title) + "\n")
			text.WriteString(strings.Join(page.Columns, " | ") + "\n")
			for _, row := range page.Rows {
				text.WriteString(strings.Join(row, " | ") + "\n")
			}
		}
	}

	if a := delivery.Attachment; a != nil {
		text.WriteString(fmt.Sprintf("\nAttached: %s\n", a.Filename))
	}

	text.WriteString("\n---\nAnti-Piracy Team\n")

	return text.String()
}

package template

import (
	"bytes"
	"html/template"
	"strings"
)

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;background:#f4f4f5;font-family:Helvetica,Arial,sans-serif;color:#18181b;">
<span style="display:none;max-height:0;overflow:hidden;">{{.PreviewText}}</span>
<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="padding:24px 0;">
<tr><td align="center">
<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;padding:32px;">
<tr><td>
<p style="margin:0 0 16px;">{{.Greeting}}</p>
<p style="margin:0 0 24px;line-height:1.5;">{{.Intro}}</p>
{{- if .Summary}}
<table role="presentation" width="100%" cellpadding="6" cellspacing="0" style="border-collapse:collapse;margin:0 0 24px;font-size:14px;">
{{- range .Summary}}
<tr><td style="color:#71717a;border-bottom:1px solid #e4e4e7;">{{.Label}}</td><td style="text-align:right;border-bottom:1px solid #e4e4e7;">{{.Value}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- range .Sections}}
<h3 style="margin:0 0 8px;font-size:16px;">{{.Title}}</h3>
{{- range .Paragraphs}}
<p style="margin:0 0 12px;line-height:1.5;">{{.}}</p>
{{- end}}
{{- end}}
{{- if .CTAURL}}
<p style="margin:24px 0;"><a href="{{.CTAURL}}" style="background:#18181b;color:#ffffff;padding:12px 20px;border-radius:6px;text-decoration:none;">{{.CTALabel}}</a></p>
{{- end}}
<p style="margin:24px 0 0;">Un saluto,<br>{{.Signature}}</p>
</td></tr>
</table>
{{- if .Footer}}
<p style="font-size:12px;color:#71717a;">{{range $i, $line := .Footer}}{{if $i}} &middot; {{end}}{{$line}}{{end}}</p>
{{- end}}
</td></tr>
</table>
</body>
</html>
`))

func renderHTML(m emailModel) (string, error) {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, m); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderText(m emailModel) string {
	var b strings.Builder
	b.WriteString(m.Greeting + "\n\n")
	b.WriteString(m.Intro + "\n")

	if len(m.Summary) > 0 {
		b.WriteString("\n")
		for _, row := range m.Summary {
			b.WriteString(row.Label + ": " + row.Value + "\n")
		}
	}
	for _, s := range m.Sections {
		b.WriteString("\n" + s.Title + "\n")
		for _, p := range s.Paragraphs {
			b.WriteString(p + "\n")
		}
	}
	if m.CTAURL != "" {
		b.WriteString("\n" + m.CTALabel + ": " + m.CTAURL + "\n")
	}

	b.WriteString("\nUn saluto,\n" + m.Signature + "\n")
	if len(m.Footer) > 0 {
		b.WriteString("\n" + strings.Join(m.Footer, " - ") + "\n")
	}
	return b.String()
}

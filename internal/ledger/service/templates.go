package service

import (
	"bytes"
	"html/template"
)

var activationMail = template.Must(template.New("activation").Parse(
	`<p>Hi {{.FullName}},</p>
<p>Click on the following link to activate your My Money account: <a href="{{.Link}}">{{.Link}}</a></p>`))

var reminderMail = template.Must(template.New("reminder").Parse(
	`<p>Hi {{.FullName}},</p>
<p>This is a friendly reminder to add your income and expenses for today in My Money.</p>
<p><a href="{{.FrontendURL}}" style="display:inline-block;padding:10px 20px;background-color:#4CAF50;color:#fff;text-decoration:none;border-radius:5px;font-weight:bold;">Go to My Money</a></p>
<p>Best regards,<br>My Money Team</p>`))

var summaryFuncs = template.FuncMap{"inc": func(i int) int { return i + 1 }}

var summaryMail = template.Must(template.New("summary").Funcs(summaryFuncs).Parse(
	`<p>Hi {{.FullName}},</p>
<p>Here is a summary of your expenses for today:</p>
<table style="border-collapse:collapse;width:100%;">
<tr style="background-color:#f2f2f2;">
<th style="border:1px solid #ddd;padding:8px;">Number</th>
<th style="border:1px solid #ddd;padding:8px;">Name</th>
<th style="border:1px solid #ddd;padding:8px;">Amount</th>
<th style="border:1px solid #ddd;padding:8px;">Category</th>
</tr>
{{- range $i, $e := .Expenses}}
<tr>
<td style="border:1px solid #ddd;padding:8px;">{{inc $i}}</td>
<td style="border:1px solid #ddd;padding:8px;">{{$e.Name}}</td>
<td style="border:1px solid #ddd;padding:8px;">{{$e.Amount.StringFixed 2}}</td>
<td style="border:1px solid #ddd;padding:8px;">{{if $e.CategoryName}}{{$e.CategoryName}}{{else}}N/A{{end}}</td>
</tr>
{{- end}}
</table>
<p>Best regards,<br>My Money Team</p>`))

var exportMail = template.Must(template.New("export").Parse(
	`<p>Hi {{.FullName}},</p>
<p>Please find attached your {{.Kind}} report.</p>
<p>Best regards,<br>My Money Team</p>`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package booking

import "html/template"

const itemsPartial = `{{define "items"}}<table>
{{range .R.Items}}<tr><td>{{if .Service}}{{.Service.Name}}{{else}}#{{.ServiceID}}{{end}}</td><td>{{.Quantity}} &times;</td><td>{{.PriceAtTime.StringFixed 2}}</td></tr>
{{end}}<tr><td colspan="2">Total ({{.R.TotalDuration}} min)</td><td>{{.R.TotalPrice.StringFixed 2}}</td></tr>
</table>{{end}}`

func mustTemplate(name, body string) *template.Template {
	return template.Must(template.Must(template.New(name).Parse(itemsPartial)).Parse(body))
}

var customerConfirmationTmpl = mustTemplate("customer_confirmation", `<p>Hello {{.R.CustomerName}},</p>
<p>we have received your reservation for <strong>{{.R.Date}} at {{.R.StartTime}}</strong>{{if .R.Worker}} with {{.R.Worker.Name}}{{end}}. It is waiting for confirmation.</p>
{{template "items" .}}
{{if .Cancel}}<p>Can't make it? <a href="{{.Cancel}}">Cancel the reservation</a>.</p>{{end}}`)

var approvalRequestTmpl = mustTemplate("approval_request", `<p>New reservation request.</p>
<p><strong>{{.R.Date}} {{.R.StartTime}}-{{.R.EndTime}}</strong></p>
<p>{{.R.CustomerName}}<br>{{.R.CustomerEmail}}<br>{{.R.CustomerPhone}}</p>
{{if .R.Note}}<p>Note: {{.R.Note}}</p>{{end}}
{{template "items" .}}
{{if .Approve}}<p><a href="{{.Approve}}">Approve</a> | <a href="{{.Reject}}">Reject</a></p>{{end}}`)

var approvedTmpl = mustTemplate("approved", `<p>Hello {{.R.CustomerName}},</p>
<p>your reservation for <strong>{{.R.Date}} at {{.R.StartTime}}</strong> is confirmed.</p>
{{template "items" .}}
{{if .Cancel}}<p><a href="{{.Cancel}}">Cancel the reservation</a></p>{{end}}`)

var cancelledTmpl = mustTemplate("cancelled", `<p>Hello {{.R.CustomerName}},</p>
<p>your reservation for <strong>{{.R.Date}} at {{.R.StartTime}}</strong> has been cancelled.</p>
{{if .R.CancellationReason}}<p>Reason: {{.R.CancellationReason}}</p>{{end}}`)

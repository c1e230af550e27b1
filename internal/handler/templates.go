package handler

import "html/template"

const head = `<!doctype html><meta name=viewport content="width=device-width,initial-scale=1">`

var indexTmpl = template.Must(template.New("index").Parse(head + `
<title>Egg Cakes</title>
<h2>Egg Cakes</h2>
<form method="post" action="/order">
  <label>Flavour:</label>
  <select name="sku">
    <option value="classic">Classic</option>
    <option value="choco">Chocolate</option>
  </select><br><br>
  <label>Quantity:</label>
  <input type="number" name="qty" min="1" value="1" required><br><br>
  <button type="submit">Place order</button>
</form>
<p style="margin-top:1rem"><a href="/admin">(staff) admin page</a></p>
`))

var thanksTmpl = template.Must(template.New("thanks").Parse(head + `
<title>Order received</title>
<h2>Thank you!</h2>
{{if .}}
<p>Order <b>#{{.ID}}</b> | flavour: {{.SKU}} | quantity: {{.Quantity}} | status: {{.Status}}</p>
{{else}}
<p>We could not find that order.</p>
{{end}}
<p>Check back here later, or ask at the counter.</p>
<p><a href="/">Back to the menu</a></p>
`))

var adminTmpl = template.Must(template.New("admin").Parse(head + `
<meta http-equiv="refresh" content="3">
<title>Admin</title>
<h2>Current orders</h2>
<p>Worker: <b>{{if eq .State "busy"}}baking{{else}}idle{{end}}</b> | queued: {{.Pending}} | machine: {{.Strategy}}</p>
<ol>
{{range .Orders}}
  <li>
    #{{.ID}} | {{.SKU}} x {{.Quantity}} | {{.LastUpdate}} |
    status: <b>{{.Status}}</b>
    {{with .Progress}} | progress: {{.}}%{{end}}
  </li>
{{end}}
</ol>
<form method="post" action="/admin/actuator/pause" style="display:inline"><button>Pause machine</button></form>
<form method="post" action="/admin/actuator/stop" style="display:inline"><button>Stop machine</button></form>
<p><a href="/">Back to the menu</a></p>
`))

var loginTmpl = template.Must(template.New("login").Parse(head + `
<title>Staff sign-in</title>
<h2>Staff sign-in</h2>
{{if .}}<p style="color:#b00">{{.}}</p>{{end}}
<form method="post" action="/admin/login">
  <input type="password" name="password" required autofocus>
  <button type="submit">Sign in</button>
</form>
`))

package webui

import (
	"html/template"
)

// Templates contains all HTML templates for the dashboard
var Templates = template.Must(template.New("").Funcs(template.FuncMap{
	"levelClass": func(level string) string {
		switch level {
		case "error", "fatal", "panic":
			return "log-error"
		case "warn":
			return "log-warning"
		case "debug", "trace":
			return "log-debug"
		default:
			return "log-info"
		}
	},
}).Parse(`
{{define "base"}}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>nRF24 Smart Home</title>
    <style>
        :root {
            --bg-primary: #0d1117;
            --bg-secondary: #161b22;
            --bg-tertiary: #21262d;
            --border-color: #30363d;
            --text-primary: #e6edf3;
            --text-secondary: #8b949e;
            --text-muted: #6e7681;
            --accent-green: #3fb950;
            --accent-red: #f85149;
            --accent-yellow: #d29922;
            --accent-blue: #58a6ff;
        }
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.5;
        }
        .container { max-width: 1400px; margin: 0 auto; padding: 2rem; }
        header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 1.5rem;
            padding-bottom: 1rem;
            border-bottom: 1px solid var(--border-color);
        }
        .muted { color: var(--text-muted); font-size: 0.75rem; }
        .small-font { font-size: 0.75rem; color: var(--text-secondary); }
        #error-message { color: var(--accent-red); min-height: 1.5rem; margin-bottom: 1rem; }
        button, .btn {
            padding: 0.3rem 0.8rem;
            background: var(--bg-tertiary);
            color: var(--text-primary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            cursor: pointer;
        }
        input, select {
            padding: 0.3rem 0.5rem;
            background: var(--bg-secondary);
            color: var(--text-primary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
        }
        table { width: 100%; border-collapse: collapse; margin-bottom: 1.5rem; }
        th, td { border: 1px solid var(--border-color); padding: 0.5rem; vertical-align: top; text-align: left; }
        th { background: var(--bg-tertiary); }
        td ul { list-style: disc inside; }
        #logs {
            height: 320px;
            overflow-y: auto;
            font-family: monospace;
            font-size: 0.8rem;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            padding: 0.5rem;
        }
        .log-timestamp { color: var(--text-muted); }
        .log-severity { font-weight: 600; }
        .log-debug { color: var(--text-muted); }
        .log-info { color: var(--text-secondary); }
        .log-warning { color: var(--accent-yellow); }
        .log-error { color: var(--accent-red); }
        .log-critical { color: var(--bg-primary); background: var(--accent-red); }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <div>
                <h1>nRF24 Smart Home</h1>
                <div class="muted">{{if .Version}}{{.Version}}{{else}}dev{{end}}</div>
            </div>
            {{if .LoggedIn}}
            <div>
                <button onclick="restartHub()">Restart hub</button>
                <form method="post" action="/logout" style="display:inline"><button type="submit">Logout</button></form>
            </div>
            {{end}}
        </header>
        <div id="error-message">{{.Banner}}</div>
        {{if .LoggedIn}}{{template "dashboard" .}}{{else}}{{template "login" .}}{{end}}
    </div>
</body>
</html>
{{end}}

{{define "login"}}
        <form id="loginForm" method="post" action="/login">
            <label for="password">Password</label>
            <input type="password" id="password" name="password" autofocus>
            <button type="submit">Login</button>
        </form>
{{end}}

{{define "dashboard"}}
        <table id="devicesTable">
            <thead>
                <tr>
                    <th>Device</th>
                    <th>Status</th>
                    <th>Connection</th>
                    <th>Battery</th>
                    <th>UUID</th>
                    <th>Version</th>
                    <th>Last seen</th>
                </tr>
            </thead>
            <tbody id="deviceRows">{{template "devices" .Devices}}</tbody>
        </table>

        <div id="log-container">
            <label for="severityFilter">Show</label>
            <select id="severityFilter" name="severity">
                <option value="all"{{if eq .Filter "all"}} selected{{end}}>All</option>
                <option value="warnings"{{if eq .Filter "warnings"}} selected{{end}}>Warnings and above</option>
            </select>
            <div id="logs">{{template "logs" .Logs}}</div>
        </div>

        <script>
        "use strict";

        // Follow new output only when the reader is already at the end.
        function atBottom(el) {
            return el.scrollHeight - el.clientHeight <= el.scrollTop + 1;
        }

        async function swap(id, url) {
            const res = await fetch(url);
            if (res.status === 401) { location.reload(); return; }
            const el = document.getElementById(id);
            const follow = id === "logs" && atBottom(el);
            el.innerHTML = await res.text();
            if (follow) { el.scrollTop = el.scrollHeight; }
        }

        async function banner() {
            const res = await fetch("/view/banner");
            document.getElementById("error-message").textContent = await res.text();
        }

        async function post(url, form) {
            const res = await fetch(url, { method: "POST", body: new URLSearchParams(form) });
            if (!res.ok) { console.error("Error:", res.status, await res.text()); }
            await swap("deviceRows", "/view/devices");
        }

        function renameDevice(key) {
            const name = prompt("Enter new device name:");
            if (name === null) { return; }
            post("/devices/" + key + "/rename", { name: name });
        }

        function removeDevice(key) {
            if (!confirm("Do you want to remove Device " + key.split(",").join("-") + " ?")) { return; }
            post("/devices/" + key + "/remove", { confirm: "yes" });
        }

        async function restartHub() {
            if (!confirm("Restart the hub?")) { return; }
            const res = await fetch("/restart", { method: "POST" });
            if (!res.ok) { console.error("Error:", res.status); }
        }

        document.getElementById("severityFilter").addEventListener("change", async (ev) => {
            await fetch("/filter", { method: "POST", body: new URLSearchParams({ severity: ev.target.value }) });
            swap("logs", "/view/logs");
        });

        const logs = document.getElementById("logs");
        logs.scrollTop = logs.scrollHeight;
        setInterval(() => swap("deviceRows", "/view/devices"), {{.DeviceRefreshMS}});
        setInterval(() => { swap("logs", "/view/logs"); banner(); }, {{.LogRefreshMS}});
        </script>
{{end}}

{{define "devices"}}{{range .Rows}}
                <tr>
                    <td>
                        <span class="device-name">ID:{{.ID}}<br><a href="/device/{{.ActionKey}}">{{.Name}}</a><br><span class="small-font">({{.Type}})</span></span><br>
                        <button onclick="renameDevice('{{.ActionKey}}')">Rename</button>
                        <button onclick="removeDevice('{{.ActionKey}}')">Remove</button>
                    </td>
                    <td><ul>{{range .Status}}<li>{{.}}</li>{{end}}</ul></td>
                    <td>{{.Connection}}</td>
                    <td>{{.Battery}}</td>
                    <td>{{.UUIDColon}}<br>{{.UUIDHex}}{{if .UUIDCanonical}}<br><span class="small-font">{{.UUIDCanonical}}</span>{{end}}</td>
                    <td>{{.Version}}</td>
                    <td>{{.LastSeen}}</td>
                </tr>{{end}}
{{end}}

{{define "logs"}}{{range .Lines}}<div><span class="log-timestamp">{{.Prefix}}</span><span class="{{.Class}}">{{.Severity}} </span><span class="log-message">{{.Message}}</span></div>
{{end}}{{end}}

{{define "device"}}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Row.Name}} - nRF24 Smart Home</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; background: #0d1117; color: #e6edf3; padding: 2rem; }
        dt { color: #8b949e; margin-top: 0.5rem; }
        input, button { padding: 0.3rem 0.5rem; }
        .error { color: #f85149; }
        a { color: #58a6ff; }
    </style>
</head>
<body>
    <p><a href="/">&larr; Dashboard</a></p>
    <h1>{{.Row.Name}} <small>({{.Row.Type}})</small></h1>
    {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
    <dl>
        <dt>ID</dt><dd>{{.Row.ID}}</dd>
        <dt>UUID</dt><dd>{{.Row.UUIDColon}} {{.Row.UUIDHex}} {{.Row.UUIDCanonical}}</dd>
        <dt>Status</dt><dd><ul>{{range .Row.Status}}<li>{{.}}</li>{{end}}</ul></dd>
        <dt>Connection</dt><dd>{{.Row.Connection}}</dd>
        <dt>Battery</dt><dd>{{.Row.Battery}}</dd>
        <dt>Version</dt><dd>{{.Row.Version}}</dd>
        <dt>Last seen</dt><dd>{{.Row.LastSeen}}</dd>
    </dl>
    <h2>Set parameter</h2>
    <form method="post" action="/devices/{{.Row.ActionKey}}/param">
        <input name="param" placeholder="parameter">
        <input name="value" placeholder="value">
        <button type="submit">Set</button>
    </form>
</body>
</html>
{{end}}

{{define "console"}}{{range .}}<div class="{{levelClass .Level}}">{{.Timestamp.Format "15:04:05"}} {{.Level}} {{if .Component}}[{{.Component}}] {{end}}{{.Message}}{{if .Error}}: {{.Error}}{{end}}</div>
{{end}}{{end}}
`))

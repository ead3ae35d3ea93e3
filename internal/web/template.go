package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/noise-alert/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"duration": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"percent": func(level float64) string {
		return fmt.Sprintf("%.0f%%", level*100)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Noise Alert</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.loud { color: red; font-weight: bold; }
.quiet { color: green; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.lcd { background: #2a4; color: #000; padding: 2px 6px; white-space: pre; }
</style>
</head>
<body>
<h1>Noise Alert</h1>

<h2>State</h2>
<table>
{{$state := stateOrUnknown (printf "%s" .Alert.State)}}
<tr><th>Alert</th><td id="state" class="{{if eq $state "LOUD"}}loud{{else if eq $state "QUIET"}}quiet{{else}}unknown{{end}}">{{$state}}</td></tr>
<tr><th>LCD</th><td><span class="lcd">{{printf "%-16s" .Alert.Text}}</span></td></tr>
<tr><th>LED</th><td>{{if .Alert.LED}}on{{else}}off{{end}}</td></tr>
<tr><th>Motor</th><td>{{percent .Alert.Level}}</td></tr>
</table>

<h2>Watchdog</h2>
<table>
<tr><th>Timeout</th><td>{{.Config.WatchdogMs}}ms</td></tr>
<tr><th>Since kick</th><td>{{duration .SinceKick}}</td></tr>
<tr><th>Restarts</th><td>{{.Restarts}}</td></tr>
<tr><th>Device</th><td>{{if .Config.Watchdog}}{{.Config.Watchdog}}{{else}}soft only{{end}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>LOUD</th><td>{{.Counts.Loud}}</td></tr>
<tr><th>Mute</th><td>{{.Counts.Mute}}</td></tr>
<tr><th>Dropped presses</th><td>{{.QueueDrops}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{duration .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>GPIO</th><td>{{.Config.Chip}} sensor={{.Config.PinSensor}} button={{.Config.PinButton}} led={{.Config.PinLED}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() and SinceKick() methods but the template needs fields.
	data := struct {
		status.Snapshot
		Uptime    time.Duration
		SinceKick time.Duration
	}{
		Snapshot:  snap,
		Uptime:    snap.Uptime(),
		SinceKick: snap.SinceKick(),
	}
	return indexTmpl.Execute(w, data)
}

package devserver

import (
	"bytes"
	"html/template"
)

// The page carries the same layout the app expects: a flex-centered
// body holding the webgl-canvas element the wasm side looks up by id.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body style="margin: 0;">
<div style="display: flex; justify-content: center; align-items: center; height: 100vh; background: #f0f0f0;">
<canvas id="webgl-canvas" width="480" height="480" style="border: 2px solid #333; background: #222;"></canvas>
</div>
<script src="/wasm_exec.js"></script>
<script>
const go = new Go();
WebAssembly.instantiateStreaming(fetch("/main.wasm"), go.importObject).then((result) => {
	go.run(result.instance);
}).catch((err) => {
	console.error("wasm load failed:", err);
});
</script>
{{if .LiveReload}}<script>
(() => {
	const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/_/reload");
	ws.onmessage = (msg) => {
		if (msg.data === "reload") {
			location.reload();
		}
	};
	ws.onclose = () => console.log("live reload disconnected");
})();
</script>
{{end}}</body>
</html>
`))

type indexData struct {
	Title      string
	LiveReload bool
}

func renderIndex(title string, liveReload bool) ([]byte, error) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, indexData{Title: title, LiveReload: liveReload})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

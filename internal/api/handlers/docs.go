package handlers

import (
	"encoding/json"
	"net/http"
	"vehicle-routing-service/internal/api/docs"

	"gopkg.in/yaml.v3"
)

// SwaggerYAML serves the raw OpenAPI document.
func SwaggerYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(docs.OpenAPI)
}

// Swagger serves an interactive Swagger UI page with the OpenAPI document inlined.
func Swagger(w http.ResponseWriter, r *http.Request) {
	var obj map[string]any
	if err := yaml.Unmarshal(docs.OpenAPI, &obj); err != nil {
		writeError(w, r, http.StatusInternalServerError, "OpenAPI parse failed")
		return
	}
	js, err := json.Marshal(obj)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "OpenAPI encode failed")
		return
	}

	html := `<!DOCTYPE html><html lang="en"><head>
<title>Vehicle Routing Service API</title>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width,initial-scale=1">
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
<style>body{margin:0} .topbar{display:none}</style>
</head><body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
const ui = SwaggerUIBundle({
    spec: ` + string(js) + `,
    dom_id: '#swagger-ui',
    deepLinking: true,
});
</script>
</body></html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

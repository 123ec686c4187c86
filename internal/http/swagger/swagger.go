package swagger

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	uiPath   = "/swagger"
	specPath = "/swagger/openapi.yml"
)

const uiHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Secret Santa API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({ url: '` + specPath + `', dom_id: '#swagger-ui' });
    };
  </script>
</body>
</html>`

// RegisterRoutes подключает Swagger UI и отдачу openapi.yml.
// Без спецификации UI остаётся доступен, а openapi.yml отвечает 204.
func RegisterRoutes(mux chi.Router, spec []byte) {
	mux.Get(uiPath, serveUI)
	mux.Get(uiPath+"/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, uiPath, http.StatusMovedPermanently)
	})
	mux.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if len(spec) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec)
	})
}

func serveUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(uiHTML))
}

package reference

import (
	"net/http"

	"datafeed/docs"
	"datafeed/logging"
	"datafeed/server/util"
)

func ScalarReference(w http.ResponseWriter, r *http.Request) {
	htmlContent, err := ApiReferenceHTML(&Options{
		SpecContent: docs.SwaggerInfo.ReadDoc(),
		CustomOptions: CustomOptions{
			PageTitle: docs.SwaggerInfo.Title,
		},
		DarkMode: true,
	})
	if err != nil {
		log := logging.GetLogger("reference")
		log.Error().Err(err).Msg("Failed to render API reference")
		util.WriteError(w, http.StatusInternalServerError, "unable to render API reference")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(htmlContent))
}

// OpenAPISpec serves the registered OpenAPI document.
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(docs.SwaggerInfo.ReadDoc()))
}

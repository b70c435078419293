package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rankings", handler.GetRankings)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/collect", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCollectJob)))
	mux.Handle("POST /v1/internal/jobs/rank", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRankJob)))
}

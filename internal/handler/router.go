package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *AuthHandler,
	pdfHandler *PDFHandler,
	authMiddleware func(http.Handler) http.Handler,
	requestLogger func(http.Handler) http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()
	router.Use(requestLogger)

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"pdf-manager"}`))
	}).Methods("GET")

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Auth routes (public)
	api.HandleFunc("/auth/token", authHandler.Token).Methods("POST")
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	// PDF operation routes (protected)
	protected.HandleFunc("/pdf/view", pdfHandler.View).Methods("GET", "POST")
	protected.HandleFunc("/pdf/compress", pdfHandler.Compress).Methods("POST")
	protected.HandleFunc("/pdf/merge", pdfHandler.Merge).Methods("POST")
	protected.HandleFunc("/pdf/edit", pdfHandler.Edit).Methods("POST")
	protected.HandleFunc("/pdf/preview", pdfHandler.Preview).Methods("POST")
	protected.HandleFunc("/pdf/export", pdfHandler.Export).Methods("POST")
	protected.HandleFunc("/pdf/convert", pdfHandler.Convert).Methods("POST")
	protected.HandleFunc("/pdf/extract-text", pdfHandler.ExtractText).Methods("POST")
	protected.HandleFunc("/pdf/check-plagiarism", pdfHandler.CheckPlagiarism).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			resultKindHeader,
			pageCountHeader,
			"X-Process-Time",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}

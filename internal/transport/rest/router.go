package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"neuroassess/internal/platform/logger"
	"neuroassess/internal/service"
	"neuroassess/internal/transport/rest/handler"
	"neuroassess/internal/transport/rest/middleware"
	"neuroassess/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	AssessmentService *service.AssessmentService
	WSHub             *ws.Hub
	AllowedOrigins    string
	Logger            *logger.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := mux.NewRouter()

	// Initialize handlers
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService, log)
	reportHandler := handler.NewReportHandler(c.AssessmentService, log)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, log)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))
	r.Use(middleware.RequestLogger(log))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/assessments", assessmentHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/stats/archetypes", reportHandler.Archetypes).Methods("GET", "OPTIONS")
	v1.HandleFunc("/stats/questions/{questionId}", reportHandler.QuestionStats).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/assessments/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Participant routes (token scoped to {id})
	sessionRoutes := v1.PathPrefix("/assessments/{id}").Subrouter()
	sessionRoutes.Use(authMW.RequireParticipant)

	sessionRoutes.HandleFunc("/start", assessmentHandler.StartReset).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/resume", assessmentHandler.Resume).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/question/current", assessmentHandler.Current).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/responses", assessmentHandler.Record).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/next", assessmentHandler.Next).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/prev", assessmentHandler.Prev).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/skip", assessmentHandler.Skip).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/timeout", assessmentHandler.Timeout).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/goto/{index}", assessmentHandler.GoTo).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/progress", assessmentHandler.Progress).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/complete", assessmentHandler.Complete).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/reset", assessmentHandler.Reset).Methods("POST", "OPTIONS")

	// Reports are readable with the token of the session they belong to
	v1.Handle("/reports/{id}", authMW.RequireParticipant(http.HandlerFunc(reportHandler.GetReport))).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

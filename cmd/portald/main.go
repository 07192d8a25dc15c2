package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/klexam/portal/internal/api/http"
	"github.com/klexam/portal/internal/auth"
	"github.com/klexam/portal/internal/bank"
	"github.com/klexam/portal/internal/config"
	"github.com/klexam/portal/internal/db"
	"github.com/klexam/portal/internal/history"
	"github.com/klexam/portal/internal/quiz"
	"github.com/klexam/portal/internal/rbac"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- History persistence ---
	var store history.Store
	switch cfg.HistoryDriver {
	case "sql":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		store = history.NewSQLStore(dbh)
	case "memory":
		store = history.NewMemoryStore()
	default:
		fs, err := history.NewFSStore(cfg.HistoryBasePath)
		if err != nil {
			log.Fatalf("history store: %v", err)
		}
		store = fs
	}
	hist := history.NewService(store, cfg.HistoryCap)

	provider := bank.NewProvider(cfg.BankDir)
	sessions := quiz.NewSessions()
	authSvc := auth.NewService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", api.LoginHandler(authSvc))

	// Protected API (JWT → subject+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.RequireAny("set:generate", "quiz:take")).
			Get("/exams", api.ListExamsHandler())
		pr.With(rbac.Require("set:generate")).
			Post("/sets", api.GenerateSetHandler(provider, hist))
		pr.With(rbac.Require("set:history")).
			Get("/sets", api.ListSetsHandler(hist))
		pr.With(rbac.Require("set:history")).
			Get("/sets/{id}", api.GetSetHandler(hist))
		pr.With(rbac.Require("set:history")).
			Delete("/sets/{id}", api.DeleteSetHandler(hist))

		pr.With(rbac.Require("quiz:take")).
			Post("/quizzes", api.StartQuizHandler(provider, sessions, hist))
		pr.With(rbac.Require("quiz:take")).
			Get("/quizzes/{quizID}", api.QuizStateHandler(sessions))
		pr.With(rbac.Require("quiz:take")).
			Post("/quizzes/{quizID}/answer", api.AnswerHandler(sessions))
		pr.With(rbac.Require("quiz:take")).
			Post("/quizzes/{quizID}/navigate", api.NavigateHandler(sessions))
		pr.With(rbac.Require("quiz:take")).
			Post("/quizzes/{quizID}/finish", api.FinishHandler(sessions, hist))
		pr.With(rbac.Require("quiz:take")).
			Delete("/quizzes/{quizID}", api.CloseQuizHandler(sessions))

		pr.With(rbac.Require("quiz:history")).
			Get("/results", api.ListResultsHandler(hist))
		pr.With(rbac.Require("quiz:history")).
			Get("/results/stats", api.ResultStatsHandler(hist))
		pr.With(rbac.Require("quiz:history")).
			Get("/results/{id}", api.GetResultHandler(hist))
		pr.With(rbac.Require("quiz:history")).
			Delete("/results/{id}", api.DeleteResultHandler(hist))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("portald listening on %s (history=%s)", cfg.HTTPAddr, cfg.HistoryDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

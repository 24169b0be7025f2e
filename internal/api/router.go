package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knograph/veracity/internal/api/handlers"
	mw "github.com/knograph/veracity/internal/api/middleware"
	"github.com/knograph/veracity/internal/config"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/service"
	"github.com/knograph/veracity/internal/store"
	"go.uber.org/zap"
)

var (
	_ domain.ClaimStore       = (*store.ClaimStore)(nil)
	_ domain.EvidenceStore    = (*store.EvidenceStore)(nil)
	_ domain.SourceStore      = (*store.SourceStore)(nil)
	_ domain.DisputeStore     = (*store.DisputeStore)(nil)
	_ domain.ScoreStore       = (*store.ScoreStore)(nil)
	_ domain.ReputationStore  = (*store.ReputationStore)(nil)
	_ domain.VoteStore        = (*store.VoteStore)(nil)
	_ domain.MethodologyStore = (*store.MethodologyStore)(nil)
	_ domain.PromotionStore   = (*store.PromotionStore)(nil)
)

// App holds the router and request counters for lifecycle management.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, events service.EventPublisher, logger *zap.Logger) (*App, error) {
	// Stores
	claimStore := store.NewClaimStore(db)
	evidenceStore := store.NewEvidenceStore(db)
	sourceStore := store.NewSourceStore(db)
	disputeStore := store.NewDisputeStore(db)
	scoreStore := store.NewScoreStore(db)
	reputationStore := store.NewReputationStore(db)
	voteStore := store.NewVoteStore(db)
	methodologyStore := store.NewMethodologyStore(db)
	promotionStore := store.NewPromotionStore(db)

	// Services
	credibilitySvc := service.NewCredibilityService(evidenceStore, sourceStore, logger)
	scorerSvc := service.NewScorerService(claimStore, evidenceStore, disputeStore, sourceStore, scoreStore, events, logger)

	wMethodology, wConsensus, wEvidence, wDisputes := config.EligibilityWeights()
	eligibilitySvc, err := service.NewEligibilityService(voteStore, evidenceStore, sourceStore,
		disputeStore, methodologyStore, promotionStore, domain.EligibilityWeights{
			Methodology:       wMethodology,
			Consensus:         wConsensus,
			EvidenceQuality:   wEvidence,
			DisputeResolution: wDisputes,
		}, logger)
	if err != nil {
		return nil, err
	}
	eligibilitySvc.Threshold = config.PromotionThreshold()
	eligibilitySvc.MinVotes = config.MinConsensusVotes()

	promotionSvc := service.NewPromotionService(claimStore, promotionStore, eligibilitySvc, events, logger)
	claimSvc := service.NewClaimService(claimStore, scoreStore, scorerSvc, logger)
	evidenceSvc := service.NewEvidenceService(evidenceStore, claimStore, sourceStore, credibilitySvc, scorerSvc, promotionSvc, logger)
	disputeSvc := service.NewDisputeService(disputeStore, claimStore, scorerSvc, promotionSvc, logger)
	reputationSvc := service.NewReputationService(reputationStore, logger)
	voteSvc := service.NewVoteService(voteStore, claimStore, reputationSvc, promotionSvc, logger)
	methodologySvc := service.NewMethodologyService(methodologyStore, claimStore, promotionSvc, logger)

	// Handlers
	claimHandler := handlers.NewClaimHandler(claimSvc)
	evidenceHandler := handlers.NewEvidenceHandler(evidenceSvc)
	sourceHandler := handlers.NewSourceHandler(sourceStore, credibilitySvc)
	disputeHandler := handlers.NewDisputeHandler(disputeSvc)
	voteHandler := handlers.NewVoteHandler(voteSvc)
	methodologyHandler := handlers.NewMethodologyHandler(methodologySvc)
	reputationHandler := handlers.NewReputationHandler(reputationSvc)
	promotionHandler := handlers.NewPromotionHandler(promotionSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		// Claims
		r.Route("/claims", func(r chi.Router) {
			r.Post("/", claimHandler.Create)
			r.Route("/{claimID}", func(r chi.Router) {
				r.Get("/", claimHandler.Get)
				r.Get("/score", claimHandler.Score)
				r.Post("/score/refresh", claimHandler.RefreshScore)
				r.Get("/score/history", claimHandler.ScoreHistory)
				r.Get("/evidence", evidenceHandler.ListByClaim)
				r.Get("/disputes", disputeHandler.ListByClaim)
				r.Put("/votes", voteHandler.Cast)
				r.Get("/votes", voteHandler.ListByClaim)
				r.Post("/methodology/steps", methodologyHandler.DefineStep)
				r.Post("/methodology/steps/complete", methodologyHandler.CompleteStep)
				r.Get("/methodology", methodologyHandler.Progress)
				r.Get("/eligibility", promotionHandler.Eligibility)
				r.Post("/eligibility/evaluate", promotionHandler.Reevaluate)
				r.Get("/promotions", promotionHandler.History)
			})
		})

		// Evidence
		r.Route("/evidence", func(r chi.Router) {
			r.Post("/", evidenceHandler.Submit)
			r.Route("/{evidenceID}", func(r chi.Router) {
				r.Get("/", evidenceHandler.Get)
				r.Put("/", evidenceHandler.Update)
				r.Delete("/", evidenceHandler.Remove)
			})
		})

		// Disputes
		r.Route("/disputes", func(r chi.Router) {
			r.Post("/", disputeHandler.Open)
			r.Route("/{disputeID}", func(r chi.Router) {
				r.Post("/resolve", disputeHandler.Resolve)
				r.Post("/withdraw", disputeHandler.Withdraw)
			})
		})

		// Sources
		r.Route("/sources", func(r chi.Router) {
			r.Post("/", sourceHandler.Create)
			r.Route("/{sourceID}", func(r chi.Router) {
				r.Get("/", sourceHandler.Get)
				r.Get("/credibility", sourceHandler.Credibility)
				r.Post("/credibility/recompute", sourceHandler.RecomputeCredibility)
			})
		})

		// Reputation
		r.Route("/reputation/{userID}", func(r chi.Router) {
			r.Get("/", reputationHandler.Get)
			r.Put("/", reputationHandler.Update)
		})
	})

	return app, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
		}

		writeJSONResponse(w, http.StatusOK, response)
	}
}

func writeJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

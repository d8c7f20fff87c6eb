// Package webapi provides the REST API for the moderation heuristics service.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/pttech/modcheck/lib/analysis"
)

// Server is a web API server.
type Server struct {
	Config
}

// Config defines server parameters.
type Config struct {
	Version    string     // version to show in app-info header
	ListenAddr string     // listen address
	Analyzer   Analyzer   // moderation analyzer
	SuspectLog SuspectLog // report sink for suspicious results, optional
	Dbg        bool       // debug mode
}

// Analyzer runs the moderation pipelines, implemented by modcheck.Analyzer.
type Analyzer interface {
	AnalyzeReview(rawText string) analysis.ReviewResult
	AnalyzeQuestion(rawText string) analysis.QuestionResult
}

// SuspectLog gets every analysis classified as suspicious.
type SuspectLog interface {
	Save(kind analysis.Kind, text string, res analysis.Result)
}

// SuspectLogFunc is an adapter to allow the use of ordinary functions as SuspectLog.
type SuspectLogFunc func(kind analysis.Kind, text string, res analysis.Result)

// Save calls f(kind, text, res)
func (f SuspectLogFunc) Save(kind analysis.Kind, text string, res analysis.Result) {
	f(kind, text, res)
}

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	return &Server{Config: config}
}

// Run starts the server and accepts analysis requests until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.ListenAddr, Handler: s.router(), ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

// router sets up middlewares and the two analysis routes.
func (s *Server) router() http.Handler {
	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()))
	router.Use(rest.AppInfo("modcheck", "pttech", s.Version), rest.Ping)
	router.Use(tollbooth.HTTPMiddleware(tollbooth.NewLimiter(50, nil)))
	router.Use(rest.SizeLimit(64 * 1024)) // 64K max request size

	router.HandleFunc("POST /check-review", s.checkReviewHandler)
	router.HandleFunc("POST /check-question", s.checkQuestionHandler)
	return router
}

// checkReviewHandler handles POST /check-review requests. It reads the
// review text from the body and returns the review analysis result.
func (s *Server) checkReviewHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Review *string `json:"review"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[WARN] can't decode request: %v", err)
		sendError(w, "missing or invalid 'review' field")
		return
	}
	if req.Review == nil || *req.Review == "" {
		sendError(w, "missing or invalid 'review' field")
		return
	}

	res := s.Analyzer.AnalyzeReview(*req.Review)
	if res.Suspicious && s.SuspectLog != nil {
		s.SuspectLog.Save(analysis.KindReview, *req.Review, res.Result)
	}
	rest.RenderJSON(w, rest.JSON{"status": "success", "data": res})
}

// checkQuestionHandler handles POST /check-question requests. It reads the
// question text from the body and returns the question analysis result.
func (s *Server) checkQuestionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question *string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[WARN] can't decode request: %v", err)
		sendError(w, "missing or invalid 'question' field")
		return
	}
	if req.Question == nil || *req.Question == "" {
		sendError(w, "missing or invalid 'question' field")
		return
	}

	res := s.Analyzer.AnalyzeQuestion(*req.Question)
	if res.Suspicious && s.SuspectLog != nil {
		s.SuspectLog.Save(analysis.KindQuestion, *req.Question, res.Result)
	}
	rest.RenderJSON(w, rest.JSON{"status": "success", "data": res})
}

func sendError(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusBadRequest)
	rest.RenderJSON(w, rest.JSON{"status": "error", "message": msg})
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/venue-engine/internal/history"
	"github.com/pdiddy/venue-engine/internal/refine"
	"github.com/pdiddy/venue-engine/internal/report"
	"github.com/pdiddy/venue-engine/internal/search"
	"github.com/pdiddy/venue-engine/internal/venue"
	"github.com/pdiddy/venue-engine/pkg/types"
)

// rankParams are the per-request overrides shared by both ranking routes.
type rankParams struct {
	// Email overrides the configured contact address.
	Email string `json:"email"`

	// TopN overrides ranking.top_n.
	TopN int `json:"top_n"`

	// Components overrides ranking.components when set.
	Components *bool `json:"components"`
}

type journalsRequest struct {
	Query string `json:"query"`
	rankParams
}

type recommendRequest struct {
	refine.ResearchInput
	rankParams
}

// rankResponse is the body of a successful ranking call. Journals is always
// an array, empty when nothing matched, in which case Message says so.
type rankResponse struct {
	Query    string                `json:"query"`
	Input    *refine.Refined       `json:"input,omitempty"`
	Journals []types.RankedJournal `json:"journals"`
	Missing  []string              `json:"missing,omitempty"`
	Message  string                `json:"message,omitempty"`
	RunID    string                `json:"run_id,omitempty"`
}

func (s *Server) handleJournals(c *gin.Context) {
	var req journalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	s.rank(c, req.Query, nil, req.rankParams)
}

func (s *Server) handleRecommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	refined, err := s.refiner.Refine(c.Request.Context(), req.ResearchInput)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.rank(c, refine.QueryText(refined), &refined, req.rankParams)
}

// rank runs one ranking and writes the response.
func (s *Server) rank(c *gin.Context, text string, input *refine.Refined, p rankParams) {
	email := p.Email
	if email == "" {
		email = s.cfg.OpenAlex.Email
	}
	q, err := types.NewSearchQuery(text, email)
	if err != nil {
		s.fail(c, err)
		return
	}

	opts := venue.RankOptions{Limit: s.cfg.Ranking.TopN, WithComponents: s.cfg.Ranking.Components}
	if p.TopN > 0 {
		opts.Limit = p.TopN
	}
	if p.Components != nil {
		opts.WithComponents = *p.Components
	}

	cfg := s.cfg.OpenAlex
	cfg.Email = q.ContactEmail
	client := search.NewClient(cfg, s.logger, s.metrics)
	res, err := venue.NewFinder(client, opts, s.logger, s.metrics).Run(c.Request.Context(), q)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := rankResponse{
		Query:    q.Text,
		Input:    input,
		Journals: res.Journals,
		Missing:  res.Missing,
	}
	if resp.Journals == nil {
		resp.Journals = []types.RankedJournal{}
	}
	if res.Empty() {
		resp.Message = report.NoResultsMessage
	}
	resp.RunID = s.save(c.Request.Context(), input, res)
	c.JSON(http.StatusOK, resp)
}

// save records the run when history is enabled and returns its ID. A
// failed save is logged and does not fail the request.
func (s *Server) save(ctx context.Context, input *refine.Refined, res venue.Result) string {
	if s.history == nil {
		return ""
	}
	run, err := s.history.Save(ctx, report.NewResultFile(input, res, time.Now()))
	if err != nil {
		s.logger.Warn("saving run to history failed", zap.Error(err))
		return ""
	}
	return run.ID
}

// fail maps an error to a status code and body.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case search.IsUnavailable(err):
		s.logger.Warn("upstream unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": report.UnavailableMessage})
	case errors.Is(err, types.ErrEmptyQuery),
		errors.Is(err, types.ErrMissingContact),
		errors.Is(err, refine.ErrEmptyInput),
		errors.Is(err, refine.ErrAcceptanceRange),
		errors.Is(err, refine.ErrOpenAccessValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) handleHistoryList(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}
	opts := history.ListOptions{
		Query:   c.Query("query"),
		Journal: c.Query("journal"),
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		opts.Limit = n
	}
	runs, err := s.history.List(c.Request.Context(), opts)
	if err != nil {
		s.logger.Error("listing history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if runs == nil {
		runs = []history.RunSummary{}
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) handleHistoryGet(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}
	run, err := s.history.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, history.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
	case errors.Is(err, history.ErrAmbiguousID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		s.logger.Error("loading run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
	default:
		c.JSON(http.StatusOK, run)
	}
}

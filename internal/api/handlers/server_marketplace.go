package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/api/middleware"
	"autoparts.dev/storefront/internal/audit"
	"autoparts.dev/storefront/internal/marketplace"
	"autoparts.dev/storefront/internal/pending"
	apperrors "autoparts.dev/storefront/internal/pkg/errors"
)

// SubmissionView is the pollable status of a form submission.
type SubmissionView struct {
	pending.Submission
	Error *apperrors.AppError `json:"error,omitempty"`
}

func submissionView(sub pending.Submission) SubmissionView {
	v := SubmissionView{Submission: sub}
	if sub.Err != nil {
		v.Error = toAppError(sub.Err)
	}
	return v
}

func submissionKey(contextID, form string) string {
	return contextID + "/" + form
}

// submit validates rec at once, so field errors reach the form without
// waiting, then runs create in the background. A second submit of the same
// form from the same context is refused until the first completes.
func (s *Server) submit(c *gin.Context, form string, rec marketplace.Record, create pending.Func) {
	if fields := rec.Validate(); len(fields) > 0 {
		_ = c.Error(apperrors.Validation(fields))
		return
	}
	key := submissionKey(engine(c).ContextID(), form)
	actor := middleware.CurrentSession(c).UserID
	sub, err := s.tracker.Submit(key, func(ctx context.Context) (any, error) {
		res, err := create(ctx)
		if created, ok := res.(marketplace.Record); ok && err == nil {
			s.record(ctx, audit.ActionRecordCreate, string(created.Kind()), created.RecordID(), actor, nil)
		}
		return res, err
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, submissionView(sub))
}

// GetSubmission handles GET /submissions/:id. Submissions of other browser
// contexts are reported as not found.
func (s *Server) GetSubmission(c *gin.Context) {
	sub, err := s.tracker.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !strings.HasPrefix(sub.Key, submissionKey(engine(c).ContextID(), "")) {
		fail(c, pending.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, submissionView(sub))
}

// ListProjects handles GET /projects.
func (s *Server) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, s.market.Projects(c.Request.Context()))
}

// CreateProject handles POST /projects.
func (s *Server) CreateProject(c *gin.Context) {
	var req marketplace.Project
	if !bindJSON(c, &req) {
		return
	}
	owner := middleware.CurrentSession(c).UserID
	s.submit(c, "project", req, func(ctx context.Context) (any, error) {
		return s.market.CreateProject(ctx, owner, req)
	})
}

// ListServices handles GET /services.
func (s *Server) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, s.market.Services(c.Request.Context()))
}

// CreateService handles POST /services.
func (s *Server) CreateService(c *gin.Context) {
	var req marketplace.Service
	if !bindJSON(c, &req) {
		return
	}
	owner := middleware.CurrentSession(c).UserID
	s.submit(c, "service", req, func(ctx context.Context) (any, error) {
		return s.market.CreateService(ctx, owner, req)
	})
}

// ListProposals handles GET /proposals?project_id=.
func (s *Server) ListProposals(c *gin.Context) {
	c.JSON(http.StatusOK, s.market.Proposals(c.Request.Context(), c.Query("project_id")))
}

// CreateProposal handles POST /proposals.
func (s *Server) CreateProposal(c *gin.Context) {
	var req marketplace.Proposal
	if !bindJSON(c, &req) {
		return
	}
	vendor := middleware.CurrentSession(c).UserID
	s.submit(c, "proposal", req, func(ctx context.Context) (any, error) {
		return s.market.CreateProposal(ctx, vendor, req)
	})
}

// ListTechnicianRequests handles GET /technician-requests?service_id=.
func (s *Server) ListTechnicianRequests(c *gin.Context) {
	c.JSON(http.StatusOK, s.market.TechnicianRequests(c.Request.Context(), c.Query("service_id")))
}

// CreateTechnicianRequest handles POST /technician-requests.
func (s *Server) CreateTechnicianRequest(c *gin.Context) {
	var req marketplace.TechnicianRequest
	if !bindJSON(c, &req) {
		return
	}
	technician := middleware.CurrentSession(c).UserID
	s.submit(c, "technician_request", req, func(ctx context.Context) (any, error) {
		return s.market.CreateTechnicianRequest(ctx, technician, req)
	})
}

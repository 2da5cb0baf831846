package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobboard-web/internal/dtos"
	"github.com/justsurfingit/jobboard-web/internal/models"
	"github.com/justsurfingit/jobboard-web/internal/services"
)

// API is everything the page handlers need from the job-board API.
// *apiclient.Client satisfies it.
type API interface {
	AuthAPI
	services.FeedAPI
	services.ModerationAPI
	services.DirectoryAPI
	services.JobAPI
}

// FeedPageLimit is how many jobs the /jobs page asks for.
const FeedPageLimit = 100

// JobHandler serves the job pages. The feed and moderation lists live in
// the browser's workspace so optimistic updates survive between requests;
// one-shot calls build their service per request.
type JobHandler struct {
	API        API
	Workspaces *Workspaces
}

func NewJobHandler(api API, workspaces *Workspaces) *JobHandler {
	return &JobHandler{API: api, Workspaces: workspaces}
}

func (h *JobHandler) workspace(c *gin.Context) *workspace {
	return h.Workspaces.get(SessionID(c), StoreFrom(c).Token())
}

func (h *JobHandler) feed(c *gin.Context) *services.FeedService {
	return h.workspace(c).feed
}

func (h *JobHandler) moderation(c *gin.Context) *services.ModerationService {
	return h.workspace(c).moderation
}

// Home is GET /.
func (h *JobHandler) Home(c *gin.Context) {
	home, err := h.feed(c).Home(c.Request.Context())
	resp := gin.H{"jobs": home.Jobs, "companies": home.Companies}
	if err != nil {
		resp["error"] = "Some sections failed to load"
	}
	c.JSON(http.StatusOK, resp)
}

// Jobs is GET /jobs?company=.
func (h *JobHandler) Jobs(c *gin.Context) {
	company := c.Query("company")
	feed := h.feed(c)
	jobs, err := feed.FetchJobs(c.Request.Context(), company, FeedPageLimit)
	if err != nil {
		respondError(c, err, "Failed to load jobs", gin.H{"company": company, "jobs": feed.Jobs()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company, "jobs": jobs})
}

// Feedback is POST /jobs/:id/feedback with {"status": "up"|"down"}. It
// answers with the feed as it stands afterwards: without the job on a
// down-vote, and unchanged when the call failed.
func (h *JobHandler) Feedback(c *gin.Context) {
	var req dtos.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback"})
		return
	}
	feed := h.feed(c)
	if err := feed.SubmitFeedback(c.Request.Context(), c.Param("id"), *req.Status); err != nil {
		respondError(c, err, "Failed to save feedback", gin.H{"jobs": feed.Jobs()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": feed.Jobs()})
}

// Directory is GET /directory?city=&q=.
func (h *JobHandler) Directory(c *gin.Context) {
	city := c.DefaultQuery("city", services.AllCities)
	query := c.Query("q")

	all, err := h.feed(c).FetchCompanies(c.Request.Context())
	resp := gin.H{
		"city":      city,
		"q":         query,
		"cities":    append([]string{services.AllCities}, services.Cities(all)...),
		"companies": services.Search(services.FilterByCity(all, city), query),
	}
	if err != nil {
		resp["error"] = "Failed to load companies"
	}
	c.JSON(http.StatusOK, resp)
}

// PendingJobs is GET /review.
func (h *JobHandler) PendingJobs(c *gin.Context) {
	jobs, err := h.moderation(c).FetchPending(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load review queue")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// Decide is POST /review/:id/decision with {"decision": "accept"|"reject"}.
// It answers with the pending list after the decision, or after the
// rollback when the call failed.
func (h *JobHandler) Decide(c *gin.Context) {
	var req dtos.DecisionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidDecision.Error()})
		return
	}
	mod := h.moderation(c)
	if err := mod.Decide(c.Request.Context(), c.Param("id"), req.Decision); err != nil {
		respondError(c, err, "Failed to save decision", gin.H{"jobs": mod.Pending()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": mod.Pending()})
}

// Reanalyze is POST /review/:id/analyze.
func (h *JobHandler) Reanalyze(c *gin.Context) {
	if err := h.moderation(c).Reanalyze(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to re-check job")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// RejectedJobs is GET /rejected.
func (h *JobHandler) RejectedJobs(c *gin.Context) {
	jobs, err := h.moderation(c).FetchRejected(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load rejected jobs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// Restore is POST /rejected/:id/restore. It answers with the rejected list.
func (h *JobHandler) Restore(c *gin.Context) {
	mod := h.moderation(c)
	if err := mod.Restore(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to restore job", gin.H{"jobs": mod.Rejected()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": mod.Rejected()})
}

// CreateJob is POST /add.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job form: " + err.Error()})
		return
	}
	if err := services.NewJobService(h.API, StoreFrom(c)).CreateJob(c.Request.Context(), req); err != nil {
		respondError(c, err, "Failed to create job")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "created"})
}

// Companies is GET /admin/companies.
func (h *JobHandler) Companies(c *gin.Context) {
	companies, err := services.NewDirectoryService(h.API, StoreFrom(c)).Fetch(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load companies")
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// CreateCompany is POST /admin/companies.
func (h *JobHandler) CreateCompany(c *gin.Context) {
	var req dtos.CompanyCreationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidCompany.Error()})
		return
	}
	svc := services.NewDirectoryService(h.API, StoreFrom(c))
	if err := svc.Create(c.Request.Context(), req); err != nil {
		respondError(c, err, "Failed to add company")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"companies": svc.Companies()})
}

// DeleteCompany is DELETE /admin/companies?name=&id=&source=.
func (h *JobHandler) DeleteCompany(c *gin.Context) {
	company := models.Company{
		ID:     c.Query("id"),
		Name:   c.Query("name"),
		Source: models.Source(c.Query("source")),
	}
	err := services.NewDirectoryService(h.API, StoreFrom(c)).Delete(c.Request.Context(), company)
	if errors.Is(err, services.ErrInvalidCompany) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to delete company")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

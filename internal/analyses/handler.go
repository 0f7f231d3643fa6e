package analyses

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cvai-core/internal/llm"
	"cvai-core/internal/models"
	"cvai-core/internal/scoring"
	"cvai-core/internal/shared/server/respond"
	"cvai-core/internal/store"
	"cvai-core/internal/uploads"
)

// WorkflowKeyHeader lets a client address the same workflow instance across
// requests.
const WorkflowKeyHeader = "X-Workflow-Key"

// Handler wires HTTP handlers to the workflow engine.
type Handler struct {
	Engine *Engine

	reviews *Registry[*Review]
	matches *Registry[*JobMatch]
	letters *Registry[*CoverLetter]
}

// NewHandler constructs a Handler. keyTTL bounds how long keyed instances are
// remembered.
func NewHandler(engine *Engine, keyTTL time.Duration) *Handler {
	return &Handler{
		Engine:  engine,
		reviews: NewRegistry(keyTTL, engine.NewReview),
		matches: NewRegistry(keyTTL, engine.NewJobMatch),
		letters: NewRegistry(keyTTL, engine.NewCoverLetter),
	}
}

// RegisterRoutes attaches workflow and record routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reviews", h.createReview)
	rg.GET("/reviews", h.listReviews)
	rg.GET("/reviews/:id", h.getReview)
	rg.DELETE("/reviews/:id", h.deleteReview)

	rg.POST("/job-matches", h.createJobMatch)
	rg.GET("/job-matches", h.listJobMatches)
	rg.GET("/job-matches/:id", h.getJobMatch)
	rg.DELETE("/job-matches/:id", h.deleteJobMatch)

	rg.POST("/cover-letters/draft", h.draftCoverLetter)
	rg.POST("/cover-letters", h.saveCoverLetter)
	rg.PUT("/cover-letters/:id", h.updateCoverLetter)
	rg.GET("/cover-letters", h.listCoverLetters)
	rg.GET("/cover-letters/:id", h.getCoverLetter)
	rg.DELETE("/cover-letters/:id", h.deleteCoverLetter)
}

func (h *Handler) createReview(c *gin.Context) {
	c.Set("workflow", KindReview)
	req, ok := h.bindReview(c)
	if !ok {
		return
	}

	key := c.GetHeader(WorkflowKeyHeader)
	w := h.reviews.Acquire(key)
	if prev, done := w.Result(); done && key != "" {
		c.Header("X-Workflow-Replayed", "true")
		respond.OK(c, prev)
		return
	}

	review, err := w.Run(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "failed to review CV")
		return
	}
	c.Set("cvId", review.CVID)
	respond.Created(c, review)
}

// bindReview reads either a multipart upload under "file" or a JSON body
// naming a stored CV.
func (h *Handler) bindReview(c *gin.Context) (ReviewRequest, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req := ReviewRequest{CVID: c.PostForm("cvId")}
		fh, err := c.FormFile("file")
		if err != nil && req.CVID == "" {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file or cvId is required", nil)
			return ReviewRequest{}, false
		}
		if err == nil {
			doc, err := uploads.FromMultipart(fh)
			if err != nil {
				respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "failed to read upload", nil)
				return ReviewRequest{}, false
			}
			if err := doc.CheckAdvisory(); err != nil {
				writeUploadError(c, err)
				return ReviewRequest{}, false
			}
			req.Upload = doc
		}
		return req, true
	}

	var body reviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return ReviewRequest{}, false
	}
	return ReviewRequest{CVID: body.CVID}, true
}

func writeUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, uploads.ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, ErrorCodeUnsupported, err.Error(), []map[string]string{
			{"field": "file", "issue": "unsupported_type"},
		})
	case errors.Is(err, uploads.ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeValidation, err.Error(), []map[string]string{
			{"field": "file", "issue": "too_large"},
		})
	default:
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), []map[string]string{
			{"field": "file", "issue": "empty"},
		})
	}
}

func (h *Handler) listReviews(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		reviews []models.CVReview
		err     error
	)
	if cvID := c.Query("cvId"); cvID != "" {
		reviews, err = h.Engine.Store.ListReviewsByCV(ctx, cvID)
	} else {
		reviews, err = h.Engine.Store.ListReviews(ctx)
	}
	if err != nil {
		writeError(c, err, "failed to list reviews")
		return
	}
	respond.OK(c, reviews)
}

func (h *Handler) getReview(c *gin.Context) {
	review, err := h.Engine.Store.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch review")
		return
	}
	respond.OK(c, review)
}

func (h *Handler) deleteReview(c *gin.Context) {
	if err := h.Engine.Store.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "failed to delete review")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) createJobMatch(c *gin.Context) {
	c.Set("workflow", KindJobMatch)
	var body jobMatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	key := c.GetHeader(WorkflowKeyHeader)
	w := h.matches.Acquire(key)
	if prev, done := w.Result(); done && key != "" {
		c.Header("X-Workflow-Replayed", "true")
		respond.OK(c, prev)
		return
	}

	match, err := w.Run(c.Request.Context(), body.CVID, body.JobDescription)
	if err != nil {
		writeError(c, err, "failed to match job")
		return
	}
	c.Set("cvId", match.CVID)
	respond.Created(c, match)
}

func (h *Handler) listJobMatches(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		matches []models.JobMatch
		err     error
	)
	if cvID := c.Query("cvId"); cvID != "" {
		matches, err = h.Engine.Store.ListJobMatchesByCV(ctx, cvID)
	} else {
		matches, err = h.Engine.Store.ListJobMatches(ctx)
	}
	if err != nil {
		writeError(c, err, "failed to list job matches")
		return
	}
	respond.OK(c, matches)
}

func (h *Handler) getJobMatch(c *gin.Context) {
	match, err := h.Engine.Store.GetJobMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch job match")
		return
	}
	respond.OK(c, match)
}

func (h *Handler) deleteJobMatch(c *gin.Context) {
	if err := h.Engine.Store.DeleteJobMatch(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "failed to delete job match")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) draftCoverLetter(c *gin.Context) {
	c.Set("workflow", KindCoverLetter)
	var body letterDraftRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	key := c.GetHeader(WorkflowKeyHeader)
	w := h.letters.Acquire(key)
	if prev, done := w.Result(); done && key != "" {
		c.Header("X-Workflow-Replayed", "true")
		respond.OK(c, prev)
		return
	}

	draft, err := w.Generate(c.Request.Context(), body.fields())
	if err != nil {
		writeError(c, err, "failed to generate cover letter")
		return
	}
	respond.OK(c, draft)
}

func (h *Handler) saveCoverLetter(c *gin.Context) {
	var body letterSaveRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}
	h.persistLetter(c, body.letter(), http.StatusCreated)
}

func (h *Handler) updateCoverLetter(c *gin.Context) {
	var body letterSaveRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}
	letter := body.letter()
	letter.ID = c.Param("id")
	h.persistLetter(c, letter, http.StatusOK)
}

func (h *Handler) persistLetter(c *gin.Context, letter models.CoverLetter, status int) {
	saved, err := h.Engine.SaveCoverLetter(c.Request.Context(), letter)
	if err != nil {
		writeError(c, err, "failed to save cover letter")
		return
	}
	// the draft is saved, so a keyed draft instance can start over
	h.letters.Forget(c.GetHeader(WorkflowKeyHeader))
	respond.JSON(c, status, saved)
}

func (h *Handler) listCoverLetters(c *gin.Context) {
	letters, err := h.Engine.Store.ListCoverLetters(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list cover letters")
		return
	}
	respond.OK(c, letters)
}

func (h *Handler) getCoverLetter(c *gin.Context) {
	letter, err := h.Engine.Store.GetCoverLetter(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch cover letter")
		return
	}
	respond.OK(c, letter)
}

func (h *Handler) deleteCoverLetter(c *gin.Context) {
	if err := h.Engine.Store.DeleteCoverLetter(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "failed to delete cover letter")
		return
	}
	respond.NoContent(c)
}

// writeError maps workflow and store errors onto HTTP responses.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrMissingInput),
		errors.Is(err, store.ErrInvalidRecord),
		errors.Is(err, store.ErrInvalidProfile):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
	case errors.Is(err, ErrReferenceNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "referenced CV not found", nil)
	case errors.Is(err, store.ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "record not found", nil)
	case errors.Is(err, ErrInProgress), errors.Is(err, ErrAlreadyCompleted):
		respond.Error(c, http.StatusConflict, ErrorCodeInProgress, err.Error(), nil)
	case errors.Is(err, store.ErrStorageUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeStorage, "storage unavailable", nil)
	case errors.Is(err, ErrStaleAttempt):
		respond.Error(c, http.StatusConflict, ErrorCodeReset, "analysis was reset", nil)
	case errors.Is(err, context.Canceled):
		respond.Error(c, StatusClientClosedRequest, ErrorCodeCanceled, "request canceled", nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, llm.ErrTransient):
		respond.Error(c, http.StatusGatewayTimeout, ErrorCodeLLMTimeout, "analysis timed out", nil)
	case errors.Is(err, scoring.ErrUnparseableResult), errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusBadGateway, ErrorCodeLLMFailure, "analysis failed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, fallback, nil)
	}
}

package rest

import (
	"errors"
	"net/http"
	"strconv"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/model"
	"go-firestore-deals/internal/review"

	"github.com/gin-gonic/gin"
)

const defaultTopLimit = 10

type toggleVoteRequest struct {
	ItemID   string         `json:"itemId" binding:"required"`
	ItemKind model.ItemKind `json:"itemKind" binding:"required"`
	VoteType model.VoteType `json:"voteType" binding:"required"`
}

type resolveRequest struct {
	IDs []string `json:"ids"`
}

func badRequest(c *gin.Context, err error) {
	writeError(c, ierr.Validation("%v", err))
}

func (h *Handler) ToggleVote(c *gin.Context) {
	userId, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req toggleVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	outcome, err := h.Ledger.ToggleVote(c.Request.Context(), userId, req.ItemID, req.ItemKind, req.VoteType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

func (h *Handler) GetVote(c *gin.Context) {
	userId, ok := h.currentUser(c)
	if !ok {
		return
	}

	v, err := h.Ledger.GetVote(c.Request.Context(), userId, c.Param("itemId"), model.ItemKind(c.Param("kind")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vote": v})
}

func (h *Handler) RemoveVote(c *gin.Context) {
	userId, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.Ledger.RemoveVote(c.Request.Context(), userId, c.Param("itemId"), model.ItemKind(c.Param("kind"))); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetVoteCounts(c *gin.Context) {
	counts, err := h.Ledger.GetVoteCounts(c.Request.Context(), c.Param("itemId"), model.ItemKind(c.Param("kind")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *Handler) SubmitReview(c *gin.Context) {
	userId, ok := h.currentUser(c)
	if !ok {
		return
	}

	var in review.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	in.UserID = userId

	outcome, err := h.Reviews.SubmitReview(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

func (h *Handler) GetReviews(c *gin.Context) {
	reviews, err := h.Reviews.GetReviewsFor(c.Request.Context(), c.Param("productKey"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *Handler) GetRating(c *gin.Context) {
	agg, err := h.Reviews.GetAggregate(c.Request.Context(), c.Param("productKey"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, agg)
}

func (h *Handler) GetUserReviews(c *gin.Context) {
	reviews, err := h.Reviews.GetUserReviews(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultTopLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, errors.New("limit must be an integer"))
		return 0, false
	}
	return limit, true
}

func (h *Handler) TopUsers(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}

	users, err := h.Ranking.GetTopUsers(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) UserRank(c *gin.Context) {
	userId := c.Param("userId")
	rank, err := h.Ranking.GetUserRank(c.Request.Context(), userId)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userId, "rank": rank})
}

func (h *Handler) PersistScore(c *gin.Context) {
	userId := c.Param("userId")
	score, err := h.Ranking.PersistScore(c.Request.Context(), userId)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userId, "rankingPoints": score})
}

func (h *Handler) Snapshot(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}

	users, err := h.Board.Top(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) ResolveDeals(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	deals, err := h.Batch.ResolveByIds(c.Request.Context(), req.IDs)
	writeDeals(c, deals, err)
}

func (h *Handler) SavedDeals(c *gin.Context) {
	deals, err := h.Batch.ResolveSavedDeals(c.Request.Context(), c.Param("userId"))
	writeDeals(c, deals, err)
}

// writeDeals answers a partial batch failure with the deals that did resolve.
func writeDeals(c *gin.Context, deals []model.Deal, err error) {
	var partial *ierr.PartialBatchFailure
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"deals": deals})
	case errors.As(err, &partial):
		c.JSON(statusOf(err), gin.H{
			"deals":        deals,
			"error":        err.Error(),
			"failedChunks": partial.FailedChunks(),
		})
	default:
		writeError(c, err)
	}
}

func (h *Handler) SaveDeal(c *gin.Context) {
	userId, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.Content.SaveDeal(c.Request.Context(), userId, c.Param("dealId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UnsaveDeal(c *gin.Context) {
	userId, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.Content.UnsaveDeal(c.Request.Context(), userId, c.Param("dealId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddDeal(c *gin.Context) {
	userId, ok := h.currentUser(c)
	if !ok {
		return
	}

	var deal model.Deal
	if err := c.ShouldBindJSON(&deal); err != nil {
		badRequest(c, err)
		return
	}
	deal.UserID = userId

	created, err := h.Content.AddDeal(c.Request.Context(), deal)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) AddComment(c *gin.Context) {
	userId, ok := h.currentUser(c)
	if !ok {
		return
	}

	var comment model.Comment
	if err := c.ShouldBindJSON(&comment); err != nil {
		badRequest(c, err)
		return
	}
	comment.UserID = userId

	created, err := h.Content.AddComment(c.Request.Context(), comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

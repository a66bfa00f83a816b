package rest

import (
	"net/http"

	"go-firestore-deals/internal/auth"
	"go-firestore-deals/internal/batch"
	"go-firestore-deals/internal/cache"
	"go-firestore-deals/internal/content"
	"go-firestore-deals/internal/metrics"
	"go-firestore-deals/internal/ranking"
	"go-firestore-deals/internal/review"
	"go-firestore-deals/internal/vote"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Ledger  *vote.Ledger
	Reviews *review.Aggregator
	Ranking *ranking.Engine
	Batch   *batch.Fetcher
	Content *content.Service
	// Board is optional; the snapshot route is only served when it is set.
	Board *cache.LeaderboardCache
	Auth  auth.Provider
}

type Handler struct {
	Deps
}

func NewRouter(d Deps) *gin.Engine {
	if d.Auth == nil {
		d.Auth = auth.HeaderProvider{}
	}
	h := &Handler{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), identity())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/votes", h.ToggleVote)
	r.GET("/votes/:kind/:itemId", h.GetVote)
	r.DELETE("/votes/:kind/:itemId", h.RemoveVote)
	r.GET("/items/:kind/:itemId/counts", h.GetVoteCounts)

	r.POST("/reviews", h.SubmitReview)
	r.GET("/products/:productKey/reviews", h.GetReviews)
	r.GET("/products/:productKey/rating", h.GetRating)
	r.GET("/users/:userId/reviews", h.GetUserReviews)

	r.GET("/rankings/top", h.TopUsers)
	r.GET("/rankings/users/:userId", h.UserRank)
	r.POST("/rankings/users/:userId/persist", h.PersistScore)
	if d.Board != nil {
		r.GET("/rankings/snapshot", h.Snapshot)
	}

	r.POST("/deals/resolve", h.ResolveDeals)
	r.GET("/users/:userId/saved-deals", h.SavedDeals)
	r.PUT("/saved-deals/:dealId", h.SaveDeal)
	r.DELETE("/saved-deals/:dealId", h.UnsaveDeal)

	r.POST("/deals", h.AddDeal)
	r.POST("/comments", h.AddComment)

	return r
}

// identity moves the gateway supplied user id into the request context.
func identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(auth.HeaderUserID); id != "" {
			c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), id))
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug().Msgf("%s %s -> %d", c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}

func (h *Handler) currentUser(c *gin.Context) (string, bool) {
	id, ok := h.Auth.CurrentUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + auth.HeaderUserID + " header"})
		return "", false
	}
	return id, true
}

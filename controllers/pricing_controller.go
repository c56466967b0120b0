package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"lattice-pricer/database"
	"lattice-pricer/interfaces"
	"lattice-pricer/pricing"
	"lattice-pricer/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultRunsLimit = 50

// PricingController handles option pricing requests
type PricingController struct {
	pricingService interfaces.PricingService
	logger         *logrus.Logger
}

// NewPricingController creates a new pricing controller
func NewPricingController(pricingService interfaces.PricingService) *PricingController {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &PricingController{
		pricingService: pricingService,
		logger:         logger,
	}
}

// RegisterRoutes mounts the pricing endpoints on a router
func (pc *PricingController) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", pc.HandleHealth)

	v1 := router.Group("/api/v1/pricing")
	v1.POST("/binomial/call", pc.HandlePriceCall)
	v1.GET("/runs", pc.HandleListRuns)
	v1.GET("/runs/:id", pc.HandleGetRun)
}

// HandleHealth reports liveness
// GET /health
func (pc *PricingController) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandlePriceCall prices a European call on a binomial lattice
// POST /api/v1/pricing/binomial/call
func (pc *PricingController) HandlePriceCall(c *gin.Context) {
	var req interfaces.PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	result, err := pc.pricingService.PriceCall(c.Request.Context(), &req)
	if err != nil {
		status := pricingErrorStatus(err)
		pc.logger.WithError(err).WithField("status", status).Warn("Pricing request rejected")
		c.JSON(status, gin.H{
			"error":   "Failed to price option",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleListRuns lists recent pricing runs
// GET /api/v1/pricing/runs?limit=20
func (pc *PricingController) HandleListRuns(c *gin.Context) {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	runs, err := pc.pricingService.ListRuns(limit)
	if err != nil {
		c.JSON(journalErrorStatus(err), gin.H{
			"error":   "Failed to list pricing runs",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

// HandleGetRun retrieves one pricing run with its lattices
// GET /api/v1/pricing/runs/:id
func (pc *PricingController) HandleGetRun(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "run ID must be a positive integer",
		})
		return
	}

	run, err := pc.pricingService.GetRun(uint(id))
	if err != nil {
		c.JSON(journalErrorStatus(err), gin.H{
			"error":   "Failed to get pricing run",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, run)
}

func pricingErrorStatus(err error) int {
	switch {
	case errors.Is(err, pricing.ErrArbitrageLattice), errors.Is(err, services.ErrNonFinitePrice):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrMarketDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrMarketData):
		return http.StatusBadGateway
	case errors.Is(err, pricing.ErrInvalidSpot),
		errors.Is(err, pricing.ErrInvalidStrike),
		errors.Is(err, pricing.ErrInvalidHorizon),
		errors.Is(err, pricing.ErrInvalidRate),
		errors.Is(err, pricing.ErrInvalidFactors),
		errors.Is(err, pricing.ErrInvalidSteps):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func journalErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrJournalDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, database.ErrRunNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

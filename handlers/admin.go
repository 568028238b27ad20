package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"glowbook/config"
	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/utils"
)

// AdminHandler serves the booking dashboard endpoints.
type AdminHandler struct {
	bookings repository.BookingRepository
}

func NewAdminHandler(bookings repository.BookingRepository) *AdminHandler {
	return &AdminHandler{bookings: bookings}
}

// LoginHandler authenticates the configured admin account and issues a JWT.
func (h *AdminHandler) LoginHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != strings.ToLower(config.AppConfig.AdminEmail) || config.AppConfig.AdminPasswordHash == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(config.AppConfig.AdminPasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("admin login rejected", zap.String("email", email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken("admin", email, 12*time.Hour)
	if err != nil {
		logger.Error("admin token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
		return
	}
	c.JSON(http.StatusOK, models.AdminLoginResponse{Token: token})
}

// ListBookingsHandler returns bookings, newest first, with optional filters.
func (h *AdminHandler) ListBookingsHandler(c *gin.Context) {
	logger := utils.GetLogger()

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	filter := repository.ListFilter{
		Status:  c.Query("status"),
		Service: c.Query("service"),
		Country: c.Query("country"),
		Limit:   limit,
	}

	bookings, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		logger.Error("booking list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list bookings"})
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// AnalyticsHandler returns coarse status and service breakdowns.
func (h *AdminHandler) AnalyticsHandler(c *gin.Context) {
	logger := utils.GetLogger()

	byStatus, err := h.bookings.CountByStatus(c.Request.Context())
	if err != nil {
		logger.Error("status analytics failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not compute analytics"})
		return
	}
	byService, err := h.bookings.CountByService(c.Request.Context())
	if err != nil {
		logger.Error("service analytics failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not compute analytics"})
		return
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}
	c.JSON(http.StatusOK, models.BookingAnalytics{
		Total:     total,
		ByStatus:  byStatus,
		ByService: byService,
	})
}

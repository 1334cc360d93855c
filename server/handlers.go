package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/apperr"
	"github.com/Arthurlmr/weleev-sub000/models"
)

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type scoreRequest struct {
	UserID    string `json:"user_id"`
	ListingID string `json:"listing_id"`
}

type criteriaRequest struct {
	UserID       string `json:"user_id"`
	Location     string `json:"location"`
	PropertyType string `json:"property_type"`
	MaxBudget    int    `json:"max_budget"`
	MinRooms     int    `json:"min_rooms"`
	WantsParking bool   `json:"wants_parking"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "user_id must be a valid uuid")
		return
	}

	result, err := s.chat.AdvanceConversation(c.Request.Context(), userID, req.Message)
	if err != nil {
		s.failFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleScore(c *gin.Context) {
	userID, listingID, ok := s.bindUserListing(c)
	if !ok {
		return
	}

	record, err := s.scores.ScoreListing(c.Request.Context(), userID, listingID)
	if err != nil {
		s.failFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleInsight(c *gin.Context) {
	userID, listingID, ok := s.bindUserListing(c)
	if !ok {
		return
	}

	insight, err := s.insight.GetInsight(c.Request.Context(), userID, listingID)
	if err != nil {
		s.failFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, insight)
}

func (s *Server) handleCreateCriteria(c *gin.Context) {
	var req criteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "user_id must be a valid uuid")
		return
	}
	if strings.TrimSpace(req.Location) == "" {
		s.fail(c, http.StatusBadRequest, "location is required")
		return
	}
	if req.MaxBudget <= 0 {
		s.fail(c, http.StatusBadRequest, "max_budget must be positive")
		return
	}

	propertyType := models.PropertyType(strings.TrimSpace(req.PropertyType))
	switch propertyType {
	case models.PropertyTypeApartment, models.PropertyTypeHouse, models.PropertyTypeAny:
	case "":
		propertyType = models.PropertyTypeAny
	default:
		s.fail(c, http.StatusBadRequest, "unknown property_type")
		return
	}

	criteria := &models.SearchCriteria{
		ID:           uuid.New(),
		UserID:       userID,
		Location:     strings.TrimSpace(req.Location),
		PropertyType: propertyType,
		MaxBudget:    req.MaxBudget,
		MinRooms:     req.MinRooms,
		WantsParking: req.WantsParking,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateSearchCriteria(c.Request.Context(), criteria); err != nil {
		s.failFromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, criteria)
}

func (s *Server) handleGetProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, "user_id must be a valid uuid")
		return
	}

	profile, err := s.store.GetProfile(c.Request.Context(), userID)
	if err != nil {
		s.failFromError(c, err)
		return
	}
	if profile == nil {
		s.fail(c, http.StatusNotFound, "profile not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleGetListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, "listing id must be a valid uuid")
		return
	}

	listing, err := s.store.GetListing(c.Request.Context(), listingID)
	if err != nil {
		s.failFromError(c, err)
		return
	}
	if listing == nil {
		s.fail(c, http.StatusNotFound, "listing not found")
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (s *Server) bindUserListing(c *gin.Context) (userID, listingID uuid.UUID, ok bool) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid request body")
		return uuid.Nil, uuid.Nil, false
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "user_id must be a valid uuid")
		return uuid.Nil, uuid.Nil, false
	}
	listingID, err = uuid.Parse(req.ListingID)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "listing_id must be a valid uuid")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, listingID, true
}

func (s *Server) fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// failFromError maps the service error kinds onto HTTP statuses:
// validation 400, not found 404, upstream 502, anything else 500.
func (s *Server) failFromError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		s.fail(c, http.StatusBadRequest, err.Error())
	case apperr.IsNotFound(err):
		s.fail(c, http.StatusNotFound, err.Error())
	case apperr.IsUpstream(err):
		s.logger.Error("upstream failure", zap.Error(err))
		s.fail(c, http.StatusBadGateway, "upstream service failed")
	default:
		s.logger.Error("internal error", zap.Error(err))
		s.fail(c, http.StatusInternalServerError, "internal error")
	}
}

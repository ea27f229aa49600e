package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"fasohabita/server/config"
	"fasohabita/server/internal/auth"
	"fasohabita/server/internal/models"
	"fasohabita/server/internal/objectstore"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	msgListingNotFound = "Listing not found"
	msgNoPermission    = "Listing not found or you don't have permission"
)

// ListingService is implemented by *service.ListingService
type ListingService interface {
	List(ctx context.Context, f models.ListingFilter) ([]models.ListingResponse, error)
	ListMine(ctx context.Context, ownerID string) ([]models.ListingResponse, error)
	Get(ctx context.Context, id int64) (*models.ListingResponse, error)
	Create(ctx context.Context, req *models.CreateListingRequest, ownerID string) (*models.ListingResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateListingRequest, ownerID string) (*models.ListingResponse, error)
	Delete(ctx context.Context, id int64, ownerID string) error
}

// UserStore holds user rows. *database.Database implements it.
type UserStore interface {
	UpsertUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	listings ListingService
	users    UserStore
	sessions *auth.Sessions
	storage  objectstore.Store
	config   *config.Config
	logger   *logrus.Logger
}

// NewHandler builds the HTTP handlers. storage may be nil, which disables
// the upload routes.
func NewHandler(cfg *config.Config, listings ListingService, users UserStore, sessions *auth.Sessions, storage objectstore.Store, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	useJSONFieldNames()

	return &Handler{
		listings: listings,
		users:    users,
		sessions: sessions,
		storage:  storage,
		config:   cfg,
		logger:   logger,
	}
}

// parseListingID reads the :id path segment; anything but a positive
// integer is treated as an unknown listing
func parseListingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	fe := translateBindError(err)
	body := gin.H{"message": fe.Message}
	if fe.Field != "" {
		body["field"] = fe.Field
	}
	c.JSON(http.StatusBadRequest, body)
}

func (h *Handler) GetListings(c *gin.Context) {
	filter := models.ParseListingFilter(c.Request.URL.Query())

	listings, err := h.listings.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listings")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, listings)
}

func (h *Handler) GetMyListings(c *gin.Context) {
	userID, _ := auth.UserID(c)

	listings, err := h.listings.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("owner_id", userID).Error("Failed to get owner listings")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch your listings"})
		return
	}

	c.JSON(http.StatusOK, listings)
}

func (h *Handler) GetListing(c *gin.Context) {
	id, ok := parseListingID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": msgListingNotFound})
		return
	}

	listing, err := h.listings.Get(c.Request.Context(), id)
	if errors.Is(err, models.ErrListingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": msgListingNotFound})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("listing_id", id).Error("Failed to get listing")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch listing"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *Handler) CreateListing(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var req models.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.logger.WithError(err).WithField("owner_id", userID).Error("Failed to create listing")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create listing"})
		return
	}

	c.JSON(http.StatusCreated, listing)
}

func (h *Handler) UpdateListing(c *gin.Context) {
	userID, _ := auth.UserID(c)
	id, ok := parseListingID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNoPermission})
		return
	}

	var req models.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	listing, err := h.listings.Update(c.Request.Context(), id, &req, userID)
	if errors.Is(err, models.ErrListingNotFound) || errors.Is(err, models.ErrNotOwner) {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNoPermission})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"listing_id": id,
			"owner_id":   userID,
		}).Error("Failed to update listing")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *Handler) DeleteListing(c *gin.Context) {
	userID, _ := auth.UserID(c)
	id, ok := parseListingID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNoPermission})
		return
	}

	err := h.listings.Delete(c.Request.Context(), id, userID)
	if errors.Is(err, models.ErrListingNotFound) || errors.Is(err, models.ErrNotOwner) {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNoPermission})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"listing_id": id,
			"owner_id":   userID,
		}).Error("Failed to delete listing")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete listing"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.users.Ping(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/profilio/user-hub/internal/application"
	"github.com/profilio/user-hub/internal/domain/entity"
	"github.com/profilio/user-hub/internal/infrastructure/avatar"
	"github.com/profilio/user-hub/pkg/response"
	"github.com/profilio/user-hub/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// Create inserts a user and returns it. Welcome email and user_created
// event are detached side effects; their failures never surface here.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.CreateUser(c.Request.Context(), req.Name, req.Email)
	switch {
	case errors.Is(err, entity.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "email already in use", nil)
	case err != nil:
		h.Logger.WithError(err).Error("create user failed")
		response.Error(c, http.StatusInternalServerError, "Failed to create user", nil)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "User created successfully", "user": u})
	}
}

// GetUser proxies the external profile API. Every upstream failure maps
// to 404, which is what existing clients expect.
func (h *UserHandler) GetUser(c *gin.Context) {
	p, err := h.Svc.LookupProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", c.Param("userId")).Warn("profile lookup failed")
		response.Error(c, http.StatusNotFound, "User not found", nil)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetAvatar serves the stored image as base64 text under an image/jpeg
// content type. The body stays base64 for compatibility with the
// service's existing consumers.
func (h *UserHandler) GetAvatar(c *gin.Context) {
	b64, err := h.Svc.GetAvatar(c.Param("userId"))
	switch {
	case errors.Is(err, avatar.ErrNotFound):
		c.String(http.StatusNotFound, "Avatar not found")
	case err != nil:
		h.Logger.WithError(err).WithField("user_id", c.Param("userId")).Error("avatar read failed")
		c.String(http.StatusInternalServerError, "Internal Server Error")
	default:
		c.Data(http.StatusOK, "image/jpeg", []byte(b64))
	}
}

// PutAvatar uploads or overwrites the avatar. The request body is the
// raw image bytes.
func (h *UserHandler) PutAvatar(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil || len(data) == 0 {
		response.Error(c, http.StatusBadRequest, "empty image payload", nil)
		return
	}
	key, err := h.Svc.PutAvatar(c.Request.Context(), c.Param("userId"), data)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", c.Param("userId")).Error("avatar write failed")
		response.Error(c, http.StatusInternalServerError, "Failed to store avatar", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Avatar uploaded successfully", "avatar": key})
}

// DeleteAvatar removes the file and clears the avatar pointer.
func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	err := h.Svc.DeleteAvatar(c.Request.Context(), c.Param("userId"))
	switch {
	case errors.Is(err, avatar.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Avatar not found", nil)
	case err != nil:
		h.Logger.WithError(err).WithField("user_id", c.Param("userId")).Error("avatar delete failed")
		response.Error(c, http.StatusInternalServerError, "Failed to delete user avatar", nil)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Avatar deleted successfully"})
	}
}

// Search queries the Elasticsearch users index.
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size := 10
	if s := c.Query("size"); s != "" {
		// bad values keep the default, SearchUsers clamps anyway
		if n, err := strconv.Atoi(s); err == nil {
			size = n
		}
	}
	results, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("user search failed")
		response.Error(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/http/response"
	"github.com/yungbote/pantry-backend/internal/platform/clock"
	"github.com/yungbote/pantry-backend/internal/platform/ctxutil"
	"github.com/yungbote/pantry-backend/internal/services"
)

type ShoppingSessionHandler struct {
	sessions services.ShoppingSessionService
	clock    clock.Clock
}

func NewShoppingSessionHandler(sessions services.ShoppingSessionService, clk clock.Clock) *ShoppingSessionHandler {
	if clk == nil {
		clk = clock.System()
	}
	return &ShoppingSessionHandler{sessions: sessions, clock: clk}
}

type startSessionRequest struct {
	DeviceType *string      `json:"device_type"`
	Location   *LocationDTO `json:"location"`
}

type checkItemRequest struct {
	IngredientID string `json:"ingredient_id"`
}

type abandonSessionRequest struct {
	Reason string `json:"reason"`
}

// POST /api/shopping-sessions
func (h *ShoppingSessionHandler) StartSession(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	var req startSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	cmd := services.StartSessionCommand{UserID: userID, DeviceType: req.DeviceType}
	if req.Location != nil {
		cmd.Location = &services.LocationInput{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
			PlaceName: req.Location.PlaceName,
		}
	}
	sess, err := h.sessions.StartSession(c.Request.Context(), cmd)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": h.render(c, *sess)})
}

// GET /api/shopping-sessions/active
func (h *ShoppingSessionHandler) GetActiveSession(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	sess, err := h.sessions.GetActiveSession(c.Request.Context(), userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if sess == nil {
		response.RespondOK(c, gin.H{"session": nil})
		return
	}
	response.RespondOK(c, gin.H{"session": h.render(c, *sess)})
}

// GET /api/shopping-sessions/:id
func (h *ShoppingSessionHandler) GetSession(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}
	sess, err := h.sessions.GetSession(c.Request.Context(), sessionID, userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": h.render(c, *sess)})
}

// POST /api/shopping-sessions/:id/items
func (h *ShoppingSessionHandler) CheckItem(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}
	var req checkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ingredientID, err := uuid.Parse(strings.TrimSpace(req.IngredientID))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_ingredient_id", err)
		return
	}
	sess, err := h.sessions.CheckItem(c.Request.Context(), services.CheckItemCommand{
		SessionID:    sessionID,
		IngredientID: ingredientID,
		UserID:       userID,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": h.render(c, *sess)})
}

// POST /api/shopping-sessions/:id/complete
func (h *ShoppingSessionHandler) CompleteSession(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}
	sess, err := h.sessions.CompleteSession(c.Request.Context(), services.CompleteSessionCommand{
		SessionID: sessionID,
		UserID:    userID,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": h.render(c, *sess)})
}

// POST /api/shopping-sessions/:id/abandon
func (h *ShoppingSessionHandler) AbandonSession(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}
	var req abandonSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	sess, err := h.sessions.AbandonSession(c.Request.Context(), services.AbandonSessionCommand{
		SessionID: sessionID,
		UserID:    userID,
		Reason:    strings.TrimSpace(req.Reason),
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": h.render(c, *sess)})
}

func (h *ShoppingSessionHandler) render(c *gin.Context, s shopping.Session) SessionDTO {
	return SessionToDTO(s, h.clock.Now(), c.Query("order") == "priority")
}

func requestUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func sessionParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return uuid.Nil, false
	}
	return id, true
}

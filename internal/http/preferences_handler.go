package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eatrite-api/internal/domain"
	"eatrite-api/internal/service"
)

var preferencesMessages = map[error]string{
	domain.ErrNotFound: "user preferences not found, create them first",
	domain.ErrConflict: "user preferences already exist, use PUT to update",
}

// PreferencesHandler expone el CRUD de preferencias del usuario autenticado.
type PreferencesHandler struct {
	logger *zap.Logger
	prefs  *service.PreferencesService
}

func NewPreferencesHandler(logger *zap.Logger, prefs *service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{logger: logger, prefs: prefs}
}

// Get maneja GET /preferences.
func (h *PreferencesHandler) Get(c *gin.Context) {
	user, _ := IdentityFrom(c).User()
	prefs, err := h.prefs.Get(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err, preferencesMessages)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Create maneja POST /preferences.
func (h *PreferencesHandler) Create(c *gin.Context) {
	var req struct {
		Allergies           []string `json:"allergies"`
		DietaryRestrictions []string `json:"dietary_restrictions"`
		HealthGoals         *string  `json:"health_goals"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondInvalidRequest(c, h.logger, err, "create preferences")
		return
	}

	user, _ := IdentityFrom(c).User()
	prefs, err := h.prefs.Create(c.Request.Context(), user.ID, service.CreatePreferencesInput{
		Allergies:           req.Allergies,
		DietaryRestrictions: req.DietaryRestrictions,
		HealthGoals:         req.HealthGoals,
	})
	if err != nil {
		respondError(c, h.logger, err, preferencesMessages)
		return
	}
	c.JSON(http.StatusCreated, prefs)
}

// Update maneja PUT /preferences. Los campos ausentes (o null) no cambian.
func (h *PreferencesHandler) Update(c *gin.Context) {
	var req struct {
		Allergies           *[]string `json:"allergies"`
		DietaryRestrictions *[]string `json:"dietary_restrictions"`
		HealthGoals         *string   `json:"health_goals"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondInvalidRequest(c, h.logger, err, "update preferences")
		return
	}

	user, _ := IdentityFrom(c).User()
	prefs, err := h.prefs.Update(c.Request.Context(), user.ID, domain.PreferencesPatch{
		Allergies:           req.Allergies,
		DietaryRestrictions: req.DietaryRestrictions,
		HealthGoals:         req.HealthGoals,
	})
	if err != nil {
		respondError(c, h.logger, err, preferencesMessages)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Delete maneja DELETE /preferences.
func (h *PreferencesHandler) Delete(c *gin.Context) {
	user, _ := IdentityFrom(c).User()
	if err := h.prefs.Delete(c.Request.Context(), user.ID); err != nil {
		respondError(c, h.logger, err, preferencesMessages)
		return
	}
	c.Status(http.StatusNoContent)
}

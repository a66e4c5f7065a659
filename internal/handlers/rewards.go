package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lasexta-backend/internal/services"
)

// RewardHandler exposes the points-funded prize catalog
type RewardHandler struct {
	rewardService *services.RewardService
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService *services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// List returns the enabled rewards, cheapest first
// GET /api/rewards
func (h *RewardHandler) List(c *gin.Context) {
	rewards, err := h.rewardService.ListEnabled()
	if err != nil {
		log.Printf("failed to list rewards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// ListAll returns every reward, enabled or not
// GET /api/admin/rewards
func (h *RewardHandler) ListAll(c *gin.Context) {
	rewards, err := h.rewardService.ListAll()
	if err != nil {
		log.Printf("failed to list rewards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// Create stores a new reward
// POST /api/admin/rewards
func (h *RewardHandler) Create(c *gin.Context) {
	var input services.RewardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Datos inválidos."})
		return
	}

	reward, err := h.rewardService.Create(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingField):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Nombre y descripción son requeridos."})
		case errors.Is(err, services.ErrInvalidRewardPoints):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Los puntos requeridos deben ser mayores a cero."})
		default:
			log.Printf("failed to create reward: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo crear el premio."})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Premio creado correctamente.", "reward": reward})
}

// Update applies a partial update
// PUT /api/admin/rewards/:rewardId
func (h *RewardHandler) Update(c *gin.Context) {
	var input services.RewardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Datos inválidos."})
		return
	}

	reward, err := h.rewardService.Update(c.Param("rewardId"), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRewardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Premio no encontrado."})
		case errors.Is(err, services.ErrMissingField):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Los campos enviados no pueden quedar vacíos."})
		case errors.Is(err, services.ErrInvalidRewardPoints):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Los puntos requeridos deben ser mayores a cero."})
		default:
			log.Printf("failed to update reward: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo actualizar el premio."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Premio actualizado correctamente.", "reward": reward})
}

// Delete removes a reward
// DELETE /api/admin/rewards/:rewardId
func (h *RewardHandler) Delete(c *gin.Context) {
	if err := h.rewardService.Delete(c.Param("rewardId")); err != nil {
		if errors.Is(err, services.ErrRewardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Premio no encontrado."})
			return
		}
		log.Printf("failed to delete reward: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo eliminar el premio."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Premio eliminado correctamente."})
}

package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lasexta-backend/internal/services"
)

// BenefitHandler exposes the sponsor-benefit catalog
type BenefitHandler struct {
	benefitService *services.BenefitService
}

// NewBenefitHandler creates a new BenefitHandler
func NewBenefitHandler(benefitService *services.BenefitService) *BenefitHandler {
	return &BenefitHandler{benefitService: benefitService}
}

// List returns the active benefits clients may see
// GET /api/benefits
func (h *BenefitHandler) List(c *gin.Context) {
	benefits, err := h.benefitService.ListActive()
	if err != nil {
		log.Printf("failed to list benefits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"benefits": benefits})
}

// ListAll returns every benefit, active or not
// GET /api/admin/benefits
func (h *BenefitHandler) ListAll(c *gin.Context) {
	benefits, err := h.benefitService.ListAll()
	if err != nil {
		log.Printf("failed to list benefits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"benefits": benefits})
}

// Create stores a new benefit
// POST /api/admin/benefits
func (h *BenefitHandler) Create(c *gin.Context) {
	var input services.BenefitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Datos inválidos."})
		return
	}

	benefit, err := h.benefitService.Create(input)
	if err != nil {
		if errors.Is(err, services.ErrMissingField) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Todos los campos del beneficio son requeridos."})
			return
		}
		log.Printf("failed to create benefit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo crear el beneficio."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Beneficio creado correctamente.", "benefit": benefit})
}

// Update applies a partial update
// PUT /api/admin/benefits/:benefitId
func (h *BenefitHandler) Update(c *gin.Context) {
	var input services.BenefitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Datos inválidos."})
		return
	}

	benefit, err := h.benefitService.Update(c.Param("benefitId"), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBenefitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Beneficio no encontrado."})
		case errors.Is(err, services.ErrMissingField):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Los campos enviados no pueden quedar vacíos."})
		default:
			log.Printf("failed to update benefit: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo actualizar el beneficio."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Beneficio actualizado correctamente.", "benefit": benefit})
}

// Delete removes a benefit
// DELETE /api/admin/benefits/:benefitId
func (h *BenefitHandler) Delete(c *gin.Context) {
	if err := h.benefitService.Delete(c.Param("benefitId")); err != nil {
		if errors.Is(err, services.ErrBenefitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Beneficio no encontrado."})
			return
		}
		log.Printf("failed to delete benefit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo eliminar el beneficio."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Beneficio eliminado correctamente."})
}

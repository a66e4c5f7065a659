package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lasexta-backend/internal/models"
)

var ErrBenefitNotFound = errors.New("benefit not found")

// BenefitInput carries a create or partial-update request.
type BenefitInput struct {
	Titulo              *string `json:"titulo"`
	DescripcionCorta    *string `json:"descripcionCorta"`
	DescripcionCompleta *string `json:"descripcionCompleta"`
	LogoURL             *string `json:"logoUrl"`
	NombreAuspiciante   *string `json:"nombreAuspiciante"`
	Activo              *bool   `json:"activo"`
}

// BenefitService manages the sponsor-benefit catalog
type BenefitService struct {
	db *gorm.DB
}

// NewBenefitService creates a new BenefitService
func NewBenefitService(db *gorm.DB) *BenefitService {
	return &BenefitService{db: db}
}

// ListActive returns the benefits clients may see.
func (s *BenefitService) ListActive() ([]models.Benefit, error) {
	var benefits []models.Benefit
	err := s.db.Where("activo = ?", true).Order("created_at DESC").Find(&benefits).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return benefits, nil
}

// ListAll returns every benefit, enabled or not.
func (s *BenefitService) ListAll() ([]models.Benefit, error) {
	var benefits []models.Benefit
	err := s.db.Order("created_at DESC").Find(&benefits).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return benefits, nil
}

// Create stores a new benefit.
func (s *BenefitService) Create(input BenefitInput) (*models.Benefit, error) {
	titulo, err := requiredField(input.Titulo, "titulo")
	if err != nil {
		return nil, err
	}
	corta, err := requiredField(input.DescripcionCorta, "descripcionCorta")
	if err != nil {
		return nil, err
	}
	completa, err := requiredField(input.DescripcionCompleta, "descripcionCompleta")
	if err != nil {
		return nil, err
	}
	logo, err := requiredField(input.LogoURL, "logoUrl")
	if err != nil {
		return nil, err
	}
	auspiciante, err := requiredField(input.NombreAuspiciante, "nombreAuspiciante")
	if err != nil {
		return nil, err
	}

	benefit := models.Benefit{
		Titulo:              titulo,
		DescripcionCorta:    corta,
		DescripcionCompleta: completa,
		LogoURL:             logo,
		NombreAuspiciante:   auspiciante,
		Activo:              input.Activo == nil || *input.Activo,
	}
	if err := s.db.Create(&benefit).Error; err != nil {
		return nil, fmt.Errorf("failed to create benefit: %w", err)
	}
	return &benefit, nil
}

// Update applies a partial update.
func (s *BenefitService) Update(benefitID string, input BenefitInput) (*models.Benefit, error) {
	var benefit models.Benefit
	err := s.db.Where("id = ?", benefitID).First(&benefit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBenefitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if input.Titulo != nil {
		titulo, err := requiredField(input.Titulo, "titulo")
		if err != nil {
			return nil, err
		}
		benefit.Titulo = titulo
	}
	if input.DescripcionCorta != nil {
		corta, err := requiredField(input.DescripcionCorta, "descripcionCorta")
		if err != nil {
			return nil, err
		}
		benefit.DescripcionCorta = corta
	}
	if input.DescripcionCompleta != nil {
		completa, err := requiredField(input.DescripcionCompleta, "descripcionCompleta")
		if err != nil {
			return nil, err
		}
		benefit.DescripcionCompleta = completa
	}
	if input.LogoURL != nil {
		logo, err := requiredField(input.LogoURL, "logoUrl")
		if err != nil {
			return nil, err
		}
		benefit.LogoURL = logo
	}
	if input.NombreAuspiciante != nil {
		auspiciante, err := requiredField(input.NombreAuspiciante, "nombreAuspiciante")
		if err != nil {
			return nil, err
		}
		benefit.NombreAuspiciante = auspiciante
	}
	if input.Activo != nil {
		benefit.Activo = *input.Activo
	}

	if err := s.db.Save(&benefit).Error; err != nil {
		return nil, fmt.Errorf("failed to update benefit: %w", err)
	}
	return &benefit, nil
}

// Delete removes a benefit.
func (s *BenefitService) Delete(benefitID string) error {
	res := s.db.Where("id = ?", benefitID).Delete(&models.Benefit{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete benefit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBenefitNotFound
	}
	return nil
}

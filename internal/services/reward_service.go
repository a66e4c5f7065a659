package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lasexta-backend/internal/models"
)

var (
	ErrRewardNotFound      = errors.New("reward not found")
	ErrInvalidRewardPoints = errors.New("required points must be greater than zero")
)

// RewardInput carries a create or partial-update request.
type RewardInput struct {
	Nombre           *string `json:"nombre"`
	PuntosRequeridos *int    `json:"puntosRequeridos"`
	Descripcion      *string `json:"descripcion"`
	ImagenURL        *string `json:"imagenUrl"`
	Habilitado       *bool   `json:"habilitado"`
}

// RewardService manages the points-funded prize catalog
type RewardService struct {
	db *gorm.DB
}

// NewRewardService creates a new RewardService
func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{db: db}
}

// ListEnabled returns the rewards clients may browse, cheapest first.
func (s *RewardService) ListEnabled() ([]models.Reward, error) {
	var rewards []models.Reward
	err := s.db.Where("habilitado = ?", true).
		Order("puntos_requeridos ASC, created_at DESC").
		Find(&rewards).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rewards, nil
}

// ListAll returns every reward, enabled or not.
func (s *RewardService) ListAll() ([]models.Reward, error) {
	var rewards []models.Reward
	err := s.db.Order("puntos_requeridos ASC, created_at DESC").Find(&rewards).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rewards, nil
}

// Create stores a new reward.
func (s *RewardService) Create(input RewardInput) (*models.Reward, error) {
	nombre, err := requiredField(input.Nombre, "nombre")
	if err != nil {
		return nil, err
	}
	descripcion, err := requiredField(input.Descripcion, "descripcion")
	if err != nil {
		return nil, err
	}
	if input.PuntosRequeridos == nil || *input.PuntosRequeridos < 1 {
		return nil, ErrInvalidRewardPoints
	}

	reward := models.Reward{
		Nombre:           nombre,
		PuntosRequeridos: *input.PuntosRequeridos,
		Descripcion:      descripcion,
		ImagenURL:        trimmedOrNil(input.ImagenURL),
		Habilitado:       input.Habilitado == nil || *input.Habilitado,
	}
	if err := s.db.Create(&reward).Error; err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}
	return &reward, nil
}

// Update applies a partial update.
func (s *RewardService) Update(rewardID string, input RewardInput) (*models.Reward, error) {
	var reward models.Reward
	err := s.db.Where("id = ?", rewardID).First(&reward).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRewardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if input.Nombre != nil {
		nombre, err := requiredField(input.Nombre, "nombre")
		if err != nil {
			return nil, err
		}
		reward.Nombre = nombre
	}
	if input.PuntosRequeridos != nil {
		if *input.PuntosRequeridos < 1 {
			return nil, ErrInvalidRewardPoints
		}
		reward.PuntosRequeridos = *input.PuntosRequeridos
	}
	if input.Descripcion != nil {
		descripcion, err := requiredField(input.Descripcion, "descripcion")
		if err != nil {
			return nil, err
		}
		reward.Descripcion = descripcion
	}
	if input.ImagenURL != nil {
		reward.ImagenURL = trimmedOrNil(input.ImagenURL)
	}
	if input.Habilitado != nil {
		reward.Habilitado = *input.Habilitado
	}

	if err := s.db.Save(&reward).Error; err != nil {
		return nil, fmt.Errorf("failed to update reward: %w", err)
	}
	return &reward, nil
}

// Delete removes a reward.
func (s *RewardService) Delete(rewardID string) error {
	res := s.db.Where("id = ?", rewardID).Delete(&models.Reward{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete reward: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRewardNotFound
	}
	return nil
}

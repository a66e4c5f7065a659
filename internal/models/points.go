package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Points transaction types: carga adds points, canje subtracts them.
// Amounts are always positive; the type carries the direction.
const (
	TransactionLoad   = "carga"
	TransactionRedeem = "canje"
)

// PointsTransaction is one entry of the append-only points ledger.
type PointsTransaction struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index" json:"usuarioId"`
	User        *User     `gorm:"foreignKey:UserID" json:"-"`
	Type        string    `gorm:"size:10;not null;index" json:"tipo"`
	Amount      int       `gorm:"not null" json:"cantidad"`
	Description string    `gorm:"size:255;not null" json:"descripcion"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"fecha"`
	ProcessedBy string    `gorm:"type:uuid" json:"procesadoPor"`
}

func (PointsTransaction) TableName() string {
	return "points_transactions"
}

func (t *PointsTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// RedeemCodeStatus is the lifecycle state of a redeem code.
type RedeemCodeStatus string

const (
	RedeemStatusPending RedeemCodeStatus = "pendiente"
	RedeemStatusUsed    RedeemCodeStatus = "usado"
	RedeemStatusExpired RedeemCodeStatus = "expirado"
)

var redeemTransitions = map[RedeemCodeStatus][]RedeemCodeStatus{
	RedeemStatusPending: {RedeemStatusUsed, RedeemStatusExpired},
}

// CanTransition reports whether s → to is an allowed redeem-code transition.
func (s RedeemCodeStatus) CanTransition(to RedeemCodeStatus) bool {
	for _, next := range redeemTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// RedeemCode is a short-lived code a client generates to cash in points.
// A user holds at most one pending code at a time; it expires 15 minutes
// after creation and is only debited when an admin validates it.
type RedeemCode struct {
	ID        string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string           `gorm:"type:uuid;not null;index" json:"usuarioId"`
	User      *User            `gorm:"foreignKey:UserID" json:"-"`
	Code      string           `gorm:"size:20;uniqueIndex;not null" json:"codigo"`
	Points    int              `gorm:"not null" json:"puntosACanjear"`
	Status    RedeemCodeStatus `gorm:"size:20;not null;default:pendiente;index" json:"estado"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"fechaCreacion"`
	ExpiresAt time.Time        `gorm:"not null" json:"fechaExpiracion"`
	UsedAt    *time.Time       `json:"fechaUso"`
}

func (RedeemCode) TableName() string {
	return "redeem_codes"
}

func (c *RedeemCode) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketStatus is the lifecycle state of a drink voucher. The only
// transition is valido→usado, enforced by the conditional UPDATE in the
// ticket service; expirado exists for data imported from earlier seasons
// and for the history split.
type TicketStatus string

const (
	TicketStatusValid   TicketStatus = "valido"
	TicketStatusUsed    TicketStatus = "usado"
	TicketStatusExpired TicketStatus = "expirado"
)

// ValidTicketStatus reports whether raw is one of the known statuses.
func ValidTicketStatus(raw string) bool {
	switch TicketStatus(raw) {
	case TicketStatusValid, TicketStatusUsed, TicketStatusExpired:
		return true
	}
	return false
}

// Ticket is a single-use QR-coded drink voucher. At most the 2 most
// recent tickets per user are ever retained; older ones are deleted on
// issuance.
type Ticket struct {
	ID        string       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string       `gorm:"type:uuid;not null;index" json:"usuarioId"`
	User      *User        `gorm:"foreignKey:UserID" json:"-"`
	Code      string       `gorm:"size:40;uniqueIndex;not null" json:"codigoQR"`
	Status    TicketStatus `gorm:"size:20;not null;default:valido;index" json:"estado"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"fechaCreacion"`
	ExpiresAt *time.Time   `json:"fechaVencimiento"`
	UsedAt    *time.Time   `json:"fechaUso"`
	IssuedBy  *string      `gorm:"type:uuid" json:"emitidoPor"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

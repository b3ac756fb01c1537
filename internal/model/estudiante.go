package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estudiante holds the part of the enrolment record the ledger reads and updates.
type Estudiante struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string          `gorm:"not null"`
	Cedula          string          `gorm:"size:20;uniqueIndex;not null"`
	Matricula       string          `gorm:"size:30;index"`
	Email           *string         `gorm:"size:120"`
	TipoServicio    string          `gorm:"size:60"`
	ValorTotalCurso decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	SaldoPendiente  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

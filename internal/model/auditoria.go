package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	AccionAbrir      = "abrir"
	AccionCerrar     = "cerrar"
	AccionCrear      = "crear"
	AccionActualizar = "actualizar"
	AccionEliminar   = "eliminar"
	AccionRecuento   = "recuento"
)

// Auditoria is an append-only trail of ledger changes with JSON snapshots.
type Auditoria struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Entidad   string     `gorm:"type:varchar(40);not null;index:idx_auditoria_entidad"`
	EntidadID uuid.UUID  `gorm:"type:uuid;not null;index:idx_auditoria_entidad"`
	Accion    string     `gorm:"type:varchar(20);not null"`
	UsuarioID *uuid.UUID `gorm:"type:uuid"`
	Antes     *string    `gorm:"type:jsonb"`
	Despues   *string    `gorm:"type:jsonb"`
	CreatedAt time.Time
}

func (Auditoria) TableName() string { return "auditoria" }

package service

import (
	"context"
	"encoding/json"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Bloqueador takes a short-lived distributed lock. infra.Locker implements it.
type Bloqueador interface {
	Bloquear(ctx context.Context, clave string) (liberar func(), err error)
}

// conBloqueo runs fn while holding clave; without a Bloqueador it just runs fn.
func conBloqueo(ctx context.Context, b Bloqueador, clave string, fn func() error) error {
	if b == nil {
		return fn()
	}
	liberar, err := b.Bloquear(ctx, clave)
	if err != nil {
		return err
	}
	defer liberar()
	return fn()
}

// auditar appends a trail entry inside tx. antes/despues are stored as JSON.
func auditar(ctx context.Context, tx *gorm.DB, repo repository.AuditoriaRepository,
	entidad string, id uuid.UUID, accion string, usuarioID uuid.UUID, antes, despues interface{}) error {
	if repo == nil {
		return nil
	}
	a := &model.Auditoria{Entidad: entidad, EntidadID: id, Accion: accion, UsuarioID: &usuarioID}
	var err error
	if a.Antes, err = instantanea(antes); err != nil {
		return err
	}
	if a.Despues, err = instantanea(despues); err != nil {
		return err
	}
	return repo.Create(ctx, tx, a)
}

func instantanea(v interface{}) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories. DB() returns nil so runTx calls fn(nil) directly.

// ── Cajas ────────────────────────────────────────────────────────────────────

type memCajaRepo struct {
	mu    sync.Mutex
	cajas map[uuid.UUID]*model.Caja
}

func newMemCajaRepo() *memCajaRepo {
	return &memCajaRepo{cajas: make(map[uuid.UUID]*model.Caja)}
}

func (r *memCajaRepo) DB() *gorm.DB { return nil }

func (r *memCajaRepo) abierta() *model.Caja {
	for _, c := range r.cajas {
		if c.Abierta() {
			return c
		}
	}
	return nil
}

// Create mimics uq_cajas_una_abierta.
func (r *memCajaRepo) Create(_ context.Context, _ *gorm.DB, c *model.Caja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.Abierta() && r.abierta() != nil {
		return gorm.ErrDuplicatedKey
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.cajas[c.ID] = &cp
	return nil
}

func (r *memCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCajaRepo) FindAbierta(_ context.Context, _ *gorm.DB) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.abierta()
	if c == nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCajaRepo) LockAbierta(ctx context.Context, tx *gorm.DB) (*model.Caja, error) {
	c, err := r.FindAbierta(ctx, tx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, repository.ErrNoHayCajaAbierta
	}
	return c, nil
}

func (r *memCajaRepo) LockByID(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Caja, error) {
	return r.FindByID(ctx, id)
}

func (r *memCajaRepo) BloquearApertura(context.Context, *gorm.DB) error { return nil }

func (r *memCajaRepo) Update(_ context.Context, _ *gorm.DB, c *model.Caja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.cajas[c.ID] = &cp
	return nil
}

func (r *memCajaRepo) List(_ context.Context, filter dto.HistorialCajaFilter) ([]model.Caja, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]model.Caja, 0, len(r.cajas))
	for _, c := range r.cajas {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FechaApertura.After(all[j].FechaApertura) })
	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.CajaRepository = (*memCajaRepo)(nil)

// ── Pagos ────────────────────────────────────────────────────────────────────

type memPagoRepo struct {
	mu    sync.Mutex
	pagos []model.Pago
}

func (r *memPagoRepo) DB() *gorm.DB { return nil }

func (r *memPagoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pago) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ReferenciaPago != nil {
		for _, x := range r.pagos {
			if x.ReferenciaPago != nil && *x.ReferenciaPago == *p.ReferenciaPago {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	for i := range p.Detalles {
		p.Detalles[i].PagoID = p.ID
	}
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *memPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pagos {
		if r.pagos[i].ID == id {
			p := r.pagos[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPagoRepo) ListByCaja(_ context.Context, cajaID uuid.UUID, limit int) ([]model.Pago, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Pago
	for i := len(r.pagos) - 1; i >= 0; i-- {
		if r.pagos[i].CajaID == cajaID {
			out = append(out, r.pagos[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memPagoRepo) CountByCaja(ctx context.Context, cajaID uuid.UUID) (int64, error) {
	pagos, _ := r.ListByCaja(ctx, cajaID, 0)
	return int64(len(pagos)), nil
}

func (r *memPagoRepo) ListByEstudiante(_ context.Context, estudianteID uuid.UUID) ([]model.Pago, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Pago
	for _, p := range r.pagos {
		if p.EstudianteID == estudianteID {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ repository.PagoRepository = (*memPagoRepo)(nil)

// ── Egresos ──────────────────────────────────────────────────────────────────

type memEgresoRepo struct {
	egresos []model.Egreso
}

func (r *memEgresoRepo) DB() *gorm.DB { return nil }

func (r *memEgresoRepo) Create(_ context.Context, _ *gorm.DB, e *model.Egreso) error {
	e.ID = uuid.New()
	r.egresos = append(r.egresos, *e)
	return nil
}

func (r *memEgresoRepo) ListByCaja(_ context.Context, cajaID uuid.UUID, limit int) ([]model.Egreso, error) {
	var out []model.Egreso
	for i := len(r.egresos) - 1; i >= 0; i-- {
		if r.egresos[i].CajaID == cajaID {
			out = append(out, r.egresos[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memEgresoRepo) CountByCaja(ctx context.Context, cajaID uuid.UUID) (int64, error) {
	e, _ := r.ListByCaja(ctx, cajaID, 0)
	return int64(len(e)), nil
}

var _ repository.EgresoRepository = (*memEgresoRepo)(nil)

// ── Estudiantes ──────────────────────────────────────────────────────────────

type memEstudianteRepo struct {
	mu          sync.Mutex
	estudiantes map[uuid.UUID]*model.Estudiante
	pagos       *memPagoRepo
}

func newMemEstudianteRepo(es ...*model.Estudiante) *memEstudianteRepo {
	r := &memEstudianteRepo{estudiantes: make(map[uuid.UUID]*model.Estudiante)}
	for _, e := range es {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		r.estudiantes[e.ID] = e
	}
	return r
}

func (r *memEstudianteRepo) FindByCedula(_ context.Context, cedula string) (*model.Estudiante, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.estudiantes {
		if e.Cedula == cedula {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memEstudianteRepo) LockByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Estudiante, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.estudiantes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *memEstudianteRepo) ReducirSaldo(_ context.Context, _ *gorm.DB, id uuid.UUID, monto decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.estudiantes[id]
	e.SaldoPendiente = e.SaldoPendiente.Sub(monto)
	return nil
}

func (r *memEstudianteRepo) ContarVencimientos(_ context.Context, vence, alerta time.Time) (int64, int64, error) {
	primeros := make(map[uuid.UUID]time.Time)
	if r.pagos != nil {
		r.pagos.mu.Lock()
		for _, p := range r.pagos.pagos {
			if f, ok := primeros[p.EstudianteID]; !ok || p.FechaPago.Before(f) {
				primeros[p.EstudianteID] = p.FechaPago
			}
		}
		r.pagos.mu.Unlock()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var proximos, vencidos int64
	for id, e := range r.estudiantes {
		primer, ok := primeros[id]
		if !ok || !e.SaldoPendiente.IsPositive() {
			continue
		}
		switch {
		case primer.Before(vence):
			vencidos++
		case primer.Before(alerta):
			proximos++
		}
	}
	return proximos, vencidos, nil
}

func (r *memEstudianteRepo) saldo(id uuid.UUID) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.estudiantes[id].SaldoPendiente
}

var _ repository.EstudianteRepository = (*memEstudianteRepo)(nil)

// ── Caja fuerte ──────────────────────────────────────────────────────────────

type memCajaFuerteRepo struct {
	mu         sync.Mutex
	cf         *model.CajaFuerte
	movs       []*model.MovimientoCajaFuerte
	inventario map[int64]model.InventarioEfectivo
}

func newMemCajaFuerteRepo() *memCajaFuerteRepo {
	return &memCajaFuerteRepo{inventario: make(map[int64]model.InventarioEfectivo)}
}

func (r *memCajaFuerteRepo) DB() *gorm.DB { return nil }

func (r *memCajaFuerteRepo) Asegurar(_ context.Context, _ *gorm.DB) (*model.CajaFuerte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cf == nil {
		r.cf = &model.CajaFuerte{ID: model.CajaFuertePrincipalID}
	}
	cp := *r.cf
	return &cp, nil
}

func (r *memCajaFuerteRepo) Lock(ctx context.Context, tx *gorm.DB, _ uuid.UUID) (*model.CajaFuerte, error) {
	return r.Asegurar(ctx, tx)
}

func (r *memCajaFuerteRepo) UpdateSaldos(_ context.Context, _ *gorm.DB, cf *model.CajaFuerte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cf
	r.cf = &cp
	return nil
}

func (r *memCajaFuerteRepo) SumMovimientos(_ context.Context, _ *gorm.DB, _ uuid.UUID, metodo model.MetodoPago) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, m := range r.movs {
		if m.MetodoPago == metodo {
			total = total.Add(m.Delta())
		}
	}
	return total, nil
}

func (r *memCajaFuerteRepo) CreateMovimiento(_ context.Context, _ *gorm.DB, m *model.MovimientoCajaFuerte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	r.movs = append(r.movs, &cp)
	return nil
}

func (r *memCajaFuerteRepo) FindMovimiento(_ context.Context, id uuid.UUID) (*model.MovimientoCajaFuerte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movs {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCajaFuerteRepo) LockMovimiento(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.MovimientoCajaFuerte, error) {
	return r.FindMovimiento(ctx, id)
}

func (r *memCajaFuerteRepo) UpdateMovimiento(_ context.Context, _ *gorm.DB, m *model.MovimientoCajaFuerte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.movs {
		if x.ID == m.ID {
			cp := *m
			r.movs[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memCajaFuerteRepo) DeleteMovimiento(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.movs {
		if x.ID == id {
			r.movs = append(r.movs[:i], r.movs[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memCajaFuerteRepo) ExisteCierreCaja(_ context.Context, _ *gorm.DB, cajaID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movs {
		if m.Categoria == model.CategoriaCierreCaja && m.CajaID != nil && *m.CajaID == cajaID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCajaFuerteRepo) ListMovimientos(_ context.Context, filter dto.MovimientoCajaFuerteFilter) ([]model.MovimientoCajaFuerte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoCajaFuerte
	for i := len(r.movs) - 1; i >= 0; i-- {
		m := r.movs[i]
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		if filter.MetodoPago != "" && string(m.MetodoPago) != filter.MetodoPago {
			continue
		}
		out = append(out, *m)
	}
	if filter.Skip >= len(out) {
		return nil, nil
	}
	out = out[filter.Skip:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memCajaFuerteRepo) Inventario(_ context.Context, _ *gorm.DB, _ uuid.UUID) ([]model.InventarioEfectivo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.InventarioEfectivo, 0, len(r.inventario))
	for _, f := range r.inventario {
		out = append(out, f)
	}
	return out, nil
}

func (r *memCajaFuerteRepo) GuardarInventario(_ context.Context, _ *gorm.DB, filas []model.InventarioEfectivo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range filas {
		r.inventario[f.Denominacion] = f
	}
	return nil
}

func (r *memCajaFuerteRepo) saldos() model.Acumulado {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cf == nil {
		return model.Acumulado{}
	}
	return r.cf.Saldos
}

func (r *memCajaFuerteRepo) conteo() map[int64]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]int64)
	for d, f := range r.inventario {
		if f.Cantidad != 0 {
			out[d] = f.Cantidad
		}
	}
	return out
}

func (r *memCajaFuerteRepo) movimientos() []model.MovimientoCajaFuerte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.MovimientoCajaFuerte, len(r.movs))
	for i, m := range r.movs {
		out[i] = *m
	}
	return out
}

var _ repository.CajaFuerteRepository = (*memCajaFuerteRepo)(nil)

// ── Auditoría ────────────────────────────────────────────────────────────────

type memAuditoriaRepo struct {
	mu      sync.Mutex
	entries []model.Auditoria
}

func (r *memAuditoriaRepo) Create(_ context.Context, _ *gorm.DB, a *model.Auditoria) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *a)
	return nil
}

func (r *memAuditoriaRepo) ListByEntidad(_ context.Context, entidad string, id uuid.UUID) ([]model.Auditoria, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Auditoria
	for _, a := range r.entries {
		if a.Entidad == entidad && a.EntidadID == id {
			out = append(out, a)
		}
	}
	return out, nil
}

var _ repository.AuditoriaRepository = (*memAuditoriaRepo)(nil)

// ── Locks and queues ─────────────────────────────────────────────────────────

// mutexLocker serializes callers per key, like the redis lock does across instances.
type mutexLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMutexLocker() *mutexLocker { return &mutexLocker{locks: make(map[string]*sync.Mutex)} }

func (l *mutexLocker) Bloquear(_ context.Context, clave string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[clave]
	if !ok {
		m = &sync.Mutex{}
		l.locks[clave] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

type lockerOcupado struct{ err error }

func (l lockerOcupado) Bloquear(context.Context, string) (func(), error) { return nil, l.err }

type encoladorFake struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (e *encoladorFake) EnqueueRecibo(_ context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = append(e.ids, id)
	return nil
}

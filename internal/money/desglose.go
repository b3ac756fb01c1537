package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Item is the count of one face value inside a cash breakdown.
type Item struct {
	Denominacion int64 `json:"denominacion"`
	Cantidad     int64 `json:"cantidad"`
}

func (i Item) Subtotal() decimal.Decimal {
	return decimal.NewFromInt(i.Denominacion).Mul(decimal.NewFromInt(i.Cantidad))
}

// Desglose is the declared count of each banknote/coin composing a cash amount.
// It is persisted as a JSON array and validated against the denomination set
// before it reaches the inventory.
type Desglose []Item

// Validar rejects empty breakdowns, unknown or repeated denominations and negative counts.
func (d Desglose) Validar() error {
	if len(d) == 0 {
		return ErrDesgloseVacio
	}
	vistos := make(map[int64]struct{}, len(d))
	for _, it := range d {
		if !EsDenominacionValida(it.Denominacion) {
			return fmt.Errorf("%w: %d", ErrDenominacionInvalida, it.Denominacion)
		}
		if _, ok := vistos[it.Denominacion]; ok {
			return fmt.Errorf("%w: %d", ErrDenominacionDuplicada, it.Denominacion)
		}
		if it.Cantidad < 0 {
			return fmt.Errorf("%w: %d x %d", ErrCantidadNegativa, it.Cantidad, it.Denominacion)
		}
		vistos[it.Denominacion] = struct{}{}
	}
	return nil
}

// Total is the value-weighted sum of the breakdown.
func (d Desglose) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Cuadra validates d and requires its total to equal monto exactly.
func (d Desglose) Cuadra(monto decimal.Decimal) error {
	if err := d.Validar(); err != nil {
		return err
	}
	if total := d.Total(); !total.Equal(monto) {
		return fmt.Errorf("%w: declarado %s, monto %s", ErrDesgloseNoCuadra, Formatear(total), Formatear(monto))
	}
	return nil
}

// Normalizado returns a copy ordered largest denomination first, without zero-count lines.
func (d Desglose) Normalizado() Desglose {
	out := make(Desglose, 0, len(d))
	for _, it := range d {
		if it.Cantidad != 0 {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Denominacion > out[j].Denominacion })
	return out
}

// Descomponer splits a whole-peso amount over the denomination set, largest bills first.
// The set is canonical, so the greedy split always uses the fewest pieces.
func Descomponer(monto decimal.Decimal) (Desglose, error) {
	if monto.IsNegative() {
		return nil, ErrCantidadNegativa
	}
	if !monto.Equal(monto.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s tiene centavos", ErrDesgloseNoCuadra, Formatear(monto))
	}
	resto := monto.IntPart()
	var out Desglose
	for _, den := range denominaciones {
		if n := resto / den; n > 0 {
			out = append(out, Item{Denominacion: den, Cantidad: n})
			resto -= n * den
		}
	}
	if resto != 0 {
		return nil, fmt.Errorf("%w: %s no se puede expresar en billetes y monedas", ErrDesgloseNoCuadra, Formatear(monto))
	}
	return out, nil
}

// Value stores the breakdown as JSON; an empty breakdown is NULL.
func (d Desglose) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]Item(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *Desglose) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("money: tipo no soportado para Desglose: %T", src)
	}
	if len(raw) == 0 {
		*d = nil
		return nil
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	*d = items
	return nil
}

// Package stock implementa el motor de ajuste de stock de las ventas: dado un
// snapshot de contadores (cartones, unidades sueltas) y una cantidad vendida,
// calcula los nuevos contadores o rechaza la venta. Es una función pura sin
// efectos secundarios; el caller es responsable del bloqueo de fila y de la
// persistencia.
package stock

import (
	"fmt"

	"github.com/tu-usuario/farmacia-pos/internal/domain"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
)

// Counters es el par de contadores de stock de un medicamento.
type Counters struct {
	Cartons int // cartones completos
	Units   int // unidades sueltas fuera de cartón
}

// Total devuelve el stock total en unidades para un factor de conversión dado.
func (c Counters) Total(unitsPerCarton int) int {
	return c.Cartons*unitsPerCarton + c.Units
}

// Adjust calcula los contadores resultantes de vender `quantity` en modo
// `saleType` (unit | carton) sobre los contadores actuales.
//
// Reglas:
//   - Venta por cartón: resta cartones y también el equivalente en unidades
//     sueltas; si las sueltas quedan negativas se ajustan a cero (los
//     contadores estaban inconsistentes y esas unidades se pierden).
//   - Venta por unidad: consume primero las sueltas; si no alcanzan, abre los
//     cartones necesarios (redondeo hacia arriba) y deja el sobrante como
//     unidades sueltas.
//
// Errores: domain.ErrInsufficientStock si el total disponible no cubre lo
// pedido; domain.ErrInsufficientCartons si no hay cartones para abrir.
// En caso de error los contadores devueltos son los de entrada, sin cambios.
func Adjust(c Counters, unitsPerCarton, quantity int, saleType string) (Counters, error) {
	if quantity <= 0 {
		return c, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if unitsPerCarton < 1 {
		unitsPerCarton = 1
	}

	required := quantity
	if saleType == entity.SaleTypeCarton {
		required = quantity * unitsPerCarton
	}
	before := c.Total(unitsPerCarton)
	if before < required {
		return c, fmt.Errorf("%w: disponibles %d unidades, solicitadas %d",
			domain.ErrInsufficientStock, before, required)
	}

	switch saleType {
	case entity.SaleTypeCarton:
		c.Cartons -= quantity
		c.Units -= quantity * unitsPerCarton
		if c.Units < 0 {
			c.Units = 0
		}
	case entity.SaleTypeUnit:
		if c.Units >= quantity {
			c.Units -= quantity
			break
		}
		needed := quantity - c.Units
		cartonsToBreak := (needed + unitsPerCarton - 1) / unitsPerCarton
		if c.Cartons < cartonsToBreak {
			return c, fmt.Errorf("%w: cartones disponibles %d, requeridos %d",
				domain.ErrInsufficientCartons, c.Cartons, cartonsToBreak)
		}
		c.Cartons -= cartonsToBreak
		c.Units = cartonsToBreak*unitsPerCarton - needed
	default:
		return c, fmt.Errorf("%w: tipo de venta desconocido %q", domain.ErrInvalidInput, saleType)
	}

	return c, nil
}

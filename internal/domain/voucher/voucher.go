// Package voucher genera los números de voucher secuenciales de las ventas.
// Formato: SLS-YYYYMMDD-NNNN, con la secuencia reiniciada cada día calendario.
// La lectura del último voucher del día debe ocurrir dentro de la misma
// transacción que inserta la venta; el índice único sobre voucher_number es el
// respaldo final ante carreras.
package voucher

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const seqDigits = 4

// Prefix devuelve el prefijo del día: "SLS-YYYYMMDD".
func Prefix(t time.Time) string {
	return "SLS-" + t.Format("20060102")
}

// Format arma el voucher completo para una fecha y secuencia.
func Format(t time.Time, seq int) string {
	return fmt.Sprintf("%s-%0*d", Prefix(t), seqDigits, seq)
}

// NextSequence devuelve la secuencia siguiente al último voucher del día.
// Con último voucher vacío (primer voucher del día) o con sufijo no numérico
// devuelve 1.
func NextSequence(lastVoucher string) int {
	if lastVoucher == "" {
		return 1
	}
	parts := strings.Split(lastVoucher, "-")
	last, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 1
	}
	return last + 1
}

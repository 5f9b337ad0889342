// Package pdf implementa la generación del voucher imprimible de una venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Farmacia + N° Voucher + Fecha                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Teléfono / TIN                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Medicamento | Lote | Tipo | P.Unit | Total   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / TOTAL                      │
//	│  FOOTER: Método de pago + leyenda                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/farmacia-pos/internal/application/sales"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa sales.VoucherPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ sales.VoucherPDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateVoucherPDF genera el PDF del voucher y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateVoucherPDF(
	_ context.Context,
	sale *entity.Sale,
	items []sales.VoucherLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(12).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRows(sale)...)
	m.AddRows(separator())
	m.AddRows(customerRows(sale)...)
	m.AddRows(separator())
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(items)...)
	m.AddRows(separator())
	m.AddRows(totalsRows(sale)...)
	m.AddRows(footerRows(sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generando voucher %s: %w", sale.VoucherNumber, err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRows(sale *entity.Sale) []core.Row {
	return []core.Row{
		row.New(10).Add(
			col.New(7).Add(
				text.New("FARMACIA", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Color: colorPrimary,
				}),
			),
			col.New(5).Add(
				text.New(sale.VoucherNumber, props.Text{
					Size:  12,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: colorPrimary,
				}),
			),
		),
		row.New(6).Add(
			col.New(7).Add(
				text.New("Comprobante de venta", props.Text{
					Size:  9,
					Color: colorGray,
				}),
			),
			col.New(5).Add(
				text.New("Fecha: "+sale.SaleDate.Format("2006-01-02 15:04"), props.Text{
					Size:  9,
					Align: align.Right,
					Color: colorGray,
				}),
			),
		),
	}
}

func customerRows(sale *entity.Sale) []core.Row {
	rows := []core.Row{
		row.New(6).Add(
			col.New(12).Add(
				text.New("CLIENTE", props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Color: colorPrimary,
				}),
			),
		),
		row.New(5).Add(
			col.New(12).Add(
				text.New(nonEmpty(sale.CustomerName, "Consumidor final"), props.Text{Size: 9}),
			),
		),
	}
	if sale.CustomerPhone != "" || sale.TINNumber != "" {
		detail := ""
		if sale.CustomerPhone != "" {
			detail = "Tel: " + sale.CustomerPhone
		}
		if sale.TINNumber != "" {
			if detail != "" {
				detail += "  ·  "
			}
			detail += "TIN: " + sale.TINNumber
		}
		rows = append(rows, row.New(5).Add(
			col.New(12).Add(
				text.New(detail, props.Text{Size: 8, Color: colorGray}),
			),
		))
	}
	return rows
}

func tableHeaderRow() core.Row {
	header := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Color: colorWhite,
		Align: align.Center,
	}
	return row.New(7).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		col.New(1).Add(text.New("Cant", header)),
		col.New(4).Add(text.New("Medicamento", header)),
		col.New(2).Add(text.New("Lote", header)),
		col.New(1).Add(text.New("Tipo", header)),
		col.New(2).Add(text.New("P. Unit", header)),
		col.New(2).Add(text.New("Total", header)),
	)
}

func tableDetailRows(items []sales.VoucherLine) []core.Row {
	cell := props.Text{Size: 8}
	right := props.Text{Size: 8, Align: align.Right}
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center})),
			col.New(4).Add(text.New(it.MedicineName, cell)),
			col.New(2).Add(text.New(it.BatchNo, cell)),
			col.New(1).Add(text.New(saleTypeLabel(it.SaleType), cell)),
			col.New(2).Add(text.New(it.Price, right)),
			col.New(2).Add(text.New(it.Total, right)),
		))
	}
	return rows
}

func totalsRows(sale *entity.Sale) []core.Row {
	label := props.Text{Size: 9, Align: align.Right, Color: colorGray}
	value := props.Text{Size: 9, Align: align.Right}
	rows := []core.Row{
		row.New(5).Add(
			col.New(8).Add(text.New("Subtotal", label)),
			col.New(4).Add(text.New(formatMoney(sale.BasePrice), value)),
		),
	}
	if sale.DiscountPct.IsPositive() {
		rows = append(rows, row.New(5).Add(
			col.New(8).Add(text.New(fmt.Sprintf("Descuento (%s%%)", sale.DiscountPct.String()), label)),
			col.New(4).Add(text.New("-"+formatMoney(sale.DiscountedAmount), value)),
		))
	}
	rows = append(rows, row.New(8).Add(
		col.New(8).Add(text.New("TOTAL", props.Text{
			Size:  11,
			Style: fontstyle.Bold,
			Align: align.Right,
			Color: colorPrimary,
		})),
		col.New(4).Add(text.New(formatMoney(sale.TotalAmount), props.Text{
			Size:  11,
			Style: fontstyle.Bold,
			Align: align.Right,
			Color: colorPrimary,
		})),
	))
	return rows
}

func footerRows(sale *entity.Sale) []core.Row {
	return []core.Row{
		separator(),
		row.New(5).Add(
			col.New(12).Add(
				text.New("Método de pago: "+paymentLabel(sale.PaymentMethod), props.Text{
					Size:  8,
					Color: colorGray,
				}),
			),
		),
		row.New(5).Add(
			col.New(12).Add(
				text.New("Gracias por su compra. Conserve este comprobante.", props.Text{
					Size:  8,
					Align: align.Center,
					Color: colorGray,
				}),
			),
		),
	}
}

func separator() core.Row {
	return row.New(3).Add(
		col.New(12).Add(line.New(props.Line{Color: colorGray, Thickness: 0.3})),
	)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func saleTypeLabel(saleType string) string {
	switch saleType {
	case entity.SaleTypeCarton:
		return "Cartón"
	case entity.SaleTypeUnit:
		return "Unidad"
	default:
		return saleType
	}
}

func paymentLabel(method string) string {
	switch method {
	case entity.PaymentMethodCash:
		return "Efectivo"
	case entity.PaymentMethodTransfer:
		return "Transferencia"
	default:
		return method
	}
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func formatMoney(d decimal.Decimal) string {
	return "$ " + d.StringFixed(2)
}

package inventory

import (
	"context"
	"fmt"
)

// ReportFormat formato de exportación del listado.
type ReportFormat string

const (
	ReportPDF  ReportFormat = "pdf"
	ReportXLSX ReportFormat = "xlsx"
)

// Report documento generado listo para descargar.
type Report struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ReportUseCase exporta el listado valorizado en PDF o XLSX.
type ReportUseCase struct {
	query      *StockQueryUseCase
	generators map[ReportFormat]StockReportGenerator
}

// NewReportUseCase construye el caso de uso con los generadores disponibles.
func NewReportUseCase(query *StockQueryUseCase, pdf, xlsx StockReportGenerator) *ReportUseCase {
	gens := map[ReportFormat]StockReportGenerator{}
	if pdf != nil {
		gens[ReportPDF] = pdf
	}
	if xlsx != nil {
		gens[ReportXLSX] = xlsx
	}
	return &ReportUseCase{query: query, generators: gens}
}

// Generate arma el listado actual y lo serializa en el formato pedido.
func (uc *ReportUseCase) Generate(ctx context.Context, format ReportFormat) (*Report, error) {
	gen, ok := uc.generators[format]
	if !ok {
		return nil, fmt.Errorf("report: formato no soportado: %q", format)
	}
	listing, err := uc.query.ListStock(ctx)
	if err != nil {
		return nil, err
	}
	data, err := gen.Generate(ctx, listing)
	if err != nil {
		return nil, fmt.Errorf("report: generar %s: %w", format, err)
	}
	return &Report{
		Data:        data,
		ContentType: contentType(format),
		Filename:    fmt.Sprintf("stock-%s.%s", listing.GeneratedAt.Format("20060102-1504"), format),
	}, nil
}

func contentType(f ReportFormat) string {
	switch f {
	case ReportPDF:
		return "application/pdf"
	case ReportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

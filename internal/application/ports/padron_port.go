package ports

import "context"

// Taxpayer datos de un contribuyente según el padrón de AFIP.
type Taxpayer struct {
	CUIT        string
	RazonSocial string
	CondFiscal  string
	Domicilio   string
}

// PadronService consulta el padrón de contribuyentes. Devuelve (nil, nil) si la CUIT no está inscripta.
type PadronService interface {
	GetTaxpayer(ctx context.Context, cuit string) (*Taxpayer, error)
}

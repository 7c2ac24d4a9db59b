// Package afip consulta el padrón de contribuyentes de AFIP a través de un servicio HTTP.
package afip

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/epublit/epublit-api/internal/application/ports"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/pkg/config"
)

var _ ports.PadronService = (*PadronClient)(nil)

// PadronClient implementa ports.PadronService con resty.
// GET <base>/padron/<cuit> responde el contribuyente o 404 si no está inscripto.
type PadronClient struct {
	http *resty.Client
}

// NewPadronClient arma el cliente desde la configuración de AFIP.
func NewPadronClient(cfg config.AFIPConfig) *PadronClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.PadronURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &PadronClient{http: c}
}

type taxpayerPayload struct {
	RazonSocial string `json:"razon_social"`
	CondFiscal  string `json:"cond_fiscal"`
	Domicilio   string `json:"domicilio"`
}

type apiError struct {
	Message string `json:"message"`
}

// GetTaxpayer devuelve nil, nil cuando la CUIT no figura en el padrón.
// Fallas de red y 5xx se informan como transitorias.
func (c *PadronClient) GetTaxpayer(ctx context.Context, cuit string) (*ports.Taxpayer, error) {
	result := new(taxpayerPayload)
	apiErr := new(apiError)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("cuit", cuit).
		SetResult(result).
		SetError(apiErr).
		Get("/padron/{cuit}")
	if err != nil {
		return nil, &domain.TransientError{Err: fmt.Errorf("afip: consultar padrón: %w", err)}
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return nil, nil
	case code >= http.StatusInternalServerError:
		return nil, &domain.TransientError{Err: fmt.Errorf("afip: padrón respondió %d: %s", code, apiErr.Message)}
	case code >= http.StatusBadRequest:
		return nil, fmt.Errorf("afip: padrón respondió %d: %s", code, apiErr.Message)
	}

	return &ports.Taxpayer{
		CUIT:        cuit,
		RazonSocial: result.RazonSocial,
		CondFiscal:  result.CondFiscal,
		Domicilio:   result.Domicilio,
	}, nil
}

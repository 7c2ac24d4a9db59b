package dto

// CreateClientRequest body para POST /clientes.
type CreateClientRequest struct {
	Nombre     string `json:"nombre" validate:"required,max=255"`
	CUIT       string `json:"cuit" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	CondFiscal string `json:"cond_fiscal"`
	Tipo       string `json:"tipo" validate:"omitempty,oneof=inscripto particular"`
	Domicilio  string `json:"domicilio"`
}

// ClientResponse cliente.
type ClientResponse struct {
	ID         int64  `json:"id"`
	Nombre     string `json:"nombre"`
	CUIT       string `json:"cuit"`
	Email      string `json:"email,omitempty"`
	CondFiscal string `json:"cond_fiscal,omitempty"`
	Tipo       string `json:"tipo"`
	Domicilio  string `json:"domicilio,omitempty"`
}

// ClientStockResponse stock en consignación de un cliente para un libro.
type ClientStockResponse struct {
	ISBN   string `json:"isbn"`
	Titulo string `json:"titulo"`
	Stock  int    `json:"stock"`
}

package dto

// BookQuantity un ISBN con su cantidad, en el orden en que se pide.
type BookQuantity struct {
	ISBN     string `json:"isbn" validate:"required"`
	Cantidad int    `json:"cantidad" validate:"required,gt=0"`
}

// CreateConsignmentRequest body para POST /consignaciones.
type CreateConsignmentRequest struct {
	IDCliente int64          `json:"cliente" validate:"required,gt=0"`
	Libros    []BookQuantity `json:"libros" validate:"required,min=1,dive"`
}

// ConsignmentLineResponse libro consignado.
type ConsignmentLineResponse struct {
	ISBN         string            `json:"isbn"`
	Titulo       string            `json:"titulo"`
	Cantidad     int               `json:"cantidad"`
	Autores      []PersonaResponse `json:"autores,omitempty"`
	Ilustradores []PersonaResponse `json:"ilustradores,omitempty"`
}

// ConsignmentResponse consignación con sus libros. RemitoPath es la URL pública.
type ConsignmentResponse struct {
	ID         int64                     `json:"id"`
	Fecha      string                    `json:"fecha"`
	IDCliente  int64                     `json:"id_cliente"`
	RemitoPath string                    `json:"remito_path"`
	Libros     []ConsignmentLineResponse `json:"libros"`
}

// ConsignmentSummaryResponse fila del listado GET /consignaciones.
type ConsignmentSummaryResponse struct {
	ID            int64  `json:"id"`
	Fecha         string `json:"fecha"`
	RemitoPath    string `json:"remito_path"`
	IDCliente     int64  `json:"id_cliente"`
	NombreCliente string `json:"nombre_cliente"`
	CUIT          string `json:"cuit"`
	Email         string `json:"email,omitempty"`
	CondFiscal    string `json:"cond_fiscal,omitempty"`
	Tipo          string `json:"tipo"`
}

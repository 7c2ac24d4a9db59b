package entity

// Roles de una persona respecto de un libro.
const (
	RoleAutor      = "autor"
	RoleIlustrador = "ilustrador"
)

// Persona es un autor o ilustrador registrado por la editorial.
type Persona struct {
	ID     int64
	UserID int64
	Name   string
	Email  string
	DNI    string
}

// BookPersona asocia una persona a un libro con un rol.
type BookPersona struct {
	Persona
	ISBN string
	Role string
}

// SplitByRole separa autores e ilustradores conservando el orden.
func SplitByRole(list []BookPersona) (autores, ilustradores []Persona) {
	for _, bp := range list {
		switch bp.Role {
		case RoleAutor:
			autores = append(autores, bp.Persona)
		case RoleIlustrador:
			ilustradores = append(ilustradores, bp.Persona)
		}
	}
	return autores, ilustradores
}

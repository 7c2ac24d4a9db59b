package entity

import "time"

// User es la editorial usuaria del sistema; todos los datos de negocio le pertenecen.
// Los datos fiscales se completan desde el padrón de AFIP al registrarse.
type User struct {
	ID           int64
	Username     string
	Email        string
	CUIT         string
	PasswordHash string // bcrypt, nunca plano
	RazonSocial  string
	CondFiscal   string
	Domicilio    string
	CreatedAt    time.Time
}

// Package files resuelve las rutas públicas de los documentos generados
// (remitos y liquidaciones) y arma nombres de archivo seguros.
package files

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Carpetas por entidad dentro del almacenamiento de archivos.
const (
	FolderRemitos       = "remitos"
	FolderLiquidaciones = "liquidaciones"
)

// PublicURL reescribe un nombre relativo como <baseURL>/<folder>/<name>.
// Un nombre vacío se devuelve tal cual. Se aplica sólo al leer; en la base se guarda el nombre relativo.
func PublicURL(baseURL, folder, name string) string {
	if name == "" {
		return name
	}
	base := strings.TrimRight(baseURL, "/")
	folder = strings.Trim(folder, "/")
	name = strings.TrimLeft(name, "/")
	if folder == "" {
		return base + "/" + name
	}
	return base + "/" + folder + "/" + name
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug normaliza s a minúsculas ASCII separadas por guiones ("Librería Ñandú" -> "libreria-nandu").
func Slug(s string) string {
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// MaxSlugLen acota la parte legible del nombre de un documento; el resto del nombre
// (prefijo, sufijo aleatorio y extensión) entra holgado en VARCHAR(255).
const MaxSlugLen = 40

// ArtifactName arma un nombre de documento único: "<prefix>-<slug(owner)>-<8 hex>.pdf".
// El slug se corta a MaxSlugLen caracteres.
func ArtifactName(prefix, owner string) string {
	slug := Slug(owner)
	if len(slug) > MaxSlugLen {
		slug = strings.TrimRight(slug[:MaxSlugLen], "-")
	}
	if slug == "" {
		slug = "sin-nombre"
	}
	return prefix + "-" + slug + "-" + uuid.NewString()[:8] + ".pdf"
}

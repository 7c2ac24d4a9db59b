package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublit/epublit-api/internal/domain/entity"
)

func mustPeriod(t *testing.T, start, end string) entity.Period {
	t.Helper()
	p, err := entity.ParsePeriod(start, end)
	require.NoError(t, err)
	return p
}

func TestPeriod_Overlaps(t *testing.T) {
	enero := mustPeriod(t, "2025-01-01", "2025-01-31")

	tests := []struct {
		name  string
		other entity.Period
		want  bool
	}{
		{"solapa a mitad de mes", mustPeriod(t, "2025-01-15", "2025-02-15"), true},
		{"contiguo posterior", mustPeriod(t, "2025-02-01", "2025-02-28"), false},
		{"contiguo anterior", mustPeriod(t, "2024-12-01", "2024-12-31"), false},
		{"comparte el último día", mustPeriod(t, "2025-01-31", "2025-02-10"), true},
		{"comparte el primer día", mustPeriod(t, "2024-12-20", "2025-01-01"), true},
		{"contenido", mustPeriod(t, "2025-01-10", "2025-01-12"), true},
		{"contiene", mustPeriod(t, "2024-12-01", "2025-03-01"), true},
		{"un solo día igual", mustPeriod(t, "2025-01-01", "2025-01-01"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, enero.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(enero), "la relación es simétrica")
		})
	}
}

func TestParsePeriod_Invalido(t *testing.T) {
	_, err := entity.ParsePeriod("2025-02-01", "2025-01-01")
	assert.Error(t, err)

	_, err = entity.ParsePeriod("01/02/2025", "2025-03-01")
	assert.Error(t, err)
}

func TestPeriod_Contains(t *testing.T) {
	p := mustPeriod(t, "2025-01-01", "2025-01-31")
	assert.True(t, p.Contains(time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSplitByRole(t *testing.T) {
	list := []entity.BookPersona{
		{Persona: entity.Persona{ID: 1, Name: "Ana"}, Role: entity.RoleAutor},
		{Persona: entity.Persona{ID: 2, Name: "Beto"}, Role: entity.RoleIlustrador},
		{Persona: entity.Persona{ID: 3, Name: "Ceci"}, Role: entity.RoleAutor},
	}
	autores, ilustradores := entity.SplitByRole(list)
	require.Len(t, autores, 2)
	require.Len(t, ilustradores, 1)
	assert.Equal(t, "Ceci", autores[1].Name)
	assert.Equal(t, "Beto", ilustradores[0].Name)
}

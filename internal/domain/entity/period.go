package entity

import (
	"fmt"
	"time"
)

// DateLayout formato de fechas de los períodos (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Period es un intervalo de fechas con ambos extremos incluidos.
type Period struct {
	Start time.Time
	End   time.Time
}

// ParsePeriod construye un período desde fechas YYYY-MM-DD. start debe ser <= end.
func ParsePeriod(start, end string) (Period, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Period{}, fmt.Errorf("fecha_inicial inválida: %q", start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Period{}, fmt.Errorf("fecha_final inválida: %q", end)
	}
	if e.Before(s) {
		return Period{}, fmt.Errorf("la fecha_final (%s) es anterior a la fecha_inicial (%s)", end, start)
	}
	return Period{Start: s, End: e}, nil
}

// Overlaps reporta si p y o comparten al menos un día: p.Start <= o.End && p.End >= o.Start.
func (p Period) Overlaps(o Period) bool {
	return !p.Start.After(o.End) && !p.End.Before(o.Start)
}

// Contains reporta si el día de t cae dentro del período.
func (p Period) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string {
	return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
}

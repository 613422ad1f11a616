// Package storage persists report records behind a single contract with two
// interchangeable backings: a relational table (SQLite or PostgreSQL through
// GORM) and a JSON file rewritten whole on every mutation.
package storage

import (
	"errors"
	"fmt"

	"qatrack/database/model"
)

var (
	// ErrNotFound is returned when no record carries the given identifier.
	ErrNotFound = errors.New("reporte no encontrado")
	// ErrValidation is returned when a required field is missing or empty,
	// or estado is not one of its allowed values. Nothing is persisted.
	ErrValidation = errors.New("campos obligatorios faltantes")
)

// Store is the report persistence contract. List is newest first. Create
// applies field defaults and assigns the identifier. Patch keeps prior values
// for fields the caller did not supply. Identifiers travel as opaque path
// strings; an unparseable id behaves like an unknown one.
type Store interface {
	List() ([]model.Report, error)
	Get(id string) (*model.Report, error)
	Create(f Fields) (*model.Report, error)
	Patch(id string, p Patch) (*model.Report, error)
	Delete(id string) error
}

// Fields is a creation payload. Resultado and Estado are optional.
type Fields struct {
	Reporte   string
	Fecha     string
	Solicitud string
	Proyecto  string
	Resultado string
	Estado    string
	UserId    int64
}

// Patch is a partial update. Nil pointers keep the prior value.
type Patch struct {
	Reporte   *string
	Fecha     *string
	Solicitud *string
	Proyecto  *string
	Resultado *string
	Estado    *string
}

func (f Fields) validate() error {
	for _, req := range []struct{ name, val string }{
		{"reporte", f.Reporte},
		{"fecha", f.Fecha},
		{"solicitud", f.Solicitud},
		{"proyecto", f.Proyecto},
	} {
		if req.val == "" {
			return fmt.Errorf("%w: %s", ErrValidation, req.name)
		}
	}
	if f.Estado != "" && !model.ValidEstado(f.Estado) {
		return fmt.Errorf("%w: estado", ErrValidation)
	}
	return nil
}

// newReport builds the record for a validated creation payload.
func (f Fields) newReport() model.Report {
	estado := f.Estado
	if estado == "" {
		estado = model.EstadoPendiente
	}
	return model.Report{
		Reporte:   f.Reporte,
		Fecha:     f.Fecha,
		Solicitud: f.Solicitud,
		Proyecto:  f.Proyecto,
		Resultado: f.Resultado,
		Estado:    estado,
		UserId:    f.UserId,
	}
}

// apply merges the patch into r, COALESCE-style, and validates the result.
// r is untouched when the merge fails validation.
func (p Patch) apply(r model.Report) (model.Report, error) {
	merged := r
	if p.Reporte != nil {
		merged.Reporte = *p.Reporte
	}
	if p.Fecha != nil {
		merged.Fecha = *p.Fecha
	}
	if p.Solicitud != nil {
		merged.Solicitud = *p.Solicitud
	}
	if p.Proyecto != nil {
		merged.Proyecto = *p.Proyecto
	}
	if p.Resultado != nil {
		merged.Resultado = *p.Resultado
	}
	if p.Estado != nil {
		merged.Estado = *p.Estado
	}
	err := Fields{
		Reporte:   merged.Reporte,
		Fecha:     merged.Fecha,
		Solicitud: merged.Solicitud,
		Proyecto:  merged.Proyecto,
		Estado:    merged.Estado,
	}.validate()
	if err != nil {
		return model.Report{}, err
	}
	if merged.Estado == "" {
		merged.Estado = model.EstadoPendiente
	}
	return merged, nil
}

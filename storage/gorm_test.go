package storage

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qatrack/database"
	"qatrack/database/model"
)

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newTestGormStore(t *testing.T) *GormStore {
	t.Helper()
	err := database.InitTestDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB() })
	return NewGormStore(database.GetDB())
}

func TestGormStoreCreateAppliesDefaults(t *testing.T) {
	store := newTestGormStore(t)

	r, err := store.Create(Fields{
		Reporte:   "Bug1",
		Fecha:     "2024-01-01",
		Solicitud: "Req1",
		Proyecto:  "ProjX",
	})
	require.NoError(t, err)

	assert.NotZero(t, r.Id)
	assert.Equal(t, "Bug1", r.Reporte)
	assert.Equal(t, "2024-01-01", r.Fecha)
	assert.Equal(t, "Req1", r.Solicitud)
	assert.Equal(t, "ProjX", r.Proyecto)
	assert.Equal(t, "", r.Resultado)
	assert.Equal(t, model.EstadoPendiente, r.Estado)
}

func TestGormStoreCreateRejectsMissingFields(t *testing.T) {
	store := newTestGormStore(t)

	cases := []Fields{
		{Fecha: "2024-01-01", Solicitud: "Req1", Proyecto: "ProjX"},
		{Reporte: "Bug1", Solicitud: "Req1", Proyecto: "ProjX"},
		{Reporte: "Bug1", Fecha: "2024-01-01", Proyecto: "ProjX"},
		{Reporte: "Bug1", Fecha: "2024-01-01", Solicitud: "Req1"},
		{Reporte: "Bug1", Fecha: "2024-01-01", Solicitud: "Req1", Proyecto: "ProjX", Estado: "Cerrado"},
	}
	for _, f := range cases {
		_, err := store.Create(f)
		assert.ErrorIs(t, err, ErrValidation)
	}

	reports, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestGormStoreListNewestFirst(t *testing.T) {
	store := newTestGormStore(t)

	for _, name := range []string{"uno", "dos", "tres"} {
		_, err := store.Create(Fields{Reporte: name, Fecha: "2024-01-01", Solicitud: "s", Proyecto: "p"})
		require.NoError(t, err)
	}

	reports, err := store.List()
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "tres", reports[0].Reporte)
	assert.Equal(t, "uno", reports[2].Reporte)
	assert.Greater(t, reports[0].Id, reports[1].Id)
}

func TestGormStorePatchKeepsOmittedFields(t *testing.T) {
	store := newTestGormStore(t)

	created, err := store.Create(Fields{Reporte: "Bug1", Fecha: "2024-01-01", Solicitud: "Req1", Proyecto: "ProjX"})
	require.NoError(t, err)

	estado := model.EstadoResuelto
	id := idString(created.Id)
	updated, err := store.Patch(id, Patch{Estado: &estado})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoResuelto, updated.Estado)
	assert.Equal(t, "Bug1", updated.Reporte)
	assert.Equal(t, "2024-01-01", updated.Fecha)

	fetched, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoResuelto, fetched.Estado)
	assert.Equal(t, "Req1", fetched.Solicitud)
	assert.Equal(t, "ProjX", fetched.Proyecto)
}

func TestGormStorePatchValidation(t *testing.T) {
	store := newTestGormStore(t)

	created, err := store.Create(Fields{Reporte: "Bug1", Fecha: "2024-01-01", Solicitud: "Req1", Proyecto: "ProjX"})
	require.NoError(t, err)
	id := idString(created.Id)

	empty := ""
	_, err = store.Patch(id, Patch{Reporte: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	bad := "Cerrado"
	_, err = store.Patch(id, Patch{Estado: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	fetched, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Bug1", fetched.Reporte)
	assert.Equal(t, model.EstadoPendiente, fetched.Estado)
}

func TestGormStorePatchNotFound(t *testing.T) {
	store := newTestGormStore(t)

	estado := model.EstadoReportado
	_, err := store.Patch("999", Patch{Estado: &estado})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Patch("abc", Patch{Estado: &estado})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreDelete(t *testing.T) {
	store := newTestGormStore(t)

	created, err := store.Create(Fields{Reporte: "Bug1", Fecha: "2024-01-01", Solicitud: "Req1", Proyecto: "ProjX"})
	require.NoError(t, err)
	id := idString(created.Id)

	assert.ErrorIs(t, store.Delete("999"), ErrNotFound)

	require.NoError(t, store.Delete(id))
	_, err = store.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Second delete is not-found, not success.
	assert.ErrorIs(t, store.Delete(id), ErrNotFound)

	reports, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, reports)
}

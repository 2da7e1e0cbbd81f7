package localstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/beneficios-api/internal/application/verification"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/localstore"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/memory"
)

func pending(rutValue, nombre string) entity.BenefitRecord {
	return entity.BenefitRecord{
		Rut: rutValue, Nombre: nombre, TipoContrato: entity.ContratoPlanta,
		Beneficio: "Caja Navidad", Estado: entity.EstadoPendiente,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Nómina
// ──────────────────────────────────────────────────────────────────────────────

func TestRoster_ClaveAusenteEsVacia(t *testing.T) {
	repo := localstore.NewRosterRepository(memory.NewKVStore(), "empleados")

	list, err := repo.LoadRoster(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRoster_GuardarYLeer(t *testing.T) {
	kv := memory.NewKVStore()
	repo := localstore.NewRosterRepository(kv, "empleados")
	ctx := context.Background()

	retirado := pending("16.234.567-8", "Luis")
	retirado.Estado = entity.EstadoRetirado
	retirado.FechaRetiro = "2024-12-18T10:30:00Z"
	in := []entity.BenefitRecord{pending("15.123.456-9", "Ana"), retirado}

	require.NoError(t, repo.SaveRoster(ctx, in))
	out, err := repo.LoadRoster(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	blob, err := kv.Get(ctx, "empleados")
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"tipoContrato":"Planta"`)
	assert.Contains(t, string(blob), `"fechaRetiro":"2024-12-18T10:30:00Z"`)
}

func TestRoster_LecturaNormalizaVariantes(t *testing.T) {
	kv := memory.NewKVStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "empleados", []byte(
		`[{"id":1,"nombre":"Ana","rut":"1-9","tipoContrato":"PlazoFijo","beneficio":"Caja"}]`)))

	list, err := localstore.NewRosterRepository(kv, "empleados").LoadRoster(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.ContratoPlazoFijo, list[0].TipoContrato)
	assert.Equal(t, entity.EstadoPendiente, list[0].Estado)
}

func TestRoster_DatosCorruptos(t *testing.T) {
	cases := map[string]string{
		"no json":              `{no`,
		"no es arreglo":        `{"rut":"1-9"}`,
		"retirado sin fecha":   `[{"nombre":"A","rut":"1-9","tipoContrato":"Planta","beneficio":"C","estado":"Retirado"}]`,
		"pendiente con fecha":  `[{"nombre":"A","rut":"1-9","tipoContrato":"Planta","beneficio":"C","estado":"Pendiente","fechaRetiro":"x"}]`,
		"estado desconocido":   `[{"nombre":"A","rut":"1-9","tipoContrato":"Planta","beneficio":"C","estado":"Perdido"}]`,
		"contrato desconocido": `[{"nombre":"A","rut":"1-9","tipoContrato":"Honorarios","beneficio":"C"}]`,
		"sin rut":              `[{"nombre":"A","tipoContrato":"Planta","beneficio":"C"}]`,
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			kv := memory.NewKVStore()
			require.NoError(t, kv.Set(context.Background(), "empleados", []byte(blob)))

			_, err := localstore.NewRosterRepository(kv, "empleados").LoadRoster(context.Background())
			assert.ErrorIs(t, err, domain.ErrCorruptData)
		})
	}
}

func TestRoster_GuardarRechazaInvalidosSinEscribir(t *testing.T) {
	kv := memory.NewKVStore()
	repo := localstore.NewRosterRepository(kv, "empleados")
	ctx := context.Background()

	bad := pending("16234567-8", "Luis")
	bad.Estado = entity.EstadoRetirado
	err := repo.SaveRoster(ctx, []entity.BenefitRecord{bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ok, err := kv.Exists(ctx, "empleados")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoster_RutRepetidoConservaElPrimero(t *testing.T) {
	repo := localstore.NewRosterRepository(memory.NewKVStore(), "empleados")
	ctx := context.Background()

	first := pending("16.234.567-8", "Luis")
	require.NoError(t, repo.SaveRoster(ctx, []entity.BenefitRecord{first, pending("162345678", "Otro"), pending("15.123.456-9", "Ana")}))

	list, err := repo.LoadRoster(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Luis", list[0].Nombre)
	assert.Equal(t, "Ana", list[1].Nombre)
}

func TestRoster_RutRepetidoNoBloqueaEntregas(t *testing.T) {
	kv := memory.NewKVStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "empleados", []byte(`[
		{"nombre":"Luis","rut":"16.234.567-8","tipoContrato":"Planta","beneficio":"Caja","estado":"Pendiente"},
		{"nombre":"Luis bis","rut":"16234567-8","tipoContrato":"Planta","beneficio":"Caja","estado":"Pendiente"},
		{"nombre":"Ana","rut":"15.123.456-9","tipoContrato":"Planta","beneficio":"Caja","estado":"Pendiente"}]`)))
	uc := verification.NewVerificationUseCase(localstore.NewRosterRepository(kv, "empleados"), nil, nil)

	delivery, err := uc.Confirm(ctx, "15123456-9")
	require.NoError(t, err)
	assert.True(t, delivery.Record.Retirado)

	delivery, err = uc.Confirm(ctx, "16234567-8")
	require.NoError(t, err)
	assert.Equal(t, "Luis", delivery.Record.Nombre)
}

func TestRoster_BeneficioVacioSeLeeYResuelve(t *testing.T) {
	kv := memory.NewKVStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "empleados", []byte(`[
		{"nombre":"Ana","rut":"15.123.456-9","tipoContrato":"Planta","beneficio":"","estado":"Pendiente"},
		{"nombre":"Luis","rut":"16.234.567-8","tipoContrato":"Planta","beneficio":"Caja","estado":"Pendiente"}]`)))
	uc := verification.NewVerificationUseCase(localstore.NewRosterRepository(kv, "empleados"), nil, nil)

	view, err := uc.Resolve(ctx, "16234567-8")
	require.NoError(t, err)
	assert.Equal(t, "Caja", view.Beneficio)

	view, err = uc.Resolve(ctx, "15123456-9")
	require.NoError(t, err)
	assert.Equal(t, "Beneficio asignado", view.Beneficio)

	delivery, err := uc.Confirm(ctx, "15123456-9")
	require.NoError(t, err)
	assert.True(t, delivery.Record.Retirado)

	list, err := localstore.NewRosterRepository(kv, "empleados").LoadRoster(ctx)
	require.NoError(t, err)
	assert.Empty(t, list[0].Beneficio)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardias
// ──────────────────────────────────────────────────────────────────────────────

func TestGuards_PresenciaDistingueVacioDeAusente(t *testing.T) {
	repo := localstore.NewGuardRepository(memory.NewKVStore(), "guardias")
	ctx := context.Background()

	present, err := repo.GuardsPresent(ctx)
	require.NoError(t, err)
	assert.False(t, present)

	require.NoError(t, repo.SaveGuards(ctx, []entity.GuardAccount{}))
	present, err = repo.GuardsPresent(ctx)
	require.NoError(t, err)
	assert.True(t, present)

	list, err := repo.LoadGuards(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGuards_GuardarYLeer(t *testing.T) {
	repo := localstore.NewGuardRepository(memory.NewKVStore(), "guardias")
	ctx := context.Background()
	in := []entity.GuardAccount{{ID: 1, Nombre: "Juan Pérez", Rut: "15.123.456-7", Usuario: "151234567", Password: "15123456", Activo: true}}

	require.NoError(t, repo.SaveGuards(ctx, in))
	out, err := repo.LoadGuards(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	err = repo.SaveGuards(ctx, []entity.GuardAccount{{Nombre: "Sin usuario", Rut: "1-9", Password: "1"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

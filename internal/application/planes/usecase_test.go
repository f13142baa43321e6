package planes_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refinancia/planes-api/internal/application/dto"
	"github.com/refinancia/planes-api/internal/application/planes"
	"github.com/refinancia/planes-api/internal/domain"
	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/infrastructure/memoria"
	"github.com/refinancia/planes-api/pkg/logger"
)

// syncStub implementa planes.Sincronizador con comportamiento programable.
type syncStub struct {
	offline   bool
	version   int64
	guardados int
}

func (s *syncStub) GuardarPlan(context.Context, *entity.Plan) planes.ResultadoSync {
	s.guardados++
	if s.offline {
		return planes.ResultadoSync{Offline: true}
	}
	s.version++
	return planes.ResultadoSync{Version: s.version}
}

func (s *syncStub) EliminarPlan(context.Context, string) bool { return s.offline }

// registroStub cuenta las señales de analítica recibidas.
type registroStub struct {
	creaciones   int
	transiciones int
}

func (r *registroStub) RegistrarCreacion(context.Context, *entity.Plan)   { r.creaciones++ }
func (r *registroStub) RegistrarTransicion(context.Context, *entity.Plan) { r.transiciones++ }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func formulario() dto.SimularRequest {
	return dto.SimularRequest{
		NombreDeudor: "María López",
		DNI:          "12345678Z",
		Email:        "maria@example.com",
		NumCuotas:    12,
		Deudas: []dto.DeudaRequest{
			{Producto: "tarjeta", Entidad: "Banco Uno", Importe: dec("6000"), Descuento: dec("50")},
			{Producto: "prestamo_personal", Entidad: "Banco Dos", Importe: dec("4000"), Descuento: dec("30")},
		},
	}
}

func nuevoUseCase(t *testing.T) (*planes.UseCase, *memoria.Almacen, *syncStub, *registroStub) {
	t.Helper()
	mem := memoria.NewAlmacen()
	sync := &syncStub{}
	registro := &registroStub{}
	return planes.NewUseCase(mem, sync, registro, logger.Nop()), mem, sync, registro
}

func TestSimular_CalculaYPersiste(t *testing.T) {
	uc, mem, _, registro := nuevoUseCase(t)
	ctx := context.Background()

	res, err := uc.Simular(ctx, "asesor", "ana", formulario())
	require.NoError(t, err)
	plan := res.Plan

	assert.Equal(t, entity.EstadoPlanCreado, plan.Estado)
	assert.Equal(t, 25, plan.Progreso)
	assert.NotEmpty(t, plan.Referencia)

	// 6000*0.5 + 4000*0.7 = 3000 + 2800 = 5800
	assert.True(t, dec("10000").Equal(plan.TotalImporte), "total importe %s", plan.TotalImporte)
	assert.True(t, dec("5800").Equal(plan.TotalFinal), "total final %s", plan.TotalFinal)
	assert.True(t, dec("4200").Equal(plan.Ahorro), "ahorro %s", plan.Ahorro)
	// Media simple de descuentos: (50+30)/2
	assert.True(t, dec("40").Equal(plan.DescuentoMedio), "descuento medio %s", plan.DescuentoMedio)
	// 5800/12 a 2 decimales
	assert.True(t, dec("483.33").Equal(plan.CuotaMensual), "cuota %s", plan.CuotaMensual)
	// 5800*0.15 + 4200*0.25 = 870 + 1050
	assert.True(t, dec("1920").Equal(plan.Comision), "comisión %s", plan.Comision)

	// Invariante: ahorro == totalImporte - Σ importeFinal
	var sumaFinal decimal.Decimal
	for _, d := range plan.Deudas {
		sumaFinal = sumaFinal.Add(d.ImporteFinal)
	}
	assert.True(t, plan.Ahorro.Equal(plan.TotalImporte.Sub(sumaFinal)))

	require.Len(t, plan.Historial, 1)
	assert.Equal(t, "simulacion", plan.Historial[0].Accion)
	assert.Equal(t, "ana", plan.Historial[0].Usuario)

	guardado, err := mem.ObtenerPlan(ctx, plan.Referencia)
	require.NoError(t, err)
	require.NotNil(t, guardado, "el plan simulado queda en el almacén local")
	assert.Equal(t, 1, registro.creaciones)
}

func TestSimular_AcotaDescuentoPorProducto(t *testing.T) {
	uc, _, _, _ := nuevoUseCase(t)

	in := formulario()
	// hipoteca admite como máximo 20%
	in.Deudas = []dto.DeudaRequest{{Producto: "hipoteca", Entidad: "Banco", Importe: dec("100000"), Descuento: dec("60")}}
	res, err := uc.Simular(context.Background(), "asesor", "ana", in)
	require.NoError(t, err)

	assert.True(t, dec("20").Equal(res.Plan.Deudas[0].Descuento), "el descuento se acota al tope del producto")
	assert.True(t, dec("80000").Equal(res.Plan.Deudas[0].ImporteFinal))
}

func TestSimular_Validacion(t *testing.T) {
	uc, _, _, _ := nuevoUseCase(t)
	ctx := context.Background()

	in := formulario()
	in.NombreDeudor = "   "
	_, err := uc.Simular(ctx, "asesor", "ana", in)
	assert.ErrorIs(t, err, domain.ErrValidacion)
	assert.Contains(t, err.Error(), "nombreDeudor")

	in = formulario()
	in.Deudas = nil
	_, err = uc.Simular(ctx, "asesor", "ana", in)
	assert.ErrorIs(t, err, domain.ErrValidacion)

	in = formulario()
	in.Deudas[1].Importe = dec("-50")
	_, err = uc.Simular(ctx, "asesor", "ana", in)
	assert.ErrorIs(t, err, domain.ErrValidacion)
	assert.Contains(t, err.Error(), "deudas[1]")

	in = formulario()
	in.Deudas[0].Importe = decimal.Zero
	in.Deudas[1].Importe = decimal.Zero
	_, err = uc.Simular(ctx, "asesor", "ana", in)
	assert.ErrorIs(t, err, domain.ErrValidacion, "todas las deudas a cero no es un plan")
}

func TestSimular_RolLectura(t *testing.T) {
	uc, _, _, _ := nuevoUseCase(t)
	_, err := uc.Simular(context.Background(), "lectura", "ana", formulario())
	assert.ErrorIs(t, err, domain.ErrPermisoDenegado)

	// Un rol desconocido degrada a solo lectura
	_, err = uc.Simular(context.Background(), "becario", "ana", formulario())
	assert.ErrorIs(t, err, domain.ErrPermisoDenegado)
}

func TestConfirmar_AvanzaElSimuladoExistente(t *testing.T) {
	uc, _, _, registro := nuevoUseCase(t)
	ctx := context.Background()

	sim, err := uc.Simular(ctx, "asesor", "ana", formulario())
	require.NoError(t, err)

	res, err := uc.Confirmar(ctx, "asesor", "ana", formulario())
	require.NoError(t, err)

	assert.Equal(t, sim.Plan.Referencia, res.Plan.Referencia, "confirma el simulado del mismo DNI, no crea otro")
	assert.Equal(t, entity.EstadoPlanContratado, res.Plan.Estado)
	assert.Equal(t, 50, res.Plan.Progreso)
	require.NotNil(t, res.Plan.FechaContratacion)

	lista, err := uc.Listar(ctx)
	require.NoError(t, err)
	assert.Len(t, lista, 1)
	assert.Equal(t, 1, registro.creaciones)
	assert.Equal(t, 1, registro.transiciones)
}

func TestConfirmar_SinSimuladoCreaContratado(t *testing.T) {
	uc, _, _, registro := nuevoUseCase(t)

	res, err := uc.Confirmar(context.Background(), "asesor", "ana", formulario())
	require.NoError(t, err)

	assert.Equal(t, entity.EstadoPlanContratado, res.Plan.Estado)
	require.NotNil(t, res.Plan.FechaContratacion)
	require.Len(t, res.Plan.Historial, 1)
	assert.Equal(t, "contratacion", res.Plan.Historial[0].Accion)
	assert.Equal(t, 1, registro.creaciones)
	assert.Equal(t, 1, registro.transiciones)
}

func TestAvanzar_CicloCompleto(t *testing.T) {
	uc, _, _, _ := nuevoUseCase(t)
	ctx := context.Background()

	sim, err := uc.Simular(ctx, "asesor", "ana", formulario())
	require.NoError(t, err)
	ref := sim.Plan.Referencia

	res, err := uc.Avanzar(ctx, "asesor", "ana", ref)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoPlanContratado, res.Plan.Estado)
	require.NotNil(t, res.Plan.FechaContratacion)

	res, err = uc.Avanzar(ctx, "asesor", "ana", ref)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoPrimerPago, res.Plan.Estado)
	assert.Equal(t, 100, res.Plan.Progreso)
	require.NotNil(t, res.Plan.FechaPrimerPago)

	// Estado terminal: no hay cuarta fase y el plan no se muta
	_, err = uc.Avanzar(ctx, "asesor", "ana", ref)
	assert.ErrorIs(t, err, domain.ErrEstadoTerminal)

	plan, err := uc.Obtener(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoPrimerPago, plan.Estado, "el intento sobre terminal no toca el plan")
	assert.Len(t, plan.Historial, 3, "sin evento extra por el intento fallido")
}

func TestAvanzar_NoEncontrado(t *testing.T) {
	uc, _, _, _ := nuevoUseCase(t)
	_, err := uc.Avanzar(context.Background(), "asesor", "ana", "NO-EXISTE")
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

func TestGuardadoOffline_AvisaPeroNoFalla(t *testing.T) {
	uc, mem, sync, _ := nuevoUseCase(t)
	sync.offline = true
	ctx := context.Background()

	res, err := uc.Simular(ctx, "asesor", "ana", formulario())
	require.NoError(t, err, "el fallo de conectividad no es un error para el usuario")
	assert.True(t, res.Offline)
	assert.NotEmpty(t, res.Aviso)

	guardado, err := mem.ObtenerPlan(ctx, res.Plan.Referencia)
	require.NoError(t, err)
	assert.NotNil(t, guardado, "el commit local siempre ocurre")
}

func TestEliminar_Capacidades(t *testing.T) {
	uc, mem, _, _ := nuevoUseCase(t)
	ctx := context.Background()

	sim, err := uc.Simular(ctx, "admin", "ana", formulario())
	require.NoError(t, err)
	ref := sim.Plan.Referencia

	// Solo admin tiene PuedeEliminar
	err = uc.Eliminar(ctx, "asesor", ref)
	assert.ErrorIs(t, err, domain.ErrPermisoDenegado)

	require.NoError(t, uc.Eliminar(ctx, "admin", ref))
	guardado, err := mem.ObtenerPlan(ctx, ref)
	require.NoError(t, err)
	assert.Nil(t, guardado)

	err = uc.Eliminar(ctx, "admin", ref)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

func TestBorradores(t *testing.T) {
	uc, _, _, _ := nuevoUseCase(t)
	ctx := context.Background()

	// Un borrador no se valida: puede estar incompleto
	in := dto.BorradorRequest{NombreDeudor: "", Deudas: []dto.DeudaRequest{{Producto: "tarjeta"}}}
	b, err := uc.GuardarBorrador(ctx, "asesor", in)
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, entity.EstadoBorrador, b.Estado)

	lista, err := uc.ListarBorradores(ctx)
	require.NoError(t, err)
	assert.Len(t, lista, 1)

	// Los borradores no entran a la colección de planes ni a la analítica
	coleccion, err := uc.Listar(ctx)
	require.NoError(t, err)
	assert.Empty(t, coleccion)

	require.NoError(t, uc.EliminarBorrador(ctx, "asesor", b.ID))
	lista, err = uc.ListarBorradores(ctx)
	require.NoError(t, err)
	assert.Empty(t, lista)

	_, err = uc.GuardarBorrador(ctx, "lectura", in)
	assert.ErrorIs(t, err, domain.ErrPermisoDenegado)
}

func TestListar_NormalizaEstadosLegacy(t *testing.T) {
	uc, mem, _, _ := nuevoUseCase(t)
	ctx := context.Background()

	legacy := entity.Plan{Referencia: "LEGACY-1", Estado: entity.Estado("en_negociacion"), Progreso: 3}
	require.NoError(t, mem.GuardarPlan(ctx, &legacy))

	lista, err := uc.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, entity.EstadoPlanContratado, lista[0].Estado)
	assert.Equal(t, 50, lista[0].Progreso)
}

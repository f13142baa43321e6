// Package planes contiene los casos de uso del ciclo de vida de un plan:
// simulación, confirmación, avance de fase, borradores y eliminación.
//
// Toda mutación sigue el mismo camino: validar → persistir en el almacén
// local (commit optimista) → entregar al sincronizador → señal de analítica.
// La conectividad nunca hace fallar la operación del usuario.
package planes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refinancia/planes-api/internal/application/dto"
	"github.com/refinancia/planes-api/internal/domain"
	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/domain/finanzas"
	"github.com/refinancia/planes-api/internal/domain/permisos"
	"github.com/refinancia/planes-api/internal/domain/repository"
	"github.com/refinancia/planes-api/pkg/logger"
)

const avisoOffline = "Guardado localmente; se sincronizará cuando haya conexión"

// UseCase casos de uso del ciclo de vida de planes.
type UseCase struct {
	local    repository.AlmacenPlanes
	sync     Sincronizador
	registro RegistradorAnalytics
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(local repository.AlmacenPlanes, sync Sincronizador, registro RegistradorAnalytics, log *logger.Logger) *UseCase {
	return &UseCase{local: local, sync: sync, registro: registro, log: log}
}

// Listar devuelve la colección local con los estados normalizados.
func (uc *UseCase) Listar(ctx context.Context) ([]entity.Plan, error) {
	lista, err := uc.local.ListarPlanes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar planes: %w", err)
	}
	for i := range lista {
		lista[i].Normalizar()
	}
	return lista, nil
}

// Obtener devuelve un plan por referencia. ErrNoEncontrado si no existe.
func (uc *UseCase) Obtener(ctx context.Context, referencia string) (*entity.Plan, error) {
	p, err := uc.local.ObtenerPlan(ctx, referencia)
	if err != nil {
		return nil, fmt.Errorf("obtener plan %s: %w", referencia, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: plan %s", domain.ErrNoEncontrado, referencia)
	}
	p.Normalizar()
	return p, nil
}

// Simular valida el formulario y construye un plan nuevo en plan_creado.
// Requiere la capacidad PuedeSimular.
func (uc *UseCase) Simular(ctx context.Context, rol, usuario string, in dto.SimularRequest) (*dto.GuardadoResponse, error) {
	if !permisos.Para(rol).PuedeSimular {
		return nil, fmt.Errorf("%w: el rol %q no puede simular", domain.ErrPermisoDenegado, rol)
	}

	ahora := time.Now()
	plan, err := construirPlan(in, ahora)
	if err != nil {
		return nil, err
	}
	plan.Referencia = fmt.Sprintf("SIM-%d", ahora.UnixNano())
	plan.Estado = entity.EstadoPlanCreado
	plan.Progreso = entity.ProgresoPara(plan.Estado)
	plan.AgregarEvento(ahora, "simulacion", "Plan simulado", usuario)

	res, err := uc.guardar(ctx, plan)
	if err != nil {
		return nil, err
	}
	uc.registro.RegistrarCreacion(ctx, plan)
	return res, nil
}

// Confirmar contrata un plan. Si existe un plan simulado (plan_creado) para el
// mismo DNI, lo avanza; si no, construye uno nuevo directamente en
// plan_contratado. Requiere la capacidad PuedeGuardar.
func (uc *UseCase) Confirmar(ctx context.Context, rol, usuario string, in dto.SimularRequest) (*dto.GuardadoResponse, error) {
	if !permisos.Para(rol).PuedeGuardar {
		return nil, fmt.Errorf("%w: el rol %q no puede guardar planes", domain.ErrPermisoDenegado, rol)
	}

	if existente, err := uc.planSimuladoDe(ctx, in.DNI); err != nil {
		return nil, err
	} else if existente != nil {
		return uc.avanzarPlan(ctx, existente, usuario)
	}

	ahora := time.Now()
	plan, err := construirPlan(in, ahora)
	if err != nil {
		return nil, err
	}
	plan.Referencia = fmt.Sprintf("PLAN-%d", ahora.UnixNano())
	plan.Estado = entity.EstadoPlanContratado
	plan.Progreso = entity.ProgresoPara(plan.Estado)
	plan.FechaContratacion = &ahora
	plan.AgregarEvento(ahora, "contratacion", "Plan creado y contratado", usuario)

	res, err := uc.guardar(ctx, plan)
	if err != nil {
		return nil, err
	}
	uc.registro.RegistrarCreacion(ctx, plan)
	uc.registro.RegistrarTransicion(ctx, plan)
	return res, nil
}

// Avanzar pasa el plan a su estado sucesor. Requiere PuedeAvanzar.
// Sobre un plan en estado terminal devuelve ErrEstadoTerminal y no muta nada.
func (uc *UseCase) Avanzar(ctx context.Context, rol, usuario, referencia string) (*dto.GuardadoResponse, error) {
	if !permisos.Para(rol).PuedeAvanzar {
		return nil, fmt.Errorf("%w: el rol %q no puede avanzar fases", domain.ErrPermisoDenegado, rol)
	}
	plan, err := uc.Obtener(ctx, referencia)
	if err != nil {
		return nil, err
	}
	return uc.avanzarPlan(ctx, plan, usuario)
}

// Eliminar borra un plan local y remotamente. Requiere PuedeEliminar.
func (uc *UseCase) Eliminar(ctx context.Context, rol, referencia string) error {
	if !permisos.Para(rol).PuedeEliminar {
		return fmt.Errorf("%w: el rol %q no puede eliminar planes", domain.ErrPermisoDenegado, rol)
	}
	if _, err := uc.Obtener(ctx, referencia); err != nil {
		return err
	}
	if err := uc.local.EliminarPlan(ctx, referencia); err != nil {
		return fmt.Errorf("eliminar plan %s: %w", referencia, err)
	}
	if uc.sync.EliminarPlan(ctx, referencia) {
		uc.log.Warn().Str("referencia", referencia).Msg("borrado remoto encolado")
	}
	return nil
}

// GuardarBorrador persiste el formulario sin validar. Requiere PuedeGuardar.
func (uc *UseCase) GuardarBorrador(ctx context.Context, rol string, in dto.BorradorRequest) (*entity.Borrador, error) {
	if !permisos.Para(rol).PuedeGuardar {
		return nil, fmt.Errorf("%w: el rol %q no puede guardar borradores", domain.ErrPermisoDenegado, rol)
	}
	deudas := make([]entity.DeudaBorrador, 0, len(in.Deudas))
	for _, d := range in.Deudas {
		deudas = append(deudas, entity.DeudaBorrador{
			Contrato:   d.Contrato,
			Producto:   d.Producto,
			Entidad:    d.Entidad,
			Importe:    d.Importe,
			Descuento:  d.Descuento,
			Antiguedad: d.Antiguedad,
		})
	}
	b := &entity.Borrador{
		ID: uuid.New().String(),
		Cliente: entity.Cliente{
			Nombre: in.NombreDeudor,
			DNI:    in.DNI,
			Email:  in.Email,
		},
		NumCuotas: in.NumCuotas,
		Deudas:    deudas,
		Estado:    entity.EstadoBorrador,
		Creado:    time.Now(),
	}
	if err := uc.local.GuardarBorrador(ctx, b); err != nil {
		return nil, fmt.Errorf("guardar borrador: %w", err)
	}
	return b, nil
}

// ListarBorradores devuelve los borradores locales.
func (uc *UseCase) ListarBorradores(ctx context.Context) ([]entity.Borrador, error) {
	return uc.local.ListarBorradores(ctx)
}

// EliminarBorrador borra un borrador. Requiere PuedeGuardar.
func (uc *UseCase) EliminarBorrador(ctx context.Context, rol, id string) error {
	if !permisos.Para(rol).PuedeGuardar {
		return fmt.Errorf("%w: el rol %q no puede eliminar borradores", domain.ErrPermisoDenegado, rol)
	}
	return uc.local.EliminarBorrador(ctx, id)
}

// ── internos ──────────────────────────────────────────────────────────────────

// avanzarPlan aplica la transición al sucesor, sella la fecha correspondiente
// y registra el evento. El plan no se toca si está en estado terminal.
func (uc *UseCase) avanzarPlan(ctx context.Context, plan *entity.Plan, usuario string) (*dto.GuardadoResponse, error) {
	siguiente, ok := entity.Siguiente(plan.Estado)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEstadoTerminal, plan.Referencia)
	}

	ahora := time.Now()
	plan.Estado = siguiente
	plan.Progreso = entity.ProgresoPara(siguiente)
	plan.UltimaActualizacion = &ahora
	switch siguiente {
	case entity.EstadoPlanContratado:
		plan.FechaContratacion = &ahora
	case entity.EstadoPrimerPago:
		plan.FechaPrimerPago = &ahora
	}
	plan.AgregarEvento(ahora, "avance_fase", "Avance a "+entity.EtiquetaEstado(siguiente), usuario)

	res, err := uc.guardar(ctx, plan)
	if err != nil {
		return nil, err
	}
	uc.registro.RegistrarTransicion(ctx, plan)
	return res, nil
}

// guardar hace el commit optimista local y entrega el plan al sincronizador.
func (uc *UseCase) guardar(ctx context.Context, plan *entity.Plan) (*dto.GuardadoResponse, error) {
	if err := uc.local.GuardarPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("guardar plan %s: %w", plan.Referencia, err)
	}

	res := uc.sync.GuardarPlan(ctx, plan)
	if res.Version > 0 {
		plan.Version = res.Version
		// Persistir la nueva etiqueta de versión para futuras escrituras
		if err := uc.local.GuardarPlan(ctx, plan); err != nil {
			uc.log.Warn().Err(err).Str("referencia", plan.Referencia).Msg("no se pudo actualizar la versión local")
		}
	}

	out := &dto.GuardadoResponse{Plan: plan, Offline: res.Offline, Conflicto: res.Conflicto}
	if res.Offline {
		out.Aviso = avisoOffline
	}
	return out, nil
}

// planSimuladoDe busca el plan simulado más reciente del DNI indicado.
func (uc *UseCase) planSimuladoDe(ctx context.Context, dni string) (*entity.Plan, error) {
	if dni == "" {
		return nil, nil
	}
	lista, err := uc.Listar(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lista {
		if lista[i].Estado == entity.EstadoPlanCreado && lista[i].Cliente.DNI == dni {
			return &lista[i], nil // Listar ordena por fecha descendente
		}
	}
	return nil, nil
}

// construirPlan valida el formulario y calcula los campos agregados.
// Falla con ErrValidacion indicando el campo o la fila ofensiva.
func construirPlan(in dto.SimularRequest, ahora time.Time) (*entity.Plan, error) {
	if strings.TrimSpace(in.NombreDeudor) == "" {
		return nil, fmt.Errorf("%w: nombreDeudor es obligatorio", domain.ErrValidacion)
	}
	if len(in.Deudas) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos una deuda", domain.ErrValidacion)
	}

	var totalImporte, totalFinal decimal.Decimal
	deudas := make([]entity.Deuda, 0, len(in.Deudas))
	conImporte := false
	for i, d := range in.Deudas {
		if d.Importe.IsNegative() {
			return nil, fmt.Errorf("%w: deudas[%d].importe no puede ser negativo", domain.ErrValidacion, i)
		}
		if d.Importe.IsPositive() {
			conImporte = true
		}
		descuento := finanzas.AcotarDescuento(d.Producto, d.Descuento)
		importeFinal, err := finanzas.AplicarDescuento(d.Importe, descuento)
		if err != nil {
			return nil, fmt.Errorf("%w: deudas[%d]: %v", domain.ErrValidacion, i, err)
		}
		importeFinal = importeFinal.Round(2)
		deudas = append(deudas, entity.Deuda{
			Contrato:     d.Contrato,
			Producto:     d.Producto,
			Entidad:      d.Entidad,
			Importe:      d.Importe,
			Descuento:    descuento,
			ImporteFinal: importeFinal,
			Antiguedad:   d.Antiguedad,
		})
		totalImporte = totalImporte.Add(d.Importe)
		totalFinal = totalFinal.Add(importeFinal)
	}
	if !conImporte {
		return nil, fmt.Errorf("%w: se requiere al menos una deuda con importe mayor que cero", domain.ErrValidacion)
	}

	ahorro := totalImporte.Sub(totalFinal)
	return &entity.Plan{
		Cliente: entity.Cliente{
			Nombre: strings.TrimSpace(in.NombreDeudor),
			DNI:    strings.TrimSpace(in.DNI),
			Email:  strings.TrimSpace(in.Email),
		},
		Fecha:          ahora,
		TotalImporte:   totalImporte.Round(2),
		TotalFinal:     totalFinal.Round(2),
		DescuentoMedio: finanzas.DescuentoMedioSimple(deudas),
		NumCuotas:      in.NumCuotas,
		CuotaMensual:   finanzas.CuotaMensual(totalFinal, in.NumCuotas),
		Ahorro:         ahorro.Round(2),
		Comision:       finanzas.Comision(totalFinal, ahorro),
		Deudas:         deudas,
	}, nil
}

// Package sync implementa el motor de reconciliación entre el almacén local y
// el remoto: fusión por timestamp, cola de pendientes, conflictos y drenaje
// periódico.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/refinancia/planes-api/internal/application/dto"
	"github.com/refinancia/planes-api/internal/application/planes"
	"github.com/refinancia/planes-api/internal/domain"
	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/domain/repository"
	"github.com/refinancia/planes-api/internal/infrastructure/cache"
	"github.com/refinancia/planes-api/pkg/logger"
)

const clavePlanesRemotos = "planes_remotos"

// entradaOperacion payload de una operación pendiente de tipo "entrada"
// (mutaciones que no son un guardado de plan, hoy solo borrados).
type entradaOperacion struct {
	Accion     string `json:"accion"` // "eliminar_plan"
	Referencia string `json:"referencia"`
}

var _ planes.Sincronizador = (*Engine)(nil)

// Engine motor de sincronización. La colección local sigue siendo la canónica:
// el motor la lee y fusiona, nunca la posee.
type Engine struct {
	remoto   repository.PlanRemoto
	local    repository.AlmacenPlanes
	cola     repository.ColaPendientes
	lecturas *cache.Cache[[]entity.Plan]
	breaker  *gobreaker.CircuitBreaker
	log      *logger.Logger

	// drenando evita drenajes solapados: el tick periódico que encuentre un
	// drenaje en curso se salta, no se encola.
	drenando atomic.Bool

	mu         gosync.Mutex
	conflictos map[string]entity.Conflicto // por referencia: un conflicto vivo por plan
}

// NewEngine construye el motor. cacheTTL gobierna la caché de lecturas remotas.
func NewEngine(remoto repository.PlanRemoto, local repository.AlmacenPlanes, cola repository.ColaPendientes, cacheTTL time.Duration, log *logger.Logger) *Engine {
	return &Engine{
		remoto:     remoto,
		local:      local,
		cola:       cola,
		lecturas:   cache.New[[]entity.Plan](cacheTTL),
		breaker:    newBreaker("almacen-remoto"),
		log:        log,
		conflictos: make(map[string]entity.Conflicto),
	}
}

// newBreaker corta las llamadas al remoto tras una racha de fallos; el estado
// abierto se trata como cualquier otro fallo transitorio (se encola).
func newBreaker(nombre string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        nombre,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && ratio >= 0.6
		},
	})
}

// GuardarPlan intenta la escritura remota del plan. Conflicto de versión crea
// un registro para resolución explícita; cualquier otro fallo encola la
// operación y la reporta como guardada offline, nunca como error.
func (e *Engine) GuardarPlan(ctx context.Context, plan *entity.Plan) planes.ResultadoSync {
	version, err := e.escribirRemoto(ctx, plan)
	if err == nil {
		return planes.ResultadoSync{Version: version}
	}
	if errors.Is(err, domain.ErrConflicto) {
		conflicto := e.registrarConflicto(ctx, plan)
		return planes.ResultadoSync{Conflicto: conflicto}
	}

	e.log.Warn().Err(err).Str("referencia", plan.Referencia).Msg("remoto no disponible, operación encolada")
	if err := e.encolarPlan(ctx, plan); err != nil {
		// La cola vive en el almacén local; si también falla no hay degradación posible
		e.log.Error().Err(err).Str("referencia", plan.Referencia).Msg("no se pudo encolar la operación")
	}
	return planes.ResultadoSync{Offline: true}
}

// EliminarPlan intenta el borrado remoto; si el remoto no está disponible
// encola la operación y devuelve true.
func (e *Engine) EliminarPlan(ctx context.Context, referencia string) bool {
	_, err := e.breaker.Execute(func() (interface{}, error) {
		return nil, e.remoto.EliminarPlan(ctx, referencia)
	})
	if err == nil {
		e.lecturas.Invalidar(clavePlanesRemotos)
		return false
	}

	datos, _ := json.Marshal(entradaOperacion{Accion: "eliminar_plan", Referencia: referencia})
	op := entity.OperacionPendiente{
		ID:        uuid.New().String(),
		Tipo:      entity.OperacionEntrada,
		Data:      datos,
		Timestamp: time.Now(),
	}
	if err := e.cola.Encolar(ctx, op); err != nil {
		e.log.Error().Err(err).Str("referencia", referencia).Msg("no se pudo encolar el borrado")
	}
	return true
}

// LeerPlanesRemotos lee la colección remota, con caché TTL. La caché se
// invalida tras cada escritura confirmada.
func (e *Engine) LeerPlanesRemotos(ctx context.Context) ([]entity.Plan, error) {
	if cacheados, ok := e.lecturas.Get(clavePlanesRemotos); ok {
		return cacheados, nil
	}
	res, err := e.breaker.Execute(func() (interface{}, error) {
		return e.remoto.LeerPlanes(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIOTransitorio, err)
	}
	remotos := res.([]entity.Plan)
	for i := range remotos {
		remotos[i].Normalizar()
	}
	e.lecturas.Set(clavePlanesRemotos, remotos)
	return remotos, nil
}

// Sincronizar fusiona remoto y local y deja el resultado como colección local.
func (e *Engine) Sincronizar(ctx context.Context) error {
	remotos, err := e.LeerPlanesRemotos(ctx)
	if err != nil {
		return err
	}
	locales, err := e.local.ListarPlanes(ctx)
	if err != nil {
		return fmt.Errorf("listar planes locales: %w", err)
	}

	fusion := FusionarPlanes(locales, remotos)
	if err := e.local.ReemplazarPlanes(ctx, fusion); err != nil {
		return fmt.Errorf("reemplazar colección local: %w", err)
	}
	if err := e.local.MarcarSincronizacion(ctx, time.Now()); err != nil {
		e.log.Warn().Err(err).Msg("no se pudo actualizar la marca de sincronización")
	}
	e.log.Debug().Int("planes", len(fusion)).Msg("sincronización completa")
	return nil
}

// Drenar procesa una instantánea de la cola de pendientes. Cada operación se
// intenta de forma aislada: un fallo no bloquea al resto y la operación
// fallida permanece en la cola en su posición relativa original.
func (e *Engine) Drenar(ctx context.Context) (dto.DrenajeDTO, error) {
	instantanea, err := e.cola.Listar(ctx)
	if err != nil {
		return dto.DrenajeDTO{}, fmt.Errorf("listar cola: %w", err)
	}

	var res dto.DrenajeDTO
	for _, op := range instantanea {
		if err := e.procesarOperacion(ctx, op); err != nil {
			e.log.Warn().Err(err).Str("operacion", op.ID).Msg("operación pendiente fallida, se reintentará")
			res.Fallidas++
			continue
		}
		if err := e.cola.Eliminar(ctx, op.ID); err != nil {
			e.log.Error().Err(err).Str("operacion", op.ID).Msg("no se pudo retirar la operación drenada")
		}
		res.Exitosas++
	}
	return res, nil
}

// DrenarSiOcioso ejecuta un ciclo drenaje+sincronización si no hay otro en
// curso; si lo hay, se salta (reentrante-seguro, nunca solapa drenajes).
func (e *Engine) DrenarSiOcioso(ctx context.Context) {
	if !e.drenando.CompareAndSwap(false, true) {
		return
	}
	defer e.drenando.Store(false)

	if res, err := e.Drenar(ctx); err != nil {
		e.log.Warn().Err(err).Msg("drenaje fallido")
	} else if res.Exitosas > 0 || res.Fallidas > 0 {
		e.log.Info().Int("exitosas", res.Exitosas).Int("fallidas", res.Fallidas).Msg("drenaje de pendientes")
	}
	if err := e.Sincronizar(ctx); err != nil {
		e.log.Debug().Err(err).Msg("sincronización pospuesta")
	}
}

// IniciarPeriodico lanza la tarea de fondo que drena la cola a intervalo fijo
// hasta que el contexto se cancele.
func (e *Engine) IniciarPeriodico(ctx context.Context, intervalo time.Duration) {
	go func() {
		ticker := time.NewTicker(intervalo)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.DrenarSiOcioso(ctx)
			}
		}
	}()
}

// Estado devuelve el estado del motor para la API.
func (e *Engine) Estado(ctx context.Context) (*dto.EstadoSyncDTO, error) {
	pendientes, err := e.cola.Tamano(ctx)
	if err != nil {
		return nil, fmt.Errorf("tamaño de cola: %w", err)
	}
	estado := &dto.EstadoSyncDTO{
		Pendientes: pendientes,
		Conflictos: len(e.Conflictos()),
	}
	if ultima, err := e.local.UltimaSincronizacion(ctx); err == nil && !ultima.IsZero() {
		estado.UltimaSincronizacion = &ultima
	}
	return estado, nil
}

// Conflictos devuelve los conflictos vivos.
func (e *Engine) Conflictos() []entity.Conflicto {
	e.mu.Lock()
	defer e.mu.Unlock()
	lista := make([]entity.Conflicto, 0, len(e.conflictos))
	for _, c := range e.conflictos {
		lista = append(lista, c)
	}
	return lista
}

// Resolver aplica la resolución elegida y retira el registro de conflicto.
// Las tres resoluciones lo retiran; cancelar no toca ningún dato.
func (e *Engine) Resolver(ctx context.Context, id string, resolucion entity.Resolucion) error {
	conflicto, ok := e.conflictoPorID(id)
	if !ok {
		return fmt.Errorf("%w: conflicto %s", domain.ErrNoEncontrado, id)
	}

	switch resolucion {
	case entity.ResolucionUsarLocal:
		plan := conflicto.Local
		if conflicto.Remoto != nil {
			plan.Version = conflicto.Remoto.Version
		}
		if version, err := e.escribirRemoto(ctx, plan); err != nil {
			// Remoto caído en plena resolución: la decisión ya está tomada, se encola
			if encErr := e.encolarPlan(ctx, plan); encErr != nil {
				return fmt.Errorf("encolar resolución: %w", encErr)
			}
		} else {
			plan.Version = version
			if err := e.local.GuardarPlan(ctx, plan); err != nil {
				return fmt.Errorf("guardar plan resuelto: %w", err)
			}
		}
	case entity.ResolucionUsarRemoto:
		if conflicto.Remoto != nil {
			if err := e.local.GuardarPlan(ctx, conflicto.Remoto); err != nil {
				return fmt.Errorf("adoptar plan remoto: %w", err)
			}
		}
	case entity.ResolucionCancelar:
		// solo retira el registro
	default:
		return fmt.Errorf("%w: resolución %q desconocida", domain.ErrValidacion, resolucion)
	}

	e.mu.Lock()
	delete(e.conflictos, conflicto.Referencia)
	e.mu.Unlock()
	return nil
}

// ── internos ──────────────────────────────────────────────────────────────────

func (e *Engine) escribirRemoto(ctx context.Context, plan *entity.Plan) (int64, error) {
	res, err := e.breaker.Execute(func() (interface{}, error) {
		return e.remoto.EscribirPlan(ctx, plan)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflicto) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrIOTransitorio, err)
	}
	e.lecturas.Invalidar(clavePlanesRemotos)
	return res.(int64), nil
}

func (e *Engine) encolarPlan(ctx context.Context, plan *entity.Plan) error {
	datos, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("serializar plan %s: %w", plan.Referencia, err)
	}
	return e.cola.Encolar(ctx, entity.OperacionPendiente{
		ID:        uuid.New().String(),
		Tipo:      entity.OperacionPlan,
		Data:      datos,
		Timestamp: time.Now(),
	})
}

// registrarConflicto busca la contraparte remota y deja el registro para
// resolución explícita. Nunca sobrescribe en silencio.
func (e *Engine) registrarConflicto(ctx context.Context, local *entity.Plan) *entity.Conflicto {
	var remoto *entity.Plan
	if remotos, err := e.LeerPlanesRemotos(ctx); err == nil {
		for i := range remotos {
			if remotos[i].Referencia == local.Referencia {
				remoto = &remotos[i]
				break
			}
		}
	}

	conflicto := entity.Conflicto{
		ID:         uuid.New().String(),
		Referencia: local.Referencia,
		Local:      local,
		Remoto:     remoto,
		Timestamp:  time.Now(),
	}
	e.mu.Lock()
	e.conflictos[conflicto.Referencia] = conflicto
	e.mu.Unlock()

	e.log.Warn().Str("referencia", local.Referencia).Msg("conflicto de escritura remota, pendiente de resolución")
	return &conflicto
}

func (e *Engine) conflictoPorID(id string) (entity.Conflicto, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.conflictos {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Conflicto{}, false
}

// procesarOperacion reintenta una operación encolada contra el remoto.
func (e *Engine) procesarOperacion(ctx context.Context, op entity.OperacionPendiente) error {
	switch op.Tipo {
	case entity.OperacionPlan:
		var plan entity.Plan
		if err := json.Unmarshal(op.Data, &plan); err != nil {
			// Payload corrupto: retirarla es lo único razonable
			e.log.Error().Err(err).Str("operacion", op.ID).Msg("operación ilegible, se descarta")
			return nil
		}
		return e.drenarPlan(ctx, &plan)
	case entity.OperacionEntrada:
		var entrada entradaOperacion
		if err := json.Unmarshal(op.Data, &entrada); err != nil {
			e.log.Error().Err(err).Str("operacion", op.ID).Msg("operación ilegible, se descarta")
			return nil
		}
		if entrada.Accion == "eliminar_plan" {
			_, err := e.breaker.Execute(func() (interface{}, error) {
				return nil, e.remoto.EliminarPlan(ctx, entrada.Referencia)
			})
			if err == nil {
				e.lecturas.Invalidar(clavePlanesRemotos)
			}
			return err
		}
		return nil
	default:
		return nil
	}
}

// drenarPlan escribe el plan encolado. Un conflicto de versión durante el
// drenaje suele ser un auto-adelantamiento (la misma referencia guardada
// varias veces offline): si el valor encolado es estrictamente más reciente
// que el remoto, gana por timestamp; si no, se registra el conflicto y la
// operación se da por tratada.
func (e *Engine) drenarPlan(ctx context.Context, plan *entity.Plan) error {
	version, err := e.escribirRemoto(ctx, plan)
	if err == nil {
		return e.actualizarVersionLocal(ctx, plan, version)
	}
	if !errors.Is(err, domain.ErrConflicto) {
		return err
	}

	remoto := e.contraparteRemota(ctx, plan.Referencia)
	if remoto != nil && plan.FechaEfectiva().After(remoto.FechaEfectiva()) {
		plan.Version = remoto.Version
		version, err := e.escribirRemoto(ctx, plan)
		if err != nil {
			if errors.Is(err, domain.ErrConflicto) {
				e.registrarConflicto(ctx, plan)
				return nil
			}
			return err
		}
		return e.actualizarVersionLocal(ctx, plan, version)
	}

	e.registrarConflicto(ctx, plan)
	return nil
}

func (e *Engine) actualizarVersionLocal(ctx context.Context, plan *entity.Plan, version int64) error {
	actual, err := e.local.ObtenerPlan(ctx, plan.Referencia)
	if err != nil || actual == nil {
		return nil
	}
	// Solo si el local sigue siendo el mismo valor drenado; un valor más nuevo
	// llegará con su propia operación encolada
	if actual.FechaEfectiva().Equal(plan.FechaEfectiva()) {
		actual.Version = version
		if err := e.local.GuardarPlan(ctx, actual); err != nil {
			e.log.Warn().Err(err).Str("referencia", plan.Referencia).Msg("no se pudo actualizar la versión local")
		}
	}
	return nil
}

func (e *Engine) contraparteRemota(ctx context.Context, referencia string) *entity.Plan {
	remotos, err := e.LeerPlanesRemotos(ctx)
	if err != nil {
		return nil
	}
	for i := range remotos {
		if remotos[i].Referencia == referencia {
			return &remotos[i]
		}
	}
	return nil
}

// Package redisstore implementa el almacén local duradero sobre Redis:
// colección de planes, borradores, cola FIFO de pendientes y marca de
// sincronización. Los valores se serializan como JSON.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/domain/repository"
	"github.com/refinancia/planes-api/pkg/config"
)

// Claves de las estructuras en Redis.
const (
	clavePlanes     = "replan:planes"      // hash referencia → JSON
	claveBorradores = "replan:borradores"  // hash id → JSON
	claveColaIDs    = "replan:cola"        // list de ids en orden FIFO
	claveColaOps    = "replan:cola:ops"    // hash id → JSON
	claveUltimaSync = "replan:ultima_sync" // string RFC3339
	claveResumenes  = "replan:resumenes"   // hash "YYYY-MM" → JSON
)

var (
	_ repository.AlmacenPlanes            = (*Almacen)(nil)
	_ repository.ColaPendientes           = (*Almacen)(nil)
	_ repository.ResumenMensualRepository = (*Almacen)(nil)
)

// Almacen adaptador Redis de los puertos del almacén local.
type Almacen struct {
	client *redis.Client
}

// NewAlmacen conecta con Redis y verifica la conexión con un ping.
func NewAlmacen(ctx context.Context, cfg config.RedisConfig) (*Almacen, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Almacen{client: client}, nil
}

// Close cierra la conexión.
func (a *Almacen) Close() error {
	return a.client.Close()
}

// GuardarPlan inserta o reemplaza el plan por referencia.
func (a *Almacen) GuardarPlan(ctx context.Context, plan *entity.Plan) error {
	datos, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("serializar plan %s: %w", plan.Referencia, err)
	}
	return a.client.HSet(ctx, clavePlanes, plan.Referencia, datos).Err()
}

// ObtenerPlan devuelve el plan o nil si no existe.
func (a *Almacen) ObtenerPlan(ctx context.Context, referencia string) (*entity.Plan, error) {
	datos, err := a.client.HGet(ctx, clavePlanes, referencia).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer plan %s: %w", referencia, err)
	}
	var p entity.Plan
	if err := json.Unmarshal(datos, &p); err != nil {
		return nil, fmt.Errorf("deserializar plan %s: %w", referencia, err)
	}
	return &p, nil
}

// ListarPlanes devuelve la colección ordenada por fecha de creación descendente.
func (a *Almacen) ListarPlanes(ctx context.Context) ([]entity.Plan, error) {
	valores, err := a.client.HVals(ctx, clavePlanes).Result()
	if err != nil {
		return nil, fmt.Errorf("listar planes: %w", err)
	}
	planes := make([]entity.Plan, 0, len(valores))
	for _, v := range valores {
		var p entity.Plan
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			// Registro corrupto: se omite en lugar de romper la lectura completa
			continue
		}
		planes = append(planes, p)
	}
	sort.Slice(planes, func(i, j int) bool {
		return planes[i].Fecha.After(planes[j].Fecha)
	})
	return planes, nil
}

// EliminarPlan borra el plan; no falla si no existe.
func (a *Almacen) EliminarPlan(ctx context.Context, referencia string) error {
	return a.client.HDel(ctx, clavePlanes, referencia).Err()
}

// ReemplazarPlanes sustituye la colección completa de forma atómica (pipeline).
func (a *Almacen) ReemplazarPlanes(ctx context.Context, planes []entity.Plan) error {
	pipe := a.client.TxPipeline()
	pipe.Del(ctx, clavePlanes)
	for i := range planes {
		datos, err := json.Marshal(&planes[i])
		if err != nil {
			return fmt.Errorf("serializar plan %s: %w", planes[i].Referencia, err)
		}
		pipe.HSet(ctx, clavePlanes, planes[i].Referencia, datos)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GuardarBorrador inserta o reemplaza el borrador.
func (a *Almacen) GuardarBorrador(ctx context.Context, b *entity.Borrador) error {
	datos, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("serializar borrador %s: %w", b.ID, err)
	}
	return a.client.HSet(ctx, claveBorradores, b.ID, datos).Err()
}

// ListarBorradores devuelve los borradores ordenados por creación descendente.
func (a *Almacen) ListarBorradores(ctx context.Context) ([]entity.Borrador, error) {
	valores, err := a.client.HVals(ctx, claveBorradores).Result()
	if err != nil {
		return nil, fmt.Errorf("listar borradores: %w", err)
	}
	lista := make([]entity.Borrador, 0, len(valores))
	for _, v := range valores {
		var b entity.Borrador
		if err := json.Unmarshal([]byte(v), &b); err != nil {
			continue
		}
		lista = append(lista, b)
	}
	sort.Slice(lista, func(i, j int) bool {
		return lista[i].Creado.After(lista[j].Creado)
	})
	return lista, nil
}

// EliminarBorrador borra el borrador; no falla si no existe.
func (a *Almacen) EliminarBorrador(ctx context.Context, id string) error {
	return a.client.HDel(ctx, claveBorradores, id).Err()
}

// MarcarSincronizacion guarda el instante de la última sincronización completa.
func (a *Almacen) MarcarSincronizacion(ctx context.Context, t time.Time) error {
	return a.client.Set(ctx, claveUltimaSync, t.Format(time.RFC3339), 0).Err()
}

// UltimaSincronizacion devuelve la marca; cero si nunca se sincronizó.
func (a *Almacen) UltimaSincronizacion(ctx context.Context) (time.Time, error) {
	s, err := a.client.Get(ctx, claveUltimaSync).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("leer última sincronización: %w", err)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

// Encolar añade la operación al final de la cola (lista de ids + hash de datos).
func (a *Almacen) Encolar(ctx context.Context, op entity.OperacionPendiente) error {
	datos, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("serializar operación %s: %w", op.ID, err)
	}
	pipe := a.client.TxPipeline()
	pipe.HSet(ctx, claveColaOps, op.ID, datos)
	pipe.RPush(ctx, claveColaIDs, op.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// Listar devuelve una instantánea de la cola en orden FIFO.
func (a *Almacen) Listar(ctx context.Context) ([]entity.OperacionPendiente, error) {
	ids, err := a.client.LRange(ctx, claveColaIDs, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listar cola: %w", err)
	}
	ops := make([]entity.OperacionPendiente, 0, len(ids))
	for _, id := range ids {
		datos, err := a.client.HGet(ctx, claveColaOps, id).Bytes()
		if err == redis.Nil {
			continue // id huérfano, lo ignora
		}
		if err != nil {
			return nil, fmt.Errorf("leer operación %s: %w", id, err)
		}
		var op entity.OperacionPendiente
		if err := json.Unmarshal(datos, &op); err != nil {
			continue
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Eliminar retira la operación por id preservando el orden relativo del resto.
func (a *Almacen) Eliminar(ctx context.Context, id string) error {
	pipe := a.client.TxPipeline()
	pipe.LRem(ctx, claveColaIDs, 1, id)
	pipe.HDel(ctx, claveColaOps, id)
	_, err := pipe.Exec(ctx)
	return err
}

// Tamano devuelve el número de operaciones pendientes.
func (a *Almacen) Tamano(ctx context.Context) (int, error) {
	n, err := a.client.LLen(ctx, claveColaIDs).Result()
	if err != nil {
		return 0, fmt.Errorf("tamaño de cola: %w", err)
	}
	return int(n), nil
}

// Obtener devuelve el resumen del mes o nil si no existe.
func (a *Almacen) Obtener(ctx context.Context, anio, mes int) (*entity.ResumenMensual, error) {
	datos, err := a.client.HGet(ctx, claveResumenes, entity.ClaveMes(anio, mes)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer resumen %s: %w", entity.ClaveMes(anio, mes), err)
	}
	var r entity.ResumenMensual
	if err := json.Unmarshal(datos, &r); err != nil {
		return nil, fmt.Errorf("deserializar resumen: %w", err)
	}
	return &r, nil
}

// Guardar inserta o reemplaza el resumen del mes.
func (a *Almacen) Guardar(ctx context.Context, resumen *entity.ResumenMensual) error {
	datos, err := json.Marshal(resumen)
	if err != nil {
		return fmt.Errorf("serializar resumen %s: %w", resumen.Clave(), err)
	}
	return a.client.HSet(ctx, claveResumenes, resumen.Clave(), datos).Err()
}

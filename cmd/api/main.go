package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/refinancia/planes-api/internal/application/analytics"
	"github.com/refinancia/planes-api/internal/application/auth"
	"github.com/refinancia/planes-api/internal/application/planes"
	appsync "github.com/refinancia/planes-api/internal/application/sync"
	"github.com/refinancia/planes-api/internal/domain/repository"
	"github.com/refinancia/planes-api/internal/infrastructure/memoria"
	"github.com/refinancia/planes-api/internal/infrastructure/postgres"
	"github.com/refinancia/planes-api/internal/infrastructure/redisstore"
	httpRouter "github.com/refinancia/planes-api/internal/interfaces/http"
	"github.com/refinancia/planes-api/pkg/config"
	"github.com/refinancia/planes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	planRemoto := postgres.NewPlanRepository(pool)
	usuarioRepo := postgres.NewUsuarioRepository(pool)

	// Almacén local: Redis si está disponible, memoria como degradación.
	var (
		local     repository.AlmacenPlanes
		cola      repository.ColaPendientes
		resumenes repository.ResumenMensualRepository
	)
	if redisAlmacen, err := redisstore.NewAlmacen(ctx, cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("Redis no disponible, usando almacén local en memoria")
		mem := memoria.NewAlmacen()
		local, cola, resumenes = mem, mem, mem
	} else {
		local, cola, resumenes = redisAlmacen, redisAlmacen, redisAlmacen
	}

	engine := appsync.NewEngine(planRemoto, local, cola, cfg.Sync.CacheTTL, log)
	registro := analytics.NewRegistro(resumenes, log)

	planesUC := planes.NewUseCase(local, engine, registro, log)
	kpisUC := analytics.NewKPIUseCase(local)
	periodoUC := analytics.NewPeriodoUseCase(resumenes)
	authUC := auth.NewAuthUseCase(usuarioRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Carga inicial de la colección remota y drenaje periódico de pendientes
	if err := engine.Sincronizar(ctx); err != nil {
		log.Warn().Err(err).Msg("sincronización inicial pospuesta")
	}
	engine.IniciarPeriodico(ctx, cfg.Sync.Interval)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Replan API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PlanesUC:   planesUC,
		KPIsUC:     kpisUC,
		PeriodoUC:  periodoUC,
		SyncEngine: engine,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

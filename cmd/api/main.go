package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/beneficios-api/internal/application/bootstrap"
	"github.com/jhoicas/beneficios-api/internal/application/employee"
	"github.com/jhoicas/beneficios-api/internal/application/guard"
	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/internal/application/verification"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/beneficios-api/internal/infrastructure/pdf"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/qrcode"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/beneficios-api/internal/interfaces/http"
	"github.com/jhoicas/beneficios-api/pkg/config"
	"github.com/jhoicas/beneficios-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("aplicación detenida con error")
	}
	log.Info().Msg("aplicación detenida")
}

// run arma y sirve el portal hasta que ctx termine. Todo error vuelve a main después de
// que los defer liberaron el almacenamiento.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("abrir almacenamiento: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar almacenamiento")
		}
	}()
	backend.Listen(ctx)

	m := metrics.New()
	gate := guard.NewGate(backend.Guards, cfg.Guard.PasswordMode, m)

	if cfg.Guard.SeedDefaults {
		boot := bootstrap.NewUseCase(backend.Guards, backend.Guards, backend.Roster, backend.Notifier, csvimport.NewParser(), cfg.Guard.PasswordMode)
		if _, err := boot.SeedGuards(ctx); err != nil {
			return fmt.Errorf("sembrar guardias: %w", err)
		}
	}

	// QR: el mismo codec genera (portal empleado) y lee (portería)
	codec := qr.NewCodec(qrcode.NewEncoder(cfg.QR), qrcode.NewDecoder(true), cfg.Beneficio.FechaLimite)
	scanner := qr.NewScanner(codec, m)
	verifier := verification.NewVerificationUseCase(backend.Roster, backend.Notifier, m)
	employeeUC := employee.NewUseCase(backend.Roster, codec, infrapdf.NewMarotoCardGenerator(), cfg.Beneficio)

	// Las sesiones de guardia viven lo mismo que su token
	sessions := verification.NewSessionRegistry(time.Duration(cfg.JWT.Expiration) * time.Minute)
	go sweepSessions(ctx, sessions, log)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ReadTimeout:           time.Second * 10,
		// sin WriteTimeout: /api/nomina/eventos mantiene la respuesta abierta
		IdleTimeout:           time.Second * 60,
		BodyLimit:             32 << 20,
		DisableStartupMessage: cfg.App.Env == "test",
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), "/health", "/metrics"))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Beneficios API",
		}))
	} else {
		log.Warn().Str("archivo", swaggerFile).Msg("documentación swagger no disponible")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Context:     ctx,
		Gate:        gate,
		Session:     verification.SessionDeps{Gate: gate, Verifier: verifier, Scanner: scanner},
		Sessions:    sessions,
		EmployeeUC:  employeeUC,
		Subscriber:  backend.Notifier,
		RosterEvent: cfg.Store.RosterChannel,
		Metrics:     m.Handler(),
		JWT:         cfg.JWT,
		ServiceName: cfg.App.Name,
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-ctx.Done():
	}
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	return nil
}

// sweepSessions quita periódicamente las sesiones de guardia vencidas o terminadas.
func sweepSessions(ctx context.Context, sessions *verification.SessionRegistry, log *logger.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				log.Debug().Int("sesiones", n).Int("activas", sessions.Len()).Msg("sesiones de guardia expiradas")
			}
		}
	}
}


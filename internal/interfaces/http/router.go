package http

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/beneficios-api/internal/application/employee"
	"github.com/jhoicas/beneficios-api/internal/application/guard"
	"github.com/jhoicas/beneficios-api/internal/application/verification"
	"github.com/jhoicas/beneficios-api/internal/domain/repository"
	"github.com/jhoicas/beneficios-api/pkg/config"
	"github.com/jhoicas/beneficios-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Context     context.Context // termina los streams de eventos al apagar
	Gate        *guard.Gate
	Session     verification.SessionDeps
	Sessions    *verification.SessionRegistry
	EmployeeUC  *employee.UseCase
	Subscriber  repository.RosterSubscriber
	RosterEvent string
	Metrics     http.Handler // nil = sin /metrics
	JWT         config.JWTConfig
	ServiceName string
}

// Router registra las rutas del portal.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Context == nil {
		deps.Context = context.Background()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	auth := AuthMiddleware(deps.JWT.Secret)

	// Guardia: login público; el resto requiere token de guardia y sesión viva
	guardHandler := NewGuardHandler(deps.Gate, deps.Session, deps.Sessions, deps.JWT)
	api.Post("/guardia/login", guardHandler.Login)
	guardGroup := api.Group("/guardia", auth, RequireRole(jwt.RoleGuardia), GuardSessionMiddleware(deps.Sessions))
	guardGroup.Post("/logout", guardHandler.Logout)
	guardGroup.Get("/trabajadores/:rut", guardHandler.Worker)
	guardGroup.Get("/actual", guardHandler.Current)
	guardGroup.Delete("/actual", guardHandler.Cancel)
	guardGroup.Post("/entregas", guardHandler.Confirm)
	guardGroup.Post("/escaneos", guardHandler.Scan)
	guardGroup.Get("/ultima-entrega", guardHandler.LastDelivery)

	// Empleado
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC, deps.JWT)
	api.Post("/empleado/login", employeeHandler.Login)
	employeeGroup := api.Group("/empleado", auth, RequireRole(jwt.RoleEmpleado))
	employeeGroup.Get("/beneficio", employeeHandler.Benefit)
	employeeGroup.Get("/qr", employeeHandler.QR)
	employeeGroup.Get("/qr/tarjeta", employeeHandler.Card)

	// Nómina: avisos de cambios para ambos portales
	if deps.Subscriber != nil {
		events := NewEventsHandler(deps.Context, deps.Subscriber, deps.RosterEvent, 0)
		api.Get("/nomina/eventos", auth, RequireRole(jwt.RoleGuardia, jwt.RoleEmpleado), events.Stream)
	}
}

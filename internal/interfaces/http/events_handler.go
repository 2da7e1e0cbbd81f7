package http

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/beneficios-api/internal/domain/repository"
)

// EventsHandler stream de eventos (SSE) "la nómina cambió" para las pantallas abiertas.
type EventsHandler struct {
	base      context.Context
	sub       repository.RosterSubscriber
	event     string
	keepAlive time.Duration
}

// NewEventsHandler construye el handler. base termina todos los streams al apagar el servidor.
func NewEventsHandler(base context.Context, sub repository.RosterSubscriber, event string, keepAlive time.Duration) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	return &EventsHandler{base: base, sub: sub, event: event, keepAlive: keepAlive}
}

// Stream godoc
// @Summary      Eventos de cambios de nómina
// @Description  text/event-stream; un evento por aviso. El cliente debe volver a leer la nómina.
// @Tags         nomina
// @Produce      text/event-stream
// @Router       /api/nomina/eventos [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	ctx, cancel := context.WithCancel(h.base)
	ch, err := h.sub.SubscribeRoster(ctx)
	if err != nil {
		cancel()
		return writeError(c, fmt.Errorf("suscribir avisos: %w", err))
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		fmt.Fprint(w, "retry: 3000\n\n")
		if err := w.Flush(); err != nil {
			return
		}
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: %s\ndata: {}\n\n", h.event)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				log.Debug().Err(err).Msg("cliente de eventos desconectado")
				return
			}
		}
	}))
	return nil
}

package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	s.app.Get("/", s.healthCheckHandler)
	s.app.Get("/webhook", s.verifyWebhookHandler)
	s.app.Post("/webhook", s.inboundWebhookHandler)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
}

package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kwresearch/internal/handlers/api"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(keywords *api.KeywordHandler) {
	s.App.Get("/health", api.Health)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v := s.App.Group("/api")

	kw := v.Group("/keywords")
	kw.Get("/ideas", keywords.Ideas)
	kw.Post("/metrics", keywords.Metrics)
	kw.Post("/historical", keywords.Historical)
	kw.Get("/popular", keywords.Popular)

	serp := v.Group("/serp")
	serp.Get("/analyze", api.SerpAnalyze)
	serp.Get("/features", api.SerpFeatures)

	competitors := v.Group("/competitors")
	competitors.Get("/analyze", api.CompetitorsAnalyze)
	competitors.Get("/backlinks", api.CompetitorsBacklinks)
}

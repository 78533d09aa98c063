package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Routes
// ============================================================

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)
	r.Get("/health/startup", h.Startup)
	r.Get("/docs", APIDocs)
	r.Get("/docs/openapi.yaml", APISpec)
}

func (h *DesignHandler) Register(r fiber.Router) {
	r.Post("/designs", h.Create)
	r.Get("/designs/:id", h.Get)
	r.Delete("/designs/:id", h.Delete)

	r.Put("/designs/:id/articulation", h.SetArticulation)
	r.Post("/designs/:id/articulation/toggle", h.Toggle)
	r.Post("/designs/:id/tick", h.Tick)
	r.Post("/designs/:id/drag", h.Drag)
	r.Put("/designs/:id/view/zoom", h.Zoom)
	r.Post("/designs/:id/view/reset", h.ResetView)

	r.Put("/designs/:id/mechanism", h.SetMechanism)
	r.Put("/designs/:id/card", h.SetCard)
	r.Put("/designs/:id/material", h.SetMaterial)

	r.Post("/designs/:id/elements", h.AddElement)
	r.Patch("/designs/:id/elements/:eid", h.UpdateElement)
	r.Delete("/designs/:id/elements/:eid", h.DeleteElement)
	r.Put("/designs/:id/selection", h.Select)

	r.Post("/designs/:id/papers", h.AddPaper)
	r.Patch("/designs/:id/papers/:idx", h.UpdatePaper)
	r.Delete("/designs/:id/papers/:idx", h.DeletePaper)

	r.Get("/designs/:id/placements", h.Placements)
	r.Get("/designs/:id/pattern", h.Pattern)
	r.Get("/designs/:id/pattern.svg", h.PatternSVG)
	r.Get("/designs/:id/pattern.png", h.PatternPNG)
	r.Get("/designs/:id/preview.png", h.Preview)
	r.Get("/designs/:id/guide", h.Guide)
	r.Get("/designs/:id/export", h.Export)

	r.Post("/designs/:id/save", h.Save)
	r.Post("/designs/:id/load", h.Load)
	r.Post("/designs/:id/exports", h.WriteExports)
	r.Get("/saved", h.ListSaved)
	r.Delete("/saved/:id", h.DeleteSaved)

	r.Post("/patterns/inspect", Inspect)
}

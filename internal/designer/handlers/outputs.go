package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"popup-designer/internal/designer/mapper"
	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/pattern"
	"popup-designer/internal/designer/placement"
	"popup-designer/internal/designer/service"
)

// ============================================================
// Derived outputs
// ============================================================

// Placements derives the 3D parts. ?motion= overrides the session clock.
func (h *DesignHandler) Placements(c fiber.Ctx) error {
	var g models.Geometry
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		g = placement.Derive(placement.FromState(s.State, floatQuery(c, "motion", s.Motion)))
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(g)
}

func (h *DesignHandler) lineSet(id string) (models.LineSet, error) {
	var ls models.LineSet
	err := h.sessions.With(id, func(s *service.Session) error {
		ls = pattern.Derive(s.State.Card(), s.State.Elements())
		return nil
	})
	return ls, err
}

func (h *DesignHandler) Pattern(c fiber.Ctx) error {
	ls, err := h.lineSet(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ls)
}

func (h *DesignHandler) PatternSVG(c fiber.Ctx) error {
	ls, err := h.lineSet(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	svg, err := mapper.NewRenderer().RenderSVG(ls)
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// PatternPNG rasterizes the pattern at ?scale= pixels per millimetre.
func (h *DesignHandler) PatternPNG(c fiber.Ctx) error {
	ls, err := h.lineSet(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	var buf bytes.Buffer
	if err := mapper.NewRenderer().RenderPNG(&buf, ls, floatQuery(c, "scale", 4)); err != nil {
		return fail(c, err)
	}
	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}

// Preview renders the current 3D state seen through the session view.
func (h *DesignHandler) Preview(c fiber.Ctx) error {
	var buf bytes.Buffer
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		g := placement.Derive(placement.FromState(s.State, s.Motion))
		return mapper.NewRenderer().RenderPreview(&buf, g, s.View, int(floatQuery(c, "size", 512)))
	})
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}

// Guide returns the construction guide, as text with ?format=text.
func (h *DesignHandler) Guide(c fiber.Ctx) error {
	var g mapper.Guide
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		g = mapper.BuildGuide(s.State)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	if c.Query("format") == "text" {
		c.Set("Content-Type", "text/plain; charset=utf-8")
		return c.SendString(g.Text())
	}
	return c.JSON(g)
}

// Export downloads the design as a timestamped JSON snapshot.
func (h *DesignHandler) Export(c fiber.Ctx) error {
	now := time.Now()
	var snap models.Snapshot
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		snap = service.ExportSnapshot(s.State, now)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="popup-card-%d.json"`, now.UnixMilli()))
	return c.JSON(snap)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/service"
)

// ============================================================
// Elements & selection
// ============================================================

func (h *DesignHandler) AddElement(c fiber.Ctx) error {
	var el models.Element
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		id := s.AddElement()
		el, _ = s.State.Element(id)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": el.ID, "element": el})
}

// UpdateElement takes either a JSON number, stored clamped, or the raw text
// of an input field, which goes through the configured parse policy.
func (h *DesignHandler) UpdateElement(c fiber.Ctx) error {
	eid, err := intParam(c, "eid")
	if err != nil {
		return fail(c, err)
	}
	var req struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if err := decode(c, &req, false); err != nil {
		return badRequest(c, err.Error())
	}
	field, err := models.ParseField(req.Field)
	if err != nil {
		return fail(c, err)
	}

	var stored float64
	var el models.Element
	err = h.sessions.With(c.Params("id"), func(s *service.Session) error {
		var v float64
		var err error
		if n, ok := numberValue(req.Value); ok {
			v, err = s.State.SetElement(eid, field, n)
		} else {
			v, err = s.State.UpdateElement(eid, field, rawValue(req.Value))
		}
		if err != nil {
			return err
		}
		stored = v
		el, err = s.State.Element(eid)
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"field": field, "value": stored, "element": el})
}

func (h *DesignHandler) DeleteElement(c fiber.Ctx) error {
	eid, err := intParam(c, "eid")
	if err != nil {
		return fail(c, err)
	}

	var selected int
	err = h.sessions.With(c.Params("id"), func(s *service.Session) error {
		if err := s.RemoveElement(eid); err != nil {
			return err
		}
		selected = s.Selected
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"selected": selected})
}

func (h *DesignHandler) Select(c fiber.Ctx) error {
	var req struct {
		ID int `json:"id"`
	}
	if err := decode(c, &req, false); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		return s.Select(req.ID)
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"selected": req.ID})
}

// ============================================================
// Paper layers
// ============================================================

type paperRequest struct {
	Color string `json:"color"`
}

func (h *DesignHandler) AddPaper(c fiber.Ctx) error {
	var req paperRequest
	if err := decode(c, &req, true); err != nil {
		return badRequest(c, err.Error())
	}

	var index int
	var layers []models.PaperLayer
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		index = s.State.AddPaperLayer(req.Color)
		layers = s.State.PaperLayers()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"index": index, "paperLayers": layers})
}

func (h *DesignHandler) UpdatePaper(c fiber.Ctx) error {
	idx, err := intParam(c, "idx")
	if err != nil {
		return fail(c, err)
	}
	var req paperRequest
	if err := decode(c, &req, false); err != nil {
		return badRequest(c, err.Error())
	}

	var layers []models.PaperLayer
	err = h.sessions.With(c.Params("id"), func(s *service.Session) error {
		if err := s.State.SetPaperColor(idx, req.Color); err != nil {
			return err
		}
		layers = s.State.PaperLayers()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"paperLayers": layers})
}

func (h *DesignHandler) DeletePaper(c fiber.Ctx) error {
	idx, err := intParam(c, "idx")
	if err != nil {
		return fail(c, err)
	}

	var layers []models.PaperLayer
	err = h.sessions.With(c.Params("id"), func(s *service.Session) error {
		if err := s.State.RemovePaperLayer(idx); err != nil {
			return err
		}
		layers = s.State.PaperLayers()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"paperLayers": layers})
}

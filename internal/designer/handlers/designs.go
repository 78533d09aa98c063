package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/motion"
	"popup-designer/internal/designer/repository"
	"popup-designer/internal/designer/service"
)

// ============================================================
// Design Handler
// ============================================================

// MaxTickFrames bounds one tick request.
const MaxTickFrames = 1000

type DesignHandler struct {
	sessions *service.Manager
	repo     *repository.Repository
	storage  *service.FileStorage
}

func NewDesignHandler(sessions *service.Manager, repo *repository.Repository, storage *service.FileStorage) *DesignHandler {
	return &DesignHandler{
		sessions: sessions,
		repo:     repo,
		storage:  storage,
	}
}

type articulationPayload struct {
	Fraction      float64 `json:"fraction"`
	Angle         float64 `json:"angle"`
	Degrees       float64 `json:"degrees"`
	SignedDegrees float64 `json:"signedDegrees"`
}

type designResponse struct {
	ID            string              `json:"id"`
	Selected      int                 `json:"selected"`
	MechanismName string              `json:"mechanismName"`
	Articulation  articulationPayload `json:"articulation"`
	Animating     bool                `json:"animating"`
	View          motion.View         `json:"view"`
	Design        models.Snapshot     `json:"design"`
}

func articulation(a models.Articulation) articulationPayload {
	return articulationPayload{
		Fraction:      float64(a),
		Angle:         a.Angle(),
		Degrees:       a.Degrees(),
		SignedDegrees: a.SignedDegrees(),
	}
}

func describe(s *service.Session) designResponse {
	return designResponse{
		ID:            s.ID,
		Selected:      s.Selected,
		MechanismName: s.State.Mechanism().DisplayName(),
		Articulation:  articulation(s.State.Articulation()),
		Animating:     s.Animator.Active(),
		View:          s.View,
		Design:        s.State.Snapshot(),
	}
}

// Create opens a design, optionally restored from a snapshot body.
func (h *DesignHandler) Create(c fiber.Ctx) error {
	var snap *models.Snapshot
	if len(c.Body()) > 0 {
		snap = &models.Snapshot{}
		if err := decode(c, snap, false); err != nil {
			return badRequest(c, err.Error())
		}
	}

	sess := h.sessions.Create(snap)
	log.Printf("[DESIGNER] Created design %s (%s)", sess.ID, sess.State.Mechanism())
	return c.Status(http.StatusCreated).JSON(describe(sess))
}

func (h *DesignHandler) Get(c fiber.Ctx) error {
	var out designResponse
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		out = describe(s)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *DesignHandler) Delete(c fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return fail(c, err)
	}
	log.Printf("[DESIGNER] Closed design %s", c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Articulation & motion
// ============================================================

// SetArticulation jumps to value, or eases toward it when animate is set.
func (h *DesignHandler) SetArticulation(c fiber.Ctx) error {
	var req struct {
		Value   *float64 `json:"value"`
		Animate bool     `json:"animate"`
	}
	if err := decode(c, &req, false); err != nil {
		return badRequest(c, err.Error())
	}
	if req.Value == nil {
		return badRequest(c, "value required")
	}

	var a, target models.Articulation
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		if req.Animate {
			target = s.AnimateTo(*req.Value)
			a = s.State.Articulation()
			return nil
		}
		a = s.SetArticulation(*req.Value)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	if req.Animate {
		return c.JSON(fiber.Map{
			"target":       articulation(target),
			"articulation": articulation(a),
			"animating":    true,
		})
	}
	return c.JSON(fiber.Map{"articulation": articulation(a)})
}

func (h *DesignHandler) Toggle(c fiber.Ctx) error {
	var target models.Articulation
	var current models.Articulation
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		target = s.Toggle()
		current = s.State.Articulation()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"target":       articulation(target),
		"articulation": articulation(current),
		"animating":    true,
	})
}

func (h *DesignHandler) Tick(c fiber.Ctx) error {
	req := struct {
		Frames int     `json:"frames"`
		Motion float64 `json:"motion"`
	}{Frames: 1}
	if err := decode(c, &req, true); err != nil {
		return badRequest(c, err.Error())
	}
	if req.Frames < 0 || req.Frames > MaxTickFrames {
		return fail(c, &models.ValidationError{Field: "frames", Raw: strconv.Itoa(req.Frames), Reason: "out of range"})
	}

	var out fiber.Map
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		a := s.Tick(req.Frames, req.Motion)
		out = fiber.Map{
			"articulation": articulation(a),
			"animating":    s.Animator.Active(),
			"motion":       s.Motion,
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *DesignHandler) Drag(c fiber.Ctx) error {
	var req struct {
		Phase    service.DragPhase `json:"phase"`
		X        float64           `json:"x"`
		Y        float64           `json:"y"`
		Viewport float64           `json:"viewport"`
	}
	if err := decode(c, &req, false); err != nil {
		return badRequest(c, err.Error())
	}

	var out fiber.Map
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		up, err := s.Pointer(req.Phase, req.X, req.Y, req.Viewport)
		if err != nil {
			return err
		}
		out = fiber.Map{
			"gesture":      up.Gesture,
			"articulation": articulation(s.State.Articulation()),
			"view":         s.View,
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Zoom applies one wheel step: positive deltas move the camera away.
func (h *DesignHandler) Zoom(c fiber.Ctx) error {
	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := decode(c, &req, false); err != nil {
		return badRequest(c, err.Error())
	}

	var view motion.View
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		s.View.Zoom(req.Delta)
		view = s.View
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"view": view, "scale": view.Scale()})
}

func (h *DesignHandler) ResetView(c fiber.Ctx) error {
	var view motion.View
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		s.View.Reset()
		view = s.View
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"view": view, "scale": view.Scale()})
}

// ============================================================
// Card, mechanism & material
// ============================================================

func (h *DesignHandler) SetMechanism(c fiber.Ctx) error {
	var req struct {
		Mechanism string `json:"mechanism"`
	}
	if err := decode(c, &req, false); err != nil {
		return badRequest(c, err.Error())
	}
	kind, err := models.ParseMechanism(req.Mechanism)
	if err != nil {
		return fail(c, err)
	}

	err = h.sessions.With(c.Params("id"), func(s *service.Session) error {
		return s.State.SetMechanism(kind)
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"mechanism": kind, "name": kind.DisplayName()})
}

func (h *DesignHandler) SetCard(c fiber.Ctx) error {
	var req struct {
		Width  *float64 `json:"width"`
		Height *float64 `json:"height"`
	}
	if err := decode(c, &req, false); err != nil {
		return badRequest(c, err.Error())
	}

	var card models.Card
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		card = s.State.Card()
		if req.Width != nil {
			card.Width = *req.Width
		}
		if req.Height != nil {
			card.Height = *req.Height
		}
		card = s.State.SetCardSize(card.Width, card.Height)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"card": card, "paperSize": models.PaperSizeFor(card)})
}

func (h *DesignHandler) SetMaterial(c fiber.Ctx) error {
	var req struct {
		models.Material
		ProjectName *string `json:"projectName"`
	}
	if err := decode(c, &req, false); err != nil {
		return badRequest(c, err.Error())
	}

	var out models.Material
	var name string
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		m, err := s.State.SetMaterial(req.Material)
		if err != nil {
			return err
		}
		if req.ProjectName != nil {
			s.State.SetProjectName(*req.ProjectName)
		}
		out, name = m, s.State.ProjectName()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"material": out, "projectName": name})
}

package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/parser"
	"popup-designer/internal/designer/service"
)

// ============================================================
// Persistence & files
// ============================================================

// Save stores the design under its session id.
func (h *DesignHandler) Save(c fiber.Ctx) error {
	id := c.Params("id")
	var snap models.Snapshot
	err := h.sessions.With(id, func(s *service.Session) error {
		snap = s.State.Snapshot()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	if err := h.repo.Save(context.Background(), id, snap); err != nil {
		return fail(c, err)
	}
	log.Printf("[REPO] Saved design %s", id)
	return c.JSON(fiber.Map{"id": id, "saved": true})
}

// Load restores a stored design into the session. The body may name
// another stored design: {"from": "<id>"}.
func (h *DesignHandler) Load(c fiber.Ctx) error {
	id := c.Params("id")
	var req struct {
		From string `json:"from"`
	}
	if err := decode(c, &req, true); err != nil {
		return badRequest(c, err.Error())
	}
	from := req.From
	if from == "" {
		from = id
	}

	snap, err := h.repo.Load(context.Background(), from)
	if err != nil {
		return fail(c, err)
	}
	if err := h.sessions.Replace(id, snap); err != nil {
		return fail(c, err)
	}
	log.Printf("[REPO] Loaded design %s into %s", from, id)
	return h.Get(c)
}

func (h *DesignHandler) ListSaved(c fiber.Ctx) error {
	list, err := h.repo.List(context.Background())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *DesignHandler) DeleteSaved(c fiber.Ctx) error {
	if err := h.repo.Delete(context.Background(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// WriteExports writes every rendering of the design to the export dir.
func (h *DesignHandler) WriteExports(c fiber.Ctx) error {
	var files []string
	err := h.sessions.With(c.Params("id"), func(s *service.Session) error {
		var err error
		files, err = h.storage.WriteExports(s, time.Now())
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"files": files})
}

// ============================================================
// Pattern inspection
// ============================================================

// Inspect reads an uploaded flat pattern SVG and reports its lines.
func Inspect(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file required in multipart/form-data")
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".svg" {
		return badRequest(c, "only svg allowed")
	}
	log.Printf("[DESIGNER] Inspecting %s, size: %d", fileHeader.Filename, fileHeader.Size)

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	ls, err := parser.ParseSVG(io.LimitReader(f, 8<<20))
	if err != nil {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid svg: " + err.Error()})
	}

	elements := map[int]struct{}{}
	for _, s := range ls.Lines {
		if s.ElementID != 0 {
			elements[s.ElementID] = struct{}{}
		}
	}
	return c.JSON(fiber.Map{
		"pattern":  ls,
		"cuts":     ls.Count(models.LineCut),
		"folds":    ls.Count(models.LineFold),
		"elements": len(elements),
	})
}

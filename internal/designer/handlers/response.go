package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"popup-designer/internal/designer/models"
)

// ============================================================
// Request & error helpers
// ============================================================

// fail maps domain errors onto status codes.
func fail(c fiber.Ctx, err error) error {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrLastElement):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrUnknownMechanism), errors.As(err, &verr):
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[DESIGNER] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// decode reads a JSON body into v. An empty body is an error unless
// optional is set.
func decode(c fiber.Ctx, v any, optional bool) error {
	body := c.Body()
	if len(body) == 0 {
		if optional {
			return nil
		}
		return fmt.Errorf("empty body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid json")
	}
	return nil
}

func intParam(c fiber.Ctx, name string) (int, error) {
	v, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, &models.ValidationError{Field: name, Raw: c.Params(name), Reason: "expected an integer"}
	}
	return v, nil
}

func floatQuery(c fiber.Ctx, name string, def float64) float64 {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return def
}

// rawValue returns the text of a string value, or the literal JSON
// otherwise; the text is handed to the parse policy unchanged.
func rawValue(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	return string(msg)
}

// numberValue reports whether msg is a JSON number.
func numberValue(msg json.RawMessage) (float64, bool) {
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

package cellr

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/cespare/xxhash/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
)

// NewApp mounts the cell inspection API onto a fiber app: realized
// geometry by token, the four children, the parent at an optional level,
// plus health and prometheus endpoints.
func NewApp(source *Source) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "cellr",
		ErrorHandler: errorHandler,
	})

	app.Use(compress.New())

	// The middleware must share the process-global registry with the
	// domain counters so one exposition carries both.
	prom := fiberprometheus.NewWithDefaultRegistry("cellr")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Get("/healthz", handleHealth)

	v1 := app.Group("/v1")
	v1.Get("/cells/:token", handleCell(source))
	v1.Get("/cells/:token/children", handleChildren(source))
	v1.Get("/cells/:token/parent", handleParent(source))

	return app
}

func handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func handleCell(source *Source) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cell, err := cellFromParams(c)
		if err != nil {
			return err
		}

		g, err := source.Geometry(cell)
		if err != nil {
			return err
		}

		return respondJSON(c, g)
	}
}

func handleChildren(source *Source) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cell, err := cellFromParams(c)
		if err != nil {
			return err
		}

		children := make([]Geometry, 0, 4)
		for index := range 4 {
			child, err := cell.Child(index)
			if err != nil {
				return fiber.NewError(statusFromError(err), err.Error())
			}

			g, err := source.Geometry(child)
			if err != nil {
				return err
			}
			children = append(children, g)
		}

		return respondJSON(c, children)
	}
}

func handleParent(source *Source) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cell, err := cellFromParams(c)
		if err != nil {
			return err
		}

		var parent Cell
		if rawLevel := c.Query("level"); rawLevel != "" {
			level, err := strconv.Atoi(rawLevel)
			if err != nil {
				return fiber.NewError(
					fiber.StatusBadRequest,
					"level must be an integer",
				)
			}
			parent, err = cell.ParentAtLevel(level)
			if err != nil {
				return fiber.NewError(statusFromError(err), err.Error())
			}
		} else {
			parent, err = cell.Parent()
			if err != nil {
				return fiber.NewError(statusFromError(err), err.Error())
			}
		}

		g, err := source.Geometry(parent)
		if err != nil {
			return err
		}

		return respondJSON(c, g)
	}
}

// cellFromParams resolves the token path parameter into a Cell. Rejected
// tokens are counted and surface as 400.
func cellFromParams(c *fiber.Ctx) (Cell, error) {
	cell, err := FromToken(c.Params("token"))
	if err != nil {
		instrumentTokenRejected()
		return Cell{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return cell, nil
}

// respondJSON sends v as JSON with a strong ETag over the encoded body.
func respondJSON(c *fiber.Ctx, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderETag, strconv.FormatUint(xxhash.Sum64(body), 16))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(body)
}

// statusFromError maps domain errors onto status codes: unparseable
// input is a 400, structurally impossible navigation a 422.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidCellID):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrLeafCell), errors.Is(err, ErrRootCell), errors.Is(err, ErrLevelRange):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

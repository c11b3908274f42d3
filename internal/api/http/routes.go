package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/skywatch/stargazing-api/internal/astro"
	"github.com/skywatch/stargazing-api/internal/conditions"
	"github.com/skywatch/stargazing-api/internal/geo"
	"github.com/skywatch/stargazing-api/internal/scoring"
	"github.com/skywatch/stargazing-api/internal/search"
	"github.com/skywatch/stargazing-api/internal/store"
)

var validate = validator.New()

// Deps bundles the services the HTTP layer depends on.
type Deps struct {
	Resolver   *search.Resolver
	Conditions *conditions.Service
	Reverse    search.ReverseGeocoder
	Pins       *store.PinStore
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. Every response
// carries a requestId so the caller can discard stale in-flight answers when
// a newer request supersedes them.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		var req searchQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		list, err := deps.Resolver.Resolve(c.Context(), req.Q, search.Options{
			Limit:     req.Limit,
			UserPoint: req.userPoint(),
		})
		if err != nil {
			return searchErrorResponse(c, err)
		}

		return c.JSON(fiber.Map{
			"requestId": uuid.NewString(),
			"query":     list.Query,
			"results":   list.Results,
		})
	})

	v1.Get("/locations/suggest", func(c *fiber.Ctx) error {
		list, err := deps.Resolver.Suggest(c.Context(), c.Query("q"))
		if err != nil {
			return searchErrorResponse(c, err)
		}

		return c.JSON(fiber.Map{
			"requestId":   uuid.NewString(),
			"query":       list.Query,
			"suggestions": list.Results,
		})
	})

	v1.Get("/locations/reverse", func(c *fiber.Ctx) error {
		pt, err := parsePointQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		name, err := deps.Reverse.Reverse(c.Context(), pt)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "reverse geocoding unavailable")
		}

		return c.JSON(fiber.Map{
			"point":       pt,
			"displayName": name,
		})
	})

	v1.Get("/conditions", func(c *fiber.Ctx) error {
		pt, err := parsePointQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		bundle, err := deps.Conditions.Fetch(c.Context(), pt)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch conditions")
		}
		return c.JSON(bundle)
	})

	v1.Get("/score", func(c *fiber.Ctx) error {
		pt, err := parsePointQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		policy := c.Query("policy", "ultimate")
		if policy != "ultimate" && policy != "compact" {
			return fiber.NewError(fiber.StatusBadRequest, "policy must be ultimate or compact")
		}

		bundle, err := deps.Conditions.Fetch(c.Context(), pt)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch conditions")
		}

		var score *scoring.Score
		if policy == "compact" {
			score, err = scoring.CompactSuitability(bundle)
		} else {
			score, err = scoring.Suitability(bundle)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(score)
	})

	v1.Get("/windows", func(c *fiber.Ctx) error {
		pt, err := parsePointQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		date := time.Now().UTC()
		if raw := c.Query("date"); raw != "" {
			date, err = time.Parse("2006-01-02", raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
		}

		bundle, err := deps.Conditions.Fetch(c.Context(), pt)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch conditions")
		}

		plan, err := scoring.ComputeWindows(pt, bundle.Sky, bundle.Light, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(plan)
	})

	v1.Get("/constellations", func(c *fiber.Ctx) error {
		pt, err := parsePointQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		at := time.Now().UTC()
		if raw := c.Query("at"); raw != "" {
			at, err = time.Parse(time.RFC3339, raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "at must be RFC3339")
			}
		}

		return c.JSON(astro.ComputeVisibility(pt, at))
	})

	registerPinRoutes(v1, deps)
}

func registerPinRoutes(v1 fiber.Router, deps Deps) {
	v1.Post("/pins", func(c *fiber.Ctx) error {
		var req pinRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		pt, err := geo.NewPoint(req.Lat, req.Lon)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Pin immediately; conditions are attached best-effort.
		bundle, err := deps.Conditions.Fetch(c.Context(), pt)
		if err != nil {
			bundle = nil
		}

		pin := deps.Pins.Add(req.Label, pt, bundle)
		return c.Status(fiber.StatusCreated).JSON(pin)
	})

	v1.Get("/pins", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"pins": deps.Pins.List()})
	})

	v1.Get("/pins/:id", func(c *fiber.Ctx) error {
		pin, err := deps.Pins.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no such pin")
		}
		return c.JSON(pin)
	})

	v1.Delete("/pins/:id", func(c *fiber.Ctx) error {
		if err := deps.Pins.Remove(c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no such pin")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// searchErrorResponse maps resolver errors onto HTTP responses. NotFound
// carries the attempted variants so a UI can suggest alternatives.
func searchErrorResponse(c *fiber.Ctx, err error) error {
	var nf *search.NotFoundError
	if errors.As(err, &nf) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":             true,
			"message":           "no locations found",
			"attemptedVariants": nf.Variants,
		})
	}

	var ge *search.GatewayError
	if errors.As(err, &ge) {
		return fiber.NewError(fiber.StatusBadGateway, "geocoding unavailable")
	}

	if errors.Is(err, search.ErrEmptyQuery) || errors.Is(err, search.ErrQueryTooShort) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return fiber.NewError(fiber.StatusInternalServerError, "search failed")
}

// searchQuery holds query parameters for the search endpoint.
type searchQuery struct {
	Q     string `validate:"required"`
	Limit int    `validate:"gte=0,lte=50"`
	Lat   *float64
	Lon   *float64
}

func (q *searchQuery) bind(c *fiber.Ctx) error {
	q.Q = c.Query("q")

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		q.Limit = n
	}

	if latRaw, lonRaw := c.Query("lat"), c.Query("lon"); latRaw != "" || lonRaw != "" {
		if latRaw == "" || lonRaw == "" {
			return errors.New("lat and lon must be provided together")
		}
		lat, err := strconv.ParseFloat(latRaw, 64)
		if err != nil {
			return errors.New("lat must be a number")
		}
		lon, err := strconv.ParseFloat(lonRaw, 64)
		if err != nil {
			return errors.New("lon must be a number")
		}
		q.Lat, q.Lon = &lat, &lon
	}

	return validate.Struct(q)
}

func (q *searchQuery) userPoint() *geo.Point {
	if q.Lat == nil || q.Lon == nil {
		return nil
	}
	pt, err := geo.NewPoint(*q.Lat, *q.Lon)
	if err != nil {
		return nil
	}
	return &pt
}

// pinRequest is the POST /pins body.
type pinRequest struct {
	Label string  `json:"label" validate:"required"`
	Lat   float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon   float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// parsePointQuery reads required lat/lon query parameters.
func parsePointQuery(c *fiber.Ctx) (geo.Point, error) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return geo.Point{}, errors.New("lat is required and must be a number")
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return geo.Point{}, errors.New("lon is required and must be a number")
	}
	return geo.NewPoint(lat, lon)
}

package http

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"

	"github.com/barcadehq/arcade-tracker/internal/domain"
	"github.com/barcadehq/arcade-tracker/internal/repository"
	"github.com/barcadehq/arcade-tracker/internal/service"
	"github.com/barcadehq/arcade-tracker/internal/timeseries"
)

var validate = validator.New()

// Register wires all routes onto the app.
func Register(app *fiber.App, svcs *service.Services) {
	store := session.New(session.Config{
		KeyLookup:  "cookie:arcade_session",
		Expiration: 12 * time.Hour,
	})

	app.Post("/login", login(store, svcs))
	app.Get("/logout", logout(store))

	app.Get("/locations", listLocations(svcs))
	app.Get("/locations/:id", getLocation(svcs))
	app.Get("/machines", listMachines(svcs))
	app.Get("/machines/:id", getMachine(svcs))

	user := app.Group("/", requireUser(store))
	user.Post("select-location", selectLocation(store))
	user.Post("machines/:id/report-fault", reportFault(svcs))
	user.Post("machines/:id/report-fix", reportFix(svcs))
	user.Post("machines/:id/revenue", logRevenue(svcs))
	user.Get("machines/:id/history", machineHistory(svcs))
	user.Get("machines/:id/series/status", statusSeries(svcs))

	mgr := user.Group("", requireManager())
	mgr.Get("machines/:id/series/revenue", revenueSeries(svcs))
	mgr.Put("locations/:id/settings", saveLocationSettings(svcs))
	mgr.Post("machines/:id/reports/revenue", exportRevenueReport(svcs))
	mgr.Get("reports", listReports(svcs))
	mgr.Delete("reports", deleteReport(svcs))
}

func login(store *session.Store, svcs *service.Services) fiber.Handler {
	type req struct {
		PIN string `json:"pin" form:"pin" validate:"required,len=4,numeric"`
	}
	return func(c *fiber.Ctx) error {
		var body req
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "pin required")
		}
		if err := validate.Struct(body); err != nil {
			return badRequest(c, "pin must be 4 digits")
		}
		u, err := svcs.Repos.GetUserByPIN(body.PIN)
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown pin"})
		}
		if err != nil {
			return respondErr(c, err)
		}
		sess, err := store.Get(c)
		if err != nil {
			return respondErr(c, err)
		}
		sess.Set("user_id", u.ID)
		sess.Set("name", u.Name)
		sess.Set("role", string(u.Role))
		if err := sess.Save(); err != nil {
			return respondErr(c, err)
		}
		return c.JSON(u)
	}
}

func logout(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err == nil {
			_ = sess.Destroy()
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

func selectLocation(store *session.Store) fiber.Handler {
	type req struct {
		LocationID int64 `json:"location_id" form:"location_id" validate:"required,gt=0"`
	}
	return func(c *fiber.Ctx) error {
		var body req
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "location_id required")
		}
		if err := validate.Struct(body); err != nil {
			return badRequest(c, "location_id required")
		}
		sess, err := store.Get(c)
		if err != nil {
			return respondErr(c, err)
		}
		sess.Set("location_id", body.LocationID)
		if err := sess.Save(); err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

func listLocations(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListLocations()
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(items)
	}
}

func getLocation(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "invalid location id")
		}
		loc, err := svcs.Repos.GetLocation(int64(id))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(loc)
	}
}

func saveLocationSettings(svcs *service.Services) fiber.Handler {
	type req struct {
		Rows       int     `json:"rows" form:"rows" validate:"required,gt=0"`
		Columns    int     `json:"columns" form:"columns" validate:"required,gt=0"`
		CellSize   int     `json:"cell_size" form:"cell_size" validate:"required,gt=0"`
		TokenValue float64 `json:"token_value" form:"token_value" validate:"gte=0"`
	}
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "invalid location id")
		}
		var body req
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "invalid settings payload")
		}
		if err := validate.Struct(body); err != nil {
			return badRequest(c, err.Error())
		}
		if err := svcs.Repos.UpdateLocationSettings(int64(id), body.Rows, body.Columns, body.CellSize, body.TokenValue); err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

func listMachines(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locationID := int64(c.QueryInt("location_id"))
		items, err := svcs.Machines.List(locationID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(items)
	}
}

func getMachine(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "invalid machine id")
		}
		m, err := svcs.Machines.Get(int64(id))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(m)
	}
}

func reportFault(svcs *service.Services) fiber.Handler {
	type req struct {
		Status  string `json:"status" form:"status" validate:"required,oneof=needs_maintenance out_of_order"`
		Comment string `json:"comment" form:"comment"`
	}
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "invalid machine id")
		}
		var body req
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "invalid fault payload")
		}
		if err := validate.Struct(body); err != nil {
			return badRequest(c, err.Error())
		}
		m, err := svcs.Machines.ReportFault(c.Context(), int64(id), currentUserID(c), domain.MachineStatus(body.Status), body.Comment)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(m)
	}
}

func reportFix(svcs *service.Services) fiber.Handler {
	type req struct {
		Comment string `json:"comment" form:"comment"`
	}
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "invalid machine id")
		}
		var body req
		_ = c.BodyParser(&body)
		m, err := svcs.Machines.ReportFix(c.Context(), int64(id), currentUserID(c), body.Comment)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(m)
	}
}

func logRevenue(svcs *service.Services) fiber.Handler {
	type req struct {
		Amount  float64 `json:"amount" form:"amount" validate:"gte=0"`
		IsToken bool    `json:"is_token" form:"is_token"`
		Period  string  `json:"period" form:"period"`
	}
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "invalid machine id")
		}
		var body req
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "invalid revenue payload")
		}
		if err := validate.Struct(body); err != nil {
			return badRequest(c, err.Error())
		}
		ev, err := svcs.Revenue.Log(int64(id), currentUserID(c), body.Amount, body.IsToken, body.Period)
		if err != nil {
			return respondErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ev)
	}
}

func machineHistory(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "invalid machine id")
		}
		limit := c.QueryInt("limit", 50)
		entries, err := svcs.Revenue.History(int64(id), limit)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(entries)
	}
}

func statusSeries(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "invalid machine id")
		}
		_, g, w, err := parseSeriesQuery(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		series, err := svcs.Uptime.Series(int64(id), w, g)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(series)
	}
}

func revenueSeries(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "invalid machine id")
		}
		q, g, w, err := parseSeriesQuery(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		if q.Mode == "raw" {
			series, err := svcs.Revenue.RawSeries(int64(id), w)
			if err != nil {
				return respondErr(c, err)
			}
			return c.JSON(series)
		}
		series, err := svcs.Revenue.BucketedSeries(int64(id), w, g)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(series)
	}
}

func exportRevenueReport(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "invalid machine id")
		}
		_, g, w, err := parseSeriesQuery(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		url, err := svcs.Reports.ExportRevenueCSV(c.Context(), int64(id), w, g)
		if err != nil {
			return respondErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
	}
}

func listReports(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keys, err := svcs.Reports.List(c.Context(), int64(c.QueryInt("machine_id")))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"reports": keys})
	}
}

func deleteReport(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Query("key")
		if key == "" {
			return badRequest(c, "key required")
		}
		if err := svcs.Reports.Delete(c.Context(), key); err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

func parseSeriesQuery(c *fiber.Ctx) (seriesQuery, timeseries.Granularity, timeseries.Window, error) {
	var q seriesQuery
	if err := c.QueryParser(&q); err != nil {
		return q, "", timeseries.Window{}, err
	}
	if err := validate.Struct(q); err != nil {
		return q, "", timeseries.Window{}, err
	}
	g, err := timeseries.ParseGranularity(q.Granularity)
	if err != nil {
		return q, "", timeseries.Window{}, err
	}
	w, err := parseWindow(q.Start, q.End, time.Now())
	if err != nil {
		return q, "", timeseries.Window{}, err
	}
	return q, g, w, nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func respondErr(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

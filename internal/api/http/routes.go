package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-alert-relay/internal/weather"
)

// postalCodePattern admits the formats providers accept: digits, letters,
// and inner spaces or hyphens (53217, 53217-1234, K1A 0B6).
var postalCodePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9 -]*[A-Za-z0-9])?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Reporter builds a merged weather/alert report.
type Reporter interface {
	Handle(ctx context.Context, req weather.Request) (weather.Report, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, reporter Reporter) {
	// The original browser client posts {zip, severity, color} to the root.
	app.Post("/", func(c *fiber.Ctx) error {
		var req legacyRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return serveReport(c, reporter, req.toReportRequest())
	})

	v1 := app.Group("/api/v1")

	v1.Post("/report", func(c *fiber.Ctx) error {
		var req reportRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return serveReport(c, reporter, req)
	})

	v1.Get("/report", func(c *fiber.Ctx) error {
		req := reportRequest{
			PostalCode:        c.Query("postalCode"),
			SeverityThreshold: c.QueryInt("severity", weather.MinSeverityRank),
			ColorPreference:   c.Query("color"),
		}
		return serveReport(c, reporter, req)
	})
}

func serveReport(c *fiber.Ctx, reporter Reporter, req reportRequest) error {
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	report, err := reporter.Handle(c.UserContext(), req.toRequest())
	if err != nil {
		if errors.Is(err, weather.ErrUpstreamUnavailable) {
			return fiber.NewError(fiber.StatusBadGateway, "weather provider unavailable")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build report")
	}

	return c.JSON(report)
}

// reportRequest is the body of POST /api/v1/report. The threshold is not
// validated: out-of-range values are clamped by the severity filter.
type reportRequest struct {
	PostalCode        string `json:"postalCode" validate:"required,max=10,postalcode"`
	SeverityThreshold int    `json:"severityThreshold"`
	ColorPreference   string `json:"colorPreference" validate:"max=32"`
}

func (r reportRequest) toRequest() weather.Request {
	return weather.Request{
		PostalCode:        r.PostalCode,
		SeverityThreshold: r.SeverityThreshold,
		ColorPreference:   r.ColorPreference,
	}
}

// legacyRequest is the body the browser client sends to POST /.
type legacyRequest struct {
	Zip      string   `json:"zip"`
	Severity looseInt `json:"severity"`
	Color    string   `json:"color"`
}

func (r legacyRequest) toReportRequest() reportRequest {
	return reportRequest{
		PostalCode:        r.Zip,
		SeverityThreshold: int(r.Severity),
		ColorPreference:   r.Color,
	}
}

// looseInt accepts a JSON number, a numeric string, or null. Values that do
// not parse decode as 0, which the severity filter clamps to the lowest rank.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	var v json.Number
	if err := json.Unmarshal(b, &v); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = 0
			return nil
		}
		v = json.Number(strings.TrimSpace(s))
	}
	i, err := strconv.Atoi(v.String())
	if err != nil {
		f, ferr := v.Float64()
		if ferr != nil {
			*n = 0
			return nil
		}
		i = int(f)
	}
	*n = looseInt(i)
	return nil
}

package api

import (
	"errors"
	"strings"
	"time"

	"vesting-dashboard/chain"
	"vesting-dashboard/core"
	"vesting-dashboard/core/model"
	"vesting-dashboard/core/vesting"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// HeaderViewETag identifies the on-chain figures a beneficiary response was
// built from. It only changes when the contract state does, unlike ETag.
const HeaderViewETag = "X-View-ETag"

type Config struct {
	Symbol string
	// requests per minute per client IP, 0 disables the limiter
	RateLimit int
}

type Server struct {
	app  *fiber.App
	dash *core.Dashboard
	p    presenter
}

func NewServer(dash *core.Dashboard, cfg Config) *Server {
	s := &Server{
		dash: dash,
		p:    presenter{symbol: cfg.Symbol},
	}
	app := fiber.New(fiber.Config{
		AppName:               "Vesting Dashboard API",
		ErrorHandler:          ErrorHandlerFunc,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(etag.New())
	if cfg.RateLimit > 0 {
		app.Use("/api/v1/", limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Minute,
		}))
	}

	app.Get("/healthz", s.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")
	v1.Get("/stats", s.GetStats)
	v1.Get("/beneficiaries/:address", s.GetBeneficiary)
	v1.Get("/beneficiaries/:address/schedules", s.GetSchedules)
	v1.Get("/schedules/:id/progress", s.GetProgress)
	v1.Post("/schedules/:id/release", s.PostRelease)

	s.app = app
	return s
}

func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	logrus.Infof("http api listening on %s", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok", Time: s.dash.Now().UTC()})
}

func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.dash.GlobalStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(StatsResponse{
		Total:          s.p.amount(stats.Total),
		Released:       s.p.amount(stats.Released),
		Locked:         s.p.amount(stats.Locked),
		ReleasePercent: stats.ReleasePercent,
	})
}

func (s *Server) GetBeneficiary(c *fiber.Ctx) error {
	addr, err := parseAddress(c.Params("address"))
	if err != nil {
		return err
	}
	view, err := s.dash.Beneficiary(c.UserContext(), addr)
	if err != nil {
		return err
	}
	c.Set(HeaderViewETag, view.ETag())
	return c.JSON(BeneficiaryResponse{
		Beneficiary: view.Beneficiary.Hex(),
		Summary:     s.p.summary(&view.Summary),
		Schedules:   s.p.cards(s.dash.Cards(view.Schedules)),
		UpdatedAt:   view.UpdatedAt,
	})
}

func (s *Server) GetSchedules(c *fiber.Ctx) error {
	addr, err := parseAddress(c.Params("address"))
	if err != nil {
		return err
	}
	var (
		category model.AllocationCategory
		filter   = c.Query("category")
	)
	if filter != "" {
		var ok bool
		if category, ok = model.ParseCategory(filter); !ok {
			return APIError{Code: fiber.StatusBadRequest, Message: "unknown category " + filter}
		}
	}
	view, err := s.dash.Beneficiary(c.UserContext(), addr)
	if err != nil {
		return err
	}
	c.Set(HeaderViewETag, view.ETag())
	schedules := view.Schedules
	res := SchedulesResponse{Beneficiary: view.Beneficiary.Hex()}
	if filter != "" {
		schedules = view.ByCategory(category)
		res.Category = category.String()
	}
	res.Schedules = s.p.cards(s.dash.Cards(schedules))
	return c.JSON(res)
}

func (s *Server) GetProgress(c *fiber.Ctx) error {
	id, err := parseScheduleId(c.Params("id"))
	if err != nil {
		return err
	}
	progress, err := s.dash.ScheduleProgress(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(s.p.progress(progress))
}

// PostRelease submits a release on behalf of the configured signer, who is
// taken to be the beneficiary.
func (s *Server) PostRelease(c *fiber.Ctx) error {
	id, err := parseScheduleId(c.Params("id"))
	if err != nil {
		return err
	}
	signer := s.dash.Signer()
	if signer == nil {
		return chain.ErrNoSigner
	}
	var req ReleaseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return APIError{Code: fiber.StatusBadRequest, Message: err.Error()}
		}
	}
	ticket, err := s.dash.Release(c.UserContext(), signer.Address(), id, req.Amount)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(ReleaseResponse{
		TxHash:     ticket.TxHash.Hex(),
		ScheduleId: ticket.ScheduleId.Hex(),
		Amount:     s.p.amount(ticket.Amount),
	})
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, APIError{Code: fiber.StatusBadRequest, Message: "invalid address " + s}
	}
	return common.HexToAddress(s), nil
}

func parseScheduleId(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, APIError{Code: fiber.StatusBadRequest, Message: "invalid schedule id " + s}
	}
	return common.BytesToHash(b), nil
}

func statusOf(err error) (int, string) {
	var (
		apiErr    APIError
		fiberErr  *fiber.Error
		readErr   *chain.ReadError
		revertErr *chain.RevertError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code, apiErr.Message
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.As(err, &readErr):
		return fiber.StatusBadGateway, "could not load data"
	case errors.Is(err, chain.ErrNoSigner):
		return fiber.StatusNotImplemented, err.Error()
	case errors.Is(err, chain.ErrUserRejected):
		return fiber.StatusConflict, "transaction rejected by wallet"
	case errors.Is(err, core.ErrReleaseInProgress):
		return fiber.StatusConflict, err.Error()
	case errors.As(err, &revertErr),
		errors.Is(err, vesting.ErrInvalidAmount),
		errors.Is(err, vesting.ErrExceedsReleasable),
		errors.Is(err, model.ErrMalformedAmount),
		errors.Is(err, core.ErrUnknownSchedule):
		return fiber.StatusUnprocessableEntity, err.Error()
	}
	return fiber.StatusInternalServerError, "internal server error: " + err.Error()
}

func ErrorHandlerFunc(ctx *fiber.Ctx, err error) error {
	code, msg := statusOf(err)
	if code >= fiber.StatusInternalServerError {
		logrus.Errorf("Code: %d Path: %s IP: %s Error: %s", code, ctx.Path(), ctx.IP(),
			strings.ReplaceAll(err.Error(), "\n", "\\n"))
	} else if code != fiber.StatusNotFound {
		logrus.Infof("Code: %d Path: %s Error: %s", code, ctx.Path(), err.Error())
	}
	return ctx.Status(code).JSON(APIError{Code: code, Message: msg})
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hireloop/interviewd/internal/booking"
	"github.com/hireloop/interviewd/internal/interviews"
	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/internal/schedule"
	"github.com/hireloop/interviewd/pkg/errors"
	"github.com/hireloop/interviewd/pkg/logger"
)

func NewServer(
	cfg Config,
	log logger.Logger,
	service *interviews.Service,
	coord coordinator,
	reviewerAuth Authorizer,
	applicantAuth Authorizer,
) Server {
	serveLog := log.With("api_http_server")

	fiberCfg := fiber.Config{
		ReadTimeout:             cfg.HTTP.ReadTimeout,
		WriteTimeout:            cfg.HTTP.WriteTimeout,
		IdleTimeout:             cfg.HTTP.IdleTimeout,
		DisableStartupMessage:   true,
		EnableTrustedProxyCheck: true,
		ProxyHeader:             cfg.Proxy.Header,
		TrustedProxies:          cfg.Proxy.Trusted,
		RequestMethods: []string{
			fiber.MethodHead, fiber.MethodGet,
			fiber.MethodPost, fiber.MethodPatch, fiber.MethodDelete,
		},
	}

	fiberCfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		serveLog.Warn(errors.WrapFail(err, "handle http request"))
		return c.Status(http.StatusInternalServerError).
			JSON(map[string]string{"status": "ERROR", "message": "internal error"})
	}

	s := &server{
		service: service,
		coord:   coord,
		http:    fiber.New(fiberCfg),
		addr:    cfg.HTTP.Addr,
		log:     serveLog,
	}

	s.setupRoutes(reviewerAuth, applicantAuth)

	return s
}

type server struct {
	service *interviews.Service
	coord   coordinator
	http    *fiber.App
	addr    string
	log     logger.Logger
}

func (s *server) Serve(ctx context.Context) error {
	errCh := make(chan error)
	go func() { errCh <- s.http.Listen(s.addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return errors.Error("serve context done")
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	err := s.http.ShutdownWithContext(ctx)
	return errors.WrapFail(err, "shutdown http server")
}

func (s *server) setupRoutes(reviewerAuth, applicantAuth Authorizer) {
	reviewer := s.authWrapper(reviewerAuth)
	applicant := s.authWrapper(applicantAuth)

	s.http.Post("/processes", reviewer(s.handleCreateProcess))
	s.http.Get("/jobs/:jid/process", reviewer(s.handleFindProcessByJob))
	s.http.Post("/processes/:pid/slots", reviewer(s.handleCreateSlots))
	s.http.Get("/processes/:pid/slots", reviewer(s.handleListSlots))
	s.http.Get("/processes/:pid/interviewees", reviewer(s.handleListInterviewees))
	s.http.Post("/processes/:pid/interviewees", reviewer(s.handleAddInterviewees))
	s.http.Post("/processes/:pid/invite", reviewer(s.handleInvite))
	s.http.Get("/processes/:pid/conflicts", reviewer(s.handleDayConflicts))
	s.http.Post("/assignments", reviewer(s.handleAssign))
	s.http.Delete("/processes/:pid/slots/:sid", reviewer(s.handleDeleteSlot))
	s.http.Delete("/processes/:pid/interviewees/:id", reviewer(s.handleRemoveInterviewee))
	s.http.Patch("/interviewees/:id/assessment", reviewer(s.handleAssessment))
	s.http.Post("/interviewees/:id/cancel", reviewer(s.handleCancel))

	s.http.Post("/processes/:pid/bookings", applicant(s.handleBook))
	s.http.Get("/slots/:sid/calendar", applicant(s.handleExportCalendar))
}

func (s *server) authWrapper(auth Authorizer) func(fiber.Handler) fiber.Handler {
	return func(h fiber.Handler) fiber.Handler {
		if auth == nil {
			return h
		}

		return func(c *fiber.Ctx) error {
			ok, err := auth.Authorize(c)
			if err != nil {
				return errors.WrapFail(err, "authorize")
			}

			if !ok {
				return c.Status(http.StatusUnauthorized).Send(nil)
			}

			return h(c)
		}
	}
}

func (s *server) handleCreateProcess(c *fiber.Ctx) error {
	var req struct {
		JobID string `json:"job_id"`
	}

	err := c.BodyParser(&req)
	if err != nil || req.JobID == "" {
		return s.sendError(c, http.StatusBadRequest, "job_id is required")
	}

	process, err := s.service.CreateProcess(c.Context(), req.JobID)
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(process)
}

func (s *server) handleFindProcessByJob(c *fiber.Ctx) error {
	process, err := s.service.FindProcessByJob(c.Context(), c.Params("jid"))
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).JSON(process)
}

func (s *server) handleCreateSlots(c *fiber.Ctx) error {
	var req struct {
		Slots []schedule.SlotDraft `json:"slots"`
	}

	err := c.BodyParser(&req)
	if err != nil {
		return s.sendError(c, http.StatusBadRequest, "bad slot batch payload")
	}

	created, err := s.service.CreateSlots(c.Context(), c.Params("pid"), req.Slots)
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(created)
}

func (s *server) handleListSlots(c *fiber.Ctx) error {
	slots, err := s.service.ListSlots(c.Context(), c.Params("pid"))
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]any{
		"slots": slots,
		"count": len(slots),
	})
}

func (s *server) handleListInterviewees(c *fiber.Ctx) error {
	views, err := s.service.ListInterviewees(c.Context(), c.Params("pid"))
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]any{
		"interviewees": views,
		"count":        len(views),
	})
}

func (s *server) handleAddInterviewees(c *fiber.Ctx) error {
	var req struct {
		ApplicationIDs []string `json:"application_ids"`
	}

	err := c.BodyParser(&req)
	if err != nil {
		return s.sendError(c, http.StatusBadRequest, "bad payload")
	}

	added, err := s.service.AddInterviewees(c.Context(), c.Params("pid"), req.ApplicationIDs)
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).JSON(added)
}

func (s *server) handleInvite(c *fiber.Ctx) error {
	var req struct {
		IntervieweeIDs []string `json:"interviewee_ids"`
		OnlyUninvited  bool     `json:"only_uninvited"`
	}

	err := c.BodyParser(&req)
	if err != nil {
		return s.sendError(c, http.StatusBadRequest, "bad payload")
	}

	n, err := s.service.MarkInvited(c.Context(), c.Params("pid"), req.IntervieweeIDs, req.OnlyUninvited)
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]int64{"invited": n})
}

func (s *server) handleDayConflicts(c *fiber.Ctx) error {
	day, err := time.Parse(time.DateOnly, c.Query("date", ""))
	if err != nil {
		return s.sendError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	report, err := s.service.DayConflicts(c.Context(), c.Params("pid"), day)
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).JSON(report)
}

func (s *server) handleAssign(c *fiber.Ctx) error {
	var req struct {
		SlotID        string `json:"slot_id"`
		IntervieweeID string `json:"interviewee_id"`
	}

	err := c.BodyParser(&req)
	if err != nil || req.SlotID == "" || req.IntervieweeID == "" {
		return s.sendError(c, http.StatusBadRequest, "slot_id and interviewee_id are required")
	}

	err = s.coord.Assign(c.Context(), req.SlotID, req.IntervieweeID)
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).Send(nil)
}

func (s *server) handleBook(c *fiber.Ctx) error {
	var req struct {
		ApplicationID string `json:"application_id"`
		SlotID        string `json:"slot_id"`
	}

	err := c.BodyParser(&req)
	if err != nil || req.SlotID == "" || req.ApplicationID == "" {
		return s.sendError(c, http.StatusBadRequest, "application_id and slot_id are required")
	}

	err = s.coord.Book(c.Context(), c.Params("pid"), req.ApplicationID, req.SlotID)
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).Send(nil)
}

func (s *server) handleCancel(c *fiber.Ctx) error {
	var req struct {
		Reinvite   bool `json:"reinvite"`
		DeleteSlot bool `json:"delete_slot"`
	}

	err := c.BodyParser(&req)
	if err != nil {
		return s.sendError(c, http.StatusBadRequest, "bad payload")
	}

	err = s.coord.Cancel(c.Context(), c.Params("id"), booking.CancelOptions{
		Reinvite:   req.Reinvite,
		DeleteSlot: req.DeleteSlot,
	})
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).Send(nil)
}

func (s *server) handleAssessment(c *fiber.Ctx) error {
	var req struct {
		Rating *models.AssessmentRating `json:"rating"`
		Notes  *string                  `json:"notes"`
	}

	err := c.BodyParser(&req)
	if err != nil {
		return s.sendError(c, http.StatusBadRequest, "bad payload")
	}

	err = s.service.UpdateAssessment(c.Context(), c.Params("id"), req.Rating, req.Notes)
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).Send(nil)
}

func (s *server) handleDeleteSlot(c *fiber.Ctx) error {
	err := s.service.DeleteSlot(c.Context(), c.Params("pid"), c.Params("sid"))
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).Send(nil)
}

func (s *server) handleRemoveInterviewee(c *fiber.Ctx) error {
	err := s.service.RemoveInterviewee(c.Context(), c.Params("pid"), c.Params("id"))
	if err != nil {
		return s.sendDomainError(c, err)
	}

	return c.Status(http.StatusOK).Send(nil)
}

func (s *server) handleExportCalendar(c *fiber.Ctx) error {
	payload, err := s.service.ExportCalendar(c.Context(), c.Params("sid"))
	if err != nil {
		return s.sendDomainError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	return c.Status(http.StatusOK).Send(payload)
}

func (s *server) sendDomainError(c *fiber.Ctx, err error) error {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		// let the fiber error handler log it
		return err
	}

	s.log.Debugf("request rejected: %s", err)
	return s.sendError(c, status, msg)
}

func (s *server) sendError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(map[string]string{"status": "ERROR", "message": msg})
}

// classify maps the domain error taxonomy onto HTTP. Conflicts carry an
// actionable message so clients can refresh and retry instead of
// showing a bare error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrAccessDenied):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrSlotTaken):
		return http.StatusConflict, "this slot was just booked, please choose another"
	case errors.Is(err, models.ErrStaleInterviewee):
		return http.StatusConflict, "the interviewee changed concurrently, refresh and retry"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

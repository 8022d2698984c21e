// Package server exposes the HTTP surface of the assistant: SSE chat
// streaming, manual job triggers, read endpoints for reminders and events,
// manual notifications and health reporting.
package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/graph"
	"github.com/maestro-agents/maestro/logging"
	"github.com/maestro-agents/maestro/notify"
	"github.com/maestro-agents/maestro/scheduler"
	"github.com/maestro-agents/maestro/store"
	"github.com/maestro-agents/maestro/thread"
)

// upcomingEventsWindow bounds the /events/upcoming read endpoint.
const upcomingEventsWindow = 7 * 24 * time.Hour

// Options configures the Server.
type Options struct {
	Logger logging.Logger

	// ReadWindow bounds the upcoming reminders/events endpoints. Defaults to
	// one week.
	ReadWindow time.Duration
}

// Server wires the orchestration graph, scheduler, store and notifier behind
// a fiber application. Any nil dependency makes the routes that need it
// answer 503 so the process can come up before the assistant is fully
// initialized.
type Server struct {
	app        *fiber.App
	graph      *graph.Graph
	threads    core.ThreadStore
	store      store.Store
	notifier   notify.Notifier
	scheduler  *scheduler.Scheduler
	logger     logging.Logger
	readWindow time.Duration
	started    time.Time
}

// New constructs the server and registers all routes.
func New(g *graph.Graph, threads core.ThreadStore, st store.Store, n notify.Notifier, sched *scheduler.Scheduler, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:     logging.NoOpLogger{},
		ReadWindow: upcomingEventsWindow,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if threads == nil {
		threads = thread.NewInMemoryStore()
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ErrorHandler:          errorHandler,
		}),
		graph:      g,
		threads:    threads,
		store:      st,
		notifier:   n,
		scheduler:  sched,
		logger:     opts.Logger,
		readWindow: opts.ReadWindow,
		started:    time.Now().UTC(),
	}
	s.registerRoutes()
	return s
}

// App returns the underlying fiber application, exposed for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving HTTP on the given address.
func (s *Server) Listen(addr string) error {
	s.logger.Info("server.listen", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) registerRoutes() {
	s.app.Get("/", s.handleRoot)
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/status", s.handleStatus)
	s.app.Post("/trigger/:job", s.handleTrigger)
	s.app.Get("/reminders", s.handleReminders)
	s.app.Get("/events/upcoming", s.handleUpcomingEvents)
	s.app.Get("/events/ongoing", s.handleOngoingEvents)
	s.app.Post("/notification/send", s.handleSendNotification)
	s.app.Post("/chat", s.handleChat)
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "AI personal manager API",
		"status":  "running",
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	jobs := 0
	if s.scheduler != nil {
		jobs = len(s.scheduler.Names())
	}
	return c.JSON(fiber.Map{
		"status":      "healthy",
		"active_jobs": jobs,
		"uptime":      time.Since(s.started).Round(time.Second).String(),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.scheduler == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "scheduler not initialized")
	}

	entries := s.scheduler.Entries()
	jobs := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		job := fiber.Map{
			"name":     e.Name,
			"interval": e.Interval,
		}
		if !e.Next.IsZero() {
			job["next_run"] = e.Next.UTC().Format(time.RFC3339)
		}
		if !e.Prev.IsZero() {
			job["prev_run"] = e.Prev.UTC().Format(time.RFC3339)
		}
		jobs = append(jobs, job)
	}

	return c.JSON(fiber.Map{
		"jobs":        jobs,
		"system_time": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleTrigger(c *fiber.Ctx) error {
	if s.scheduler == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "scheduler not initialized")
	}

	job := c.Params("job")
	if err := s.scheduler.Trigger(job); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.JSON(fiber.Map{
		"message":   fmt.Sprintf("job %s triggered", job),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReminders(c *fiber.Ctx) error {
	if s.store == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "store not initialized")
	}

	reminders, err := s.store.UpcomingReminders(c.Context(), time.Now().UTC(), s.readWindow)
	if err != nil {
		s.logger.Error("server.reminders.error", "error", err.Error())
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch reminders")
	}
	return c.JSON(fiber.Map{"reminders": reminders, "count": len(reminders)})
}

func (s *Server) handleUpcomingEvents(c *fiber.Ctx) error {
	if s.store == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "store not initialized")
	}

	events, err := s.store.UpcomingEvents(c.Context(), time.Now().UTC(), s.readWindow)
	if err != nil {
		s.logger.Error("server.events.error", "error", err.Error())
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch events")
	}
	return c.JSON(fiber.Map{"events": events, "count": len(events)})
}

func (s *Server) handleOngoingEvents(c *fiber.Ctx) error {
	if s.store == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "store not initialized")
	}

	events, err := s.store.OngoingEvents(c.Context(), time.Now().UTC())
	if err != nil {
		s.logger.Error("server.events.error", "error", err.Error())
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch ongoing events")
	}
	return c.JSON(fiber.Map{"events": events, "count": len(events)})
}

type notificationRequest struct {
	Message string `json:"message"`
	Title   string `json:"title"`
}

func (s *Server) handleSendNotification(c *fiber.Ctx) error {
	if s.notifier == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "notifier not initialized")
	}

	var req notificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}

	if err := s.notifier.Send(c.Context(), notify.Notification{Title: req.Title, Message: req.Message}); err != nil {
		s.logger.Error("server.notification.error", "error", err.Error())
		return fiber.NewError(fiber.StatusInternalServerError, "failed to send notification")
	}
	return c.JSON(fiber.Map{"message": "notification sent"})
}

type chatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
}

// chatChunk is one SSE data frame of a streamed chat run.
type chatChunk struct {
	Node    string `json:"node"`
	Content string `json:"content"`
}

const chatApology = "Sorry, something went wrong while handling your request. Please try again."

func (s *Server) handleChat(c *fiber.Ctx) error {
	if s.graph == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "assistant not initialized")
	}

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}
	if req.ThreadID == "" {
		req.ThreadID = "chat"
	}

	th, err := s.threads.Get(req.ThreadID)
	if err != nil {
		s.logger.Error("server.chat.thread_error", "error", err.Error())
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load thread")
	}
	th.Conversation.Append(core.NewUserMessage(req.Message))
	_ = s.threads.Touch(req.ThreadID)

	runCtx := core.NewRunContext(c.Context(), req.ThreadID, th.Conversation, s.logger)
	steps, errCh := s.graph.Run(runCtx)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	logger := s.logger
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for step := range steps {
			writeChunk(w, chatChunk{Node: step.Node, Content: step.Message.Content})
		}
		if err := <-errCh; err != nil {
			logger.Error("server.chat.run_error", "thread", req.ThreadID, "error", err.Error())
			writeChunk(w, chatChunk{Node: "supervisor", Content: chatApology})
		}
	}))
	return nil
}

func writeChunk(w *bufio.Writer, chunk chatChunk) {
	data, err := json.Marshal(chunk)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	w.Flush()
}

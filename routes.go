package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gorilla/websocket"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	g "maragu.dev/gomponents"

	"github.com/Zachkp/portfolio/internal/apperror"
	"github.com/Zachkp/portfolio/internal/catalog"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/Zachkp/portfolio/internal/view"
	"github.com/Zachkp/portfolio/internal/ws"
)

// site carries everything the handlers share.
type site struct {
	cfg       *config.Config
	store     *store.Store
	sessions  *page.Registry
	hub       *ws.Hub
	aboutHTML string
	ipSalt    string
	upgrader  websocket.Upgrader
}

// newSite builds the handlers' shared state. Sessions report reveals to the
// analytics store.
func newSite(cfg *config.Config, st *store.Store, hub *ws.Hub, opts page.Options, aboutHTML string) *site {
	s := &site{
		cfg:       cfg,
		store:     st,
		hub:       hub,
		aboutHTML: aboutHTML,
		ipSalt:    newSalt(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.AllowedOrigins),
		},
	}
	opts.OnReveal = s.recordReveal
	s.sessions = page.NewRegistry(opts, cfg.SessionTTL)
	return s
}

func newRouter(s *site) *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	}

	r := gin.Default()
	r.Use(ErrorHandler())
	r.Use(s.visitorTracking())

	r.Static("/static", s.cfg.StaticDir)
	r.Static("/images", s.cfg.ImagesDir)

	r.GET("/", s.home)
	r.GET("/projects", s.projects)
	r.POST("/contact", RateLimitMiddleware(s.cfg.RateLimitLimit, s.cfg.RateLimitPeriod), s.submitContact)
	r.GET("/ws", s.serveWS)
	r.GET("/cv", s.downloadCV)
	r.GET("/health", s.health)
	r.GET("/privacy", s.privacy)

	s.setupAdminRoutes(r)
	return r
}

// ErrorHandler renders the last handler error as JSON. AppErrors keep their
// status and message; anything else becomes a 500 with a generic message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperror.StatusOf(err)
		body := gin.H{"error": "internal server error"}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			body["code"] = appErr.Code
			if status < http.StatusInternalServerError {
				body["error"] = appErr.Message
			}
			if len(appErr.Fields) > 0 {
				body["fields"] = appErr.Fields
			}
		}

		entry := logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": status,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("Request error")
		} else {
			entry.Debug("Request rejected")
		}

		c.JSON(status, body)
	}
}

// RateLimitMiddleware allows limit requests per client IP within period.
func RateLimitMiddleware(limit int64, period time.Duration) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}
	instance := limiter.New(memory.NewStore(), rate)

	return func(c *gin.Context) {
		ctx, err := instance.Get(c, c.ClientIP())
		if err != nil {
			_ = c.Error(apperror.Wrap(err, apperror.ErrCodeInternal, "rate limiter unavailable"))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(ctx.Reset, 10))

		if ctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many messages, please try again later",
			})
			return
		}
		c.Next()
	}
}

func checkOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowed) > 0 {
			return slices.Contains(allowed, origin)
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

func render(c *gin.Context, status int, node g.Node) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := view.Render(c.Writer, node); err != nil {
		logger.Log.WithError(err).WithField("path", c.Request.URL.Path).Error("Failed to render page")
	}
}

// home starts a page session and renders every section in its initial state.
func (s *site) home(c *gin.Context) {
	sess, err := s.sessions.Create()
	if err != nil {
		_ = c.Error(err)
		return
	}
	if doNotTrack(c) {
		sess.DoNotTrack()
	}

	render(c, http.StatusOK, view.Page(view.PageData{
		SessionID: sess.ID.String(),
		Snapshot:  sess.Snapshot(),
		AboutHTML: s.aboutHTML,
	}))
}

func (s *site) projects(c *gin.Context) {
	sess, err := s.sessions.Lookup(c.Query("session"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	category := c.DefaultQuery("category", catalog.All)
	items, err := sess.SelectCategory(category)
	if err != nil {
		_ = c.Error(err)
		return
	}

	render(c, http.StatusOK, view.ProjectsGrid(view.ProjectsData{
		SessionID:  sess.ID.String(),
		Categories: sess.Projects().Categories(),
		Active:     sess.Projects().Active(),
		Projects:   items,
	}))
}

type contactRequest struct {
	Name    string `form:"name" binding:"required,notblank,max=100"`
	Email   string `form:"email" binding:"required,email,max=254"`
	Subject string `form:"subject" binding:"required,notblank,max=200"`
	Message string `form:"message" binding:"required,notblank,max=5000"`
}

func (r contactRequest) draft() contact.Draft {
	return contact.Draft{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Subject: strings.TrimSpace(r.Subject),
		Message: strings.TrimSpace(r.Message),
	}
}

var fieldMessages = map[string]string{
	"required": "This field is required",
	"notblank": "This field is required",
	"email":    "Please enter a valid email address",
	"max":      "This field is too long",
}

// validationFields turns binding errors into one message per form field.
func validationFields(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["form"] = "The form could not be read"
		return fields
	}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "This field is invalid"
		}
		fields[name] = msg
	}
	return fields
}

// submitContact runs the simulated submission and answers once it completes
// with a cleared form and the toast.
func (s *site) submitContact(c *gin.Context) {
	sess, err := s.sessions.Lookup(c.PostForm("session"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	sessionID := sess.ID.String()

	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		if busy := sess.Contact().Revise(req.draft()); busy != nil {
			_ = c.Error(busy)
			return
		}
		verr := apperror.Validation(validationFields(err))
		render(c, verr.HTTPStatus, view.ContactForm(view.ContactFormData{
			SessionID: sessionID,
			Draft:     req.draft(),
			Errors:    verr.Fields,
		}))
		return
	}

	pending, err := sess.Contact().SubmitDraft(req.draft())
	if err != nil {
		_ = c.Error(err)
		return
	}

	// Only this request stops the submission, so pending always yields a result
	// unless the visitor left first.
	select {
	case result := <-pending:
		render(c, http.StatusOK, g.Group([]g.Node{
			view.ContactForm(view.ContactFormData{
				SessionID: sessionID,
				Draft:     sess.Contact().Draft(),
			}),
			view.Toast(result),
		}))
	case <-c.Request.Context().Done():
		sess.Contact().Abandon(pending)
		logger.Log.WithField("session_id", sessionID).Debug("Visitor left before the message was sent")
	}
}

// serveWS attaches the page session to a browser connection for as long as it lasts.
func (s *site) serveWS(c *gin.Context) {
	sess, err := s.sessions.Lookup(c.Query("session"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.WithError(err).WithField("session_id", sess.ID).Debug("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(conn, s.hub, sess.ID, sess)
	s.hub.Register(client)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sess.Attach(ctx, client)
	logger.Log.WithFields(logrus.Fields{
		"session_id":  sess.ID,
		"connections": s.hub.Count(),
	}).Debug("Page session attached")

	client.Run(ctx)
	sess.Release(client)
}

// cvSniffLen covers the header bytes filetype needs.
const cvSniffLen = 262

func (s *site) downloadCV(c *gin.Context) {
	f, err := os.Open(s.cfg.CVPath)
	if err != nil {
		_ = c.Error(apperror.ErrCVUnavailable)
		return
	}
	defer f.Close()

	head := make([]byte, cvSniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		_ = c.Error(apperror.ErrCVUnavailable)
		return
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind.MIME.Value != "application/pdf" {
		logger.Log.WithField("path", s.cfg.CVPath).Warn("CV file is not a PDF")
		_ = c.Error(apperror.ErrCVUnavailable)
		return
	}

	c.FileAttachment(s.cfg.CVPath, "curriculum.pdf")
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Checks      map[string]string `json:"checks"`
	Sessions    int               `json:"sessions"`
	Connections int               `json:"connections"`
}

func (s *site) health(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		checks["database"] = "healthy"
	}

	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:      status,
		Timestamp:   time.Now(),
		Checks:      checks,
		Sessions:    s.sessions.Len(),
		Connections: s.hub.Count(),
	})
}

func (s *site) privacy(c *gin.Context) {
	render(c, http.StatusOK, view.Privacy())
}

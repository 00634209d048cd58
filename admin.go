// admin.go - privacy-conscious visitor analytics and the admin area
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zachkp/portfolio/internal/apperror"
	"github.com/Zachkp/portfolio/internal/goroutine"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/view"
)

const (
	adminCookie   = "admin_token"
	adminTokenTTL = 24 * time.Hour
	adminIssuer   = "portfolio-admin"

	// Visitor records are kept for twelve months.
	retention       = 365 * 24 * time.Hour
	cleanupInterval = 24 * time.Hour
)

func newSalt() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Log.WithError(err).Fatal("Failed to generate hashing salt")
	}
	return hex.EncodeToString(b)
}

// hashIP is stable per address for the lifetime of the process.
func (s *site) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.ipSalt))
	return hex.EncodeToString(sum[:])[:16]
}

// issueAdminToken signs a session token for username.
func (s *site) issueAdminToken(username string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    adminIssuer,
		Subject:   username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *site) parseAdminToken(raw string) (*jwt.RegisteredClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(adminIssuer),
		jwt.WithSubject(s.cfg.AdminUsername),
	)
	if err != nil {
		return nil, err
	}
	if claims, ok := parsed.Claims.(*jwt.RegisteredClaims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// checkCredentials always runs both comparisons.
func (s *site) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.cfg.AdminPasswordHash, []byte(password))
	return userOK && passErr == nil
}

func (s *site) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		claims, err := s.parseAdminToken(token)
		if err != nil {
			logger.Log.WithError(err).WithField("visitor", s.hashIP(c.ClientIP())).Debug("Rejected admin token")
			c.SetCookie(adminCookie, "", -1, "/admin", "", s.cfg.IsProduction(), true)
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Set("admin", claims.Subject)
		c.Next()
	}
}

var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin",
	"/favicon",
	"/privacy",
	"/ws",
	"/health",
	"/projects",
	"/contact",
}

// visitorTracking records page views with a hashed address. Requests carrying
// Do Not Track are neither recorded nor counted in the reveal funnel.
func (s *site) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		if doNotTrack(c) {
			c.Next()
			return
		}

		hashed := s.hashIP(c.ClientIP())
		userAgent := c.GetHeader("User-Agent")
		goroutine.SafeGo(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.store.RecordVisit(ctx, hashed, userAgent, path); err != nil {
				logger.Log.WithError(err).WithField("path", path).Warn("Failed to record visit")
			}
		})
		c.Next()
	}
}

func doNotTrack(c *gin.Context) bool {
	return c.GetHeader("DNT") == "1"
}

// recordReveal is the page sessions' reveal hook.
func (s *site) recordReveal(id uuid.UUID, section string) {
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.RecordReveal(ctx, id, section); err != nil {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"session_id": id,
				"section":    section,
			}).Warn("Failed to record reveal")
		}
	})
}

func (s *site) cleanupOldVisitorData(ctx context.Context) (int64, error) {
	removed, err := s.store.CleanupOlderThan(ctx, retention)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Log.WithField("removed", removed).Info("Privacy cleanup removed records older than 12 months")
	}
	return removed, nil
}

// runCleanup purges expired analytics once at start and then daily.
func (s *site) runCleanup(ctx context.Context) error {
	clock := s.sessions.Clock()
	ticker := clock.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		if _, err := s.cleanupOldVisitorData(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("Privacy cleanup failed")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

func (s *site) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		render(c, http.StatusOK, view.AdminLogin(""))
	})

	r.POST("/admin/login", RateLimitMiddleware(s.cfg.RateLimitLimit, s.cfg.RateLimitPeriod), func(c *gin.Context) {
		visitor := s.hashIP(c.ClientIP())
		if !s.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			logger.Log.WithField("visitor", visitor).Warn("Failed admin login attempt")
			render(c, apperror.ErrInvalidLogin.HTTPStatus, view.AdminLogin("Invalid credentials"))
			return
		}

		token, err := s.issueAdminToken(s.cfg.AdminUsername, time.Now())
		if err != nil {
			_ = c.Error(apperror.Wrap(err, apperror.ErrCodeInternal, "could not start admin session"))
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, token, int(adminTokenTTL.Seconds()), "/admin", "", s.cfg.IsProduction(), true)
		logger.Log.WithField("visitor", visitor).Info("Admin login successful")
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.cfg.IsProduction(), true)
		logger.Log.WithField("visitor", s.hashIP(c.ClientIP())).Info("Admin logout")
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuthMiddleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		render(c, http.StatusOK, view.AdminDashboard(stats, s.sessions.Len(), s.hub.Count()))
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=portfolio-stats.json")
		logger.Log.WithField("visitor", s.hashIP(c.ClientIP())).Info("Admin stats exported")
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := s.cleanupOldVisitorData(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})
}

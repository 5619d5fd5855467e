package api

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"table-reservation-backend/config"
	"table-reservation-backend/internal/booking"
	"table-reservation-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(svc *booking.Service, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(svc)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// Availability responses are cached briefly; the TTL bounds how
	// stale the time selector can get after a booking lands.
	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/book", handler.PostBook)
		api.GET("/availability", caching, handler.GetAvailability)
	}

	// Unmatched routes fall through to the built frontend.
	if dir := cfg.Booking.StaticDir; dir != "" {
		if _, err := os.Stat(filepath.Join(dir, "assets")); err == nil {
			r.Static("/assets", filepath.Join(dir, "assets"))
		}
		r.NoRoute(func(c *gin.Context) {
			c.File(filepath.Join(dir, "index.html"))
		})
	}

	return r
}

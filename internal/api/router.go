package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/campustrack/internal/api/handlers"
	"github.com/your-org/campustrack/internal/api/ws"
	"github.com/your-org/campustrack/internal/tracking"
)

type RouterConfig struct {
	Store  *tracking.DataStore
	Engine *tracking.Engine
	Hub    *ws.Hub
	// Probes archives face search uploads. Nil disables the archive.
	Probes handlers.ProbeStore
	// Checks are dependency pings reported by /readyz.
	Checks      map[string]handlers.Check
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(corsMiddleware(cfg.CORSOrigins))

	systemH := handlers.NewSystemHandler(cfg.Store, cfg.Checks)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")

	// WebSocket
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Snapshot views
	personH := handlers.NewPersonHandler(cfg.Store)
	v1.GET("/persons", personH.List)
	v1.GET("/persons/:id", personH.Get)

	cameraH := handlers.NewCameraHandler(cfg.Store)
	v1.GET("/cameras", cameraH.List)

	statsH := handlers.NewStatsHandler(cfg.Store, cfg.Engine)
	v1.GET("/stats", statsH.Get)

	snapshotH := handlers.NewSnapshotHandler(cfg.Store, cfg.Hub)
	v1.POST("/snapshot/refresh", snapshotH.Refresh)

	// Search
	searchH := handlers.NewSearchHandler(cfg.Engine, cfg.Probes, cfg.Hub)
	v1.POST("/search/face", searchH.Face)
	v1.GET("/search/id/:id", searchH.ByID)
	v1.GET("/search/time", searchH.ByTime)
	v1.GET("/search/history", searchH.History)
	v1.GET("/probes/*key", searchH.Probe)

	return r
}

// FilterFor answers WebSocket filter requests from the store's current snapshot.
func FilterFor(store *tracking.DataStore) ws.FilterFunc {
	return func(raw tracking.RawCriteria) (any, error) {
		criteria, err := tracking.ParseCriteria(raw)
		if err != nil {
			return nil, err
		}
		return handlers.PersonList(tracking.Apply(store.Snapshot().Persons, criteria)), nil
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}

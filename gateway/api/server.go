package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/carbonx-fi/avs/ledger"
)

// Server carries the handler dependencies. Redis may be nil, which disables
// the relay queue (handlers still commit to the ledger).
type Server struct {
	Ledger  *ledger.Ledger
	Redis   *redis.Client
	Log     *zap.SugaredLogger
	Metrics *Metrics
}

// SetupRoutes sets up routes for the gateway API.
func (s *Server) SetupRoutes(router *gin.Engine) {
	router.GET("/api/info", s.Info)
	router.GET("/api/events", s.Events)

	router.POST("/api/tasks/identity", s.CreateIdentityTask)
	router.POST("/api/tasks/project", s.CreateProjectTask)
	router.POST("/api/tasks/respond", s.Respond)
	router.GET("/api/tasks/:kind/:id", s.GetTask)

	router.GET("/api/results/identity/:subject", s.IdentityResult)
	router.GET("/api/results/project/:id", s.ProjectResult)
	router.GET("/api/operators/:address", s.Operator)

	if s.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{})))
	}
}

// httpStatus maps a ledger sentinel to its response code. Bodies carry the
// sentinel text so callers see the specific error kind.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrTaskNotFound), errors.Is(err, ledger.ErrResultNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

package core

import (
	"github.com/mfreeman451/camwatch/pkg/api"
	"github.com/mfreeman451/camwatch/pkg/config"
	"github.com/mfreeman451/camwatch/pkg/db"
	"github.com/mfreeman451/camwatch/pkg/metrics"
	"github.com/mfreeman451/camwatch/pkg/monitoring"
	"github.com/mfreeman451/camwatch/pkg/poller"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Server owns every component of the storage monitor and implements the
// lifecycle Service contract.
type Server struct {
	config    *config.Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	recent    metrics.RecentCollector
	history   db.Service
	retention *db.RetentionService
	poller    *poller.Poller
	monitor   *monitoring.Monitor
	apiServer *api.APIServer
}

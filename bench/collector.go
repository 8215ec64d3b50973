package bench

import (
	"context"

	"github.com/sirupsen/logrus"
)

// StatsSource reads one metadata category per call. Dialect packages
// implement it over a single session.
type StatsSource interface {
	Tables(ctx context.Context) ([]TableStat, error)
	Indexes(ctx context.Context) ([]IndexStat, error)
	Variables(ctx context.Context) (ServerVars, error)
}

// CollectStats queries every category once. A failing category is logged
// and left empty without affecting the others.
func CollectStats(ctx context.Context, src StatsSource, log logrus.FieldLogger) DBStats {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var stats DBStats

	tables, err := src.Tables(ctx)
	if err != nil {
		log.Warnf("Error getting table statistics: %v", err)
		tables = nil
	}
	stats.Tables = tables

	indexes, err := src.Indexes(ctx)
	if err != nil {
		log.Warnf("Error getting index statistics: %v", err)
		indexes = nil
	}
	stats.Indexes = indexes

	vars, err := src.Variables(ctx)
	if err != nil {
		log.Warnf("Error getting server variables: %v", err)
		vars = ServerVars{}
	}
	stats.Variables = vars

	return stats
}

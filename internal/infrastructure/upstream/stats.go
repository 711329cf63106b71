package upstream

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/healthics/portal/internal/core/domain"
)

// StatsGateway covers the admin statistics endpoints.
type StatsGateway struct {
	c *Client
}

func NewStatsGateway(c *Client) *StatsGateway {
	return &StatsGateway{c: c}
}

func (g *StatsGateway) Statistics(ctx context.Context, sess *domain.Session) (*domain.Statistics, error) {
	var stats domain.Statistics
	if err := g.c.getJSON(ctx, "stats.get", "/admin/statistics", sess, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ExtendedStatistics returns the chart-oriented payload verbatim; the
// gateway does not interpret it.
func (g *StatsGateway) ExtendedStatistics(ctx context.Context, sess *domain.Session) (json.RawMessage, error) {
	data, _, err := g.c.do(ctx, "stats.extended", http.MethodGet, "/admin/statistics/extended", sess, nil, "")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

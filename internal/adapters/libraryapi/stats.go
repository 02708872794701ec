package libraryapi

import (
	"context"
	"net/http"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
)

const pathDashboardStats = "/dashboard/stats"

// DashboardStats returns the admin aggregate counters.
func (c *Client) DashboardStats(ctx context.Context, token string) (model.DashboardStats, error) {
	doc, err := c.do(ctx, call{method: http.MethodGet, path: pathDashboardStats, token: token})
	if err != nil {
		return model.DashboardStats{}, err
	}
	if !truthy(doc, "success") {
		return model.DashboardStats{}, apperrors.Malformed(fallback(messageOf(doc), "Invalid response format from server"))
	}
	data, err := jmespath.Search("data", doc)
	if err != nil || data == nil {
		return model.DashboardStats{}, apperrors.Malformed("Invalid response format from server")
	}
	var stats model.DashboardStats
	if err := convert(data, &stats); err != nil {
		return model.DashboardStats{}, apperrors.Wrap(err, apperrors.ErrCodeMalformed, "Invalid response format from server")
	}
	return stats, nil
}

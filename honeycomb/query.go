package honeycomb

import (
	"context"
	"net/http"

	"github.com/teranos/sembrowse/errors"
)

const (
	// existsTimeRange is the query window in seconds.
	existsTimeRange = 7200
	existsLimit     = 10000
)

type calculation struct {
	Op string `json:"op"`
}

type filter struct {
	Column string `json:"column"`
	Op     string `json:"op"`
}

type querySpec struct {
	Breakdowns   []string      `json:"breakdowns"`
	Calculations []calculation `json:"calculations"`
	Filters      []filter      `json:"filters"`
	TimeRange    int           `json:"time_range"`
}

type queryResultRequest struct {
	QueryID       string `json:"query_id"`
	DisableSeries bool   `json:"disable_series"`
	Limit         int    `json:"limit"`
}

type queryResult struct {
	ID    string `json:"id"`
	Links struct {
		QueryURL string `json:"query_url"`
	} `json:"links"`
}

// ExistsQuery returns the query that counts events carrying column,
// broken down by its values.
func ExistsQuery(column string) any {
	return querySpec{
		Breakdowns:   []string{column},
		Calculations: []calculation{{Op: "COUNT"}},
		Filters:      []filter{{Column: column, Op: "exists"}},
		TimeRange:    existsTimeRange,
	}
}

// ExistsQueryURL creates an "exists" query for column in dataset, runs it,
// and returns the Honeycomb UI link to the result.
func (c *Client) ExistsQueryURL(ctx context.Context, dataset, column string) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, []string{"queries", dataset}, ExistsQuery(column), &created); err != nil {
		return "", errors.Wrapf(err, "failed to create query for %s in %s", column, dataset)
	}
	if created.ID == "" {
		return "", errors.Newf("query for %s in %s returned no id", column, dataset)
	}

	var result queryResult
	req := queryResultRequest{QueryID: created.ID, Limit: existsLimit}
	if err := c.do(ctx, http.MethodPost, []string{"query_results", dataset}, req, &result); err != nil {
		return "", errors.Wrapf(err, "failed to run query for %s in %s", column, dataset)
	}
	if result.Links.QueryURL == "" {
		return "", errors.Newf("query result for %s in %s has no link", column, dataset)
	}
	return result.Links.QueryURL, nil
}

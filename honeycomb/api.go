package honeycomb

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/usage"
)

// Named is the {name, slug} pair Honeycomb uses for teams and environments.
type Named struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// AuthInfo is the response of GET /1/auth.
type AuthInfo struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Access      usage.Access `json:"api_key_access"`
	Environment Named        `json:"environment"`
	Team        Named        `json:"team"`
}

// Dataset is one entry of GET /1/datasets.
type Dataset struct {
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	LastWrittenAt *time.Time `json:"last_written_at"`
}

// WrittenSince reports whether the dataset received data after t.
// Datasets that were never written are not recent.
func (d Dataset) WrittenSince(t time.Time) bool {
	return d.LastWrittenAt != nil && d.LastWrittenAt.After(t)
}

// Column is one entry of GET /1/columns/{dataset}.
type Column struct {
	ID          string     `json:"id"`
	KeyName     string     `json:"key_name"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Hidden      bool       `json:"hidden"`
	LastWritten *time.Time `json:"last_written"`
}

// Auth describes the configured API key.
func (c *Client) Auth(ctx context.Context) (*AuthInfo, error) {
	var info AuthInfo
	if err := c.do(ctx, http.MethodGet, []string{"auth"}, nil, &info); err != nil {
		return nil, errors.Wrap(err, "failed to query API key")
	}
	return &info, nil
}

// Datasets lists every dataset in the key's environment.
func (c *Client) Datasets(ctx context.Context) ([]Dataset, error) {
	var datasets []Dataset
	if err := c.do(ctx, http.MethodGet, []string{"datasets"}, nil, &datasets); err != nil {
		return nil, errors.Wrap(err, "failed to list datasets")
	}
	return datasets, nil
}

// Columns lists the columns of one dataset.
func (c *Client) Columns(ctx context.Context, dataset string) ([]Column, error) {
	var columns []Column
	if err := c.do(ctx, http.MethodGet, []string{"columns", dataset}, nil, &columns); err != nil {
		return nil, errors.Wrapf(err, "failed to list columns of %s", dataset)
	}
	return columns, nil
}

// CheckAccess implements usage.Backend.
func (c *Client) CheckAccess(ctx context.Context) (usage.Access, error) {
	info, err := c.Auth(ctx)
	if err != nil {
		return usage.Access{}, err
	}
	return info.Access, nil
}

// ListDatasets implements usage.Backend. Slugs are returned sorted.
func (c *Client) ListDatasets(ctx context.Context, since time.Time) ([]string, error) {
	datasets, err := c.Datasets(ctx)
	if err != nil {
		return nil, err
	}
	var slugs []string
	for _, d := range datasets {
		if d.WrittenSince(since) {
			slugs = append(slugs, d.Slug)
		}
	}
	slices.Sort(slugs)
	return slugs, nil
}

// ListColumns implements usage.Backend.
func (c *Client) ListColumns(ctx context.Context, dataset string) ([]usage.Column, error) {
	columns, err := c.Columns(ctx, dataset)
	if err != nil {
		return nil, err
	}
	out := make([]usage.Column, 0, len(columns))
	for _, col := range columns {
		out = append(out, usage.Column{Name: col.KeyName, Type: col.Type})
	}
	return out, nil
}

package senfi

import (
	"context"
)

// siteDetailRequest is the request body for site details.
type siteDetailRequest struct {
	SiteIDs []int `json:"site_id"`
}

// GetSites returns the sites of the organization.
// The result is cached when WithCache is enabled.
func (c *Client) GetSites(ctx context.Context) ([]Record, error) {
	return cached(c, func() ([]Record, error) {
		resp, err := c.get(ctx, "/site", nil)
		if err != nil {
			return nil, err
		}
		return fieldAs[[]Record](resp, "sites")
	}, nil, "sites")
}

// GetSiteDetail returns details of the given sites.
func (c *Client) GetSiteDetail(ctx context.Context, siteIDs ...int) ([]Record, error) {
	if len(siteIDs) == 0 {
		return nil, invalidArgument("at least one site_id is required")
	}
	for _, id := range siteIDs {
		if err := requireID("site_id", id); err != nil {
			return nil, err
		}
	}

	resp, err := c.get(ctx, "/site/detail", siteDetailRequest{SiteIDs: siteIDs})
	if err != nil {
		return nil, err
	}
	return fieldAs[[]Record](resp, "sites")
}

package senfi

import (
	"context"
	"encoding/json"
)

// AssetQuery filters the asset list. At least one filter is required.
type AssetQuery struct {
	SiteIDs  []int       `json:"site_id,omitempty"`
	AssetIDs []int       `json:"asset_id,omitempty"`
	Tags     []TagFilter `json:"tag,omitempty"`
}

// AssetRef identifies one asset, either by id or by measurement code and tags.
type AssetRef struct {
	AssetID         int               `json:"asset_id,omitempty"`
	MeasurementCode string            `json:"measurement_code,omitempty"`
	Tag             map[string]string `json:"tag,omitempty"`
}

// AssetLookup is the result of resolving an asset from its tags.
type AssetLookup struct {
	AssetID int
	// Found is false when no asset, or more than one asset, matched.
	Found bool
}

type assetDetailRequest struct {
	AssetIDs []int `json:"asset_id"`
}

type assetTagRequest struct {
	MeasurementCode string            `json:"measurement_code"`
	Tag             map[string]string `json:"tag"`
}

type attributeRequest struct {
	AssetRef
	AttributeName string `json:"attribute_name"`
	Locale        string `json:"locale,omitempty"`
}

// GetAssets returns the assets matching the query.
func (c *Client) GetAssets(ctx context.Context, q AssetQuery) ([]Record, error) {
	if len(q.SiteIDs) == 0 && len(q.AssetIDs) == 0 && len(q.Tags) == 0 {
		return nil, invalidArgument("at least one of site_id, asset_id or tag is required")
	}
	for _, t := range q.Tags {
		if err := requireString("tag.measurement_code", t.MeasurementCode); err != nil {
			return nil, err
		}
	}

	resp, err := c.get(ctx, "/asset", q)
	if err != nil {
		return nil, err
	}
	return fieldAs[[]Record](resp, "assets")
}

// GetAssetIDFromTag resolves the id of the single asset with the given
// measurement code and tags. Zero matches, several matches and a remote
// not_found all resolve to a lookup with Found set to false and a nil error.
//
// Example:
//
//	lookup, err := client.GetAssetIDFromTag(ctx, "temperature", map[string]string{"room": "101"})
//	if err == nil && lookup.Found {
//	    fmt.Println(lookup.AssetID)
//	}
func (c *Client) GetAssetIDFromTag(ctx context.Context, measurementCode string, tag map[string]string) (AssetLookup, error) {
	if err := requireString("measurement_code", measurementCode); err != nil {
		return AssetLookup{}, err
	}

	fetch := func() (AssetLookup, error) {
		resp, err := c.get(ctx, "/asset", assetTagRequest{MeasurementCode: measurementCode, Tag: tag})
		if err != nil {
			if IsNotFound(err) {
				return AssetLookup{}, nil
			}
			return AssetLookup{}, err
		}

		var assets []Record
		if !resp.Field("assets", &assets) || len(assets) != 1 {
			return AssetLookup{}, nil
		}
		id, ok := GetInt(assets[0], "asset_id")
		if !ok {
			return AssetLookup{}, nil
		}
		return AssetLookup{AssetID: id, Found: true}, nil
	}

	found := func(l AssetLookup) bool { return l.Found }
	return cached(c, fetch, found, "asset_tag", measurementCode, tagKey(tag))
}

// tagKey renders tags deterministically for use in a cache key.
func tagKey(tag map[string]string) string {
	// encoding/json sorts map keys.
	b, _ := json.Marshal(tag)
	return string(b)
}

// GetAssetDetail returns details of the given assets.
func (c *Client) GetAssetDetail(ctx context.Context, assetIDs ...int) ([]Record, error) {
	if len(assetIDs) == 0 {
		return nil, invalidArgument("at least one asset_id is required")
	}
	for _, id := range assetIDs {
		if err := requireID("asset_id", id); err != nil {
			return nil, err
		}
	}

	resp, err := c.get(ctx, "/asset/detail", assetDetailRequest{AssetIDs: assetIDs})
	if err != nil {
		return nil, err
	}
	return fieldAs[[]Record](resp, "assets")
}

// GetAttributeValue returns the value of an asset attribute, optionally
// localized. The asset is referenced by id or by measurement code and tags.
func (c *Client) GetAttributeValue(ctx context.Context, asset AssetRef, attributeName, locale string) (*Response, error) {
	if asset.AssetID == 0 && asset.MeasurementCode == "" {
		return nil, invalidArgument("asset_id or measurement_code is required")
	}
	if asset.AssetID < 0 {
		return nil, invalidArgument("asset_id must be a positive integer")
	}
	if err := requireString("attribute_name", attributeName); err != nil {
		return nil, err
	}

	return c.get(ctx, "/asset/attribute", attributeRequest{
		AssetRef:      asset,
		AttributeName: attributeName,
		Locale:        locale,
	})
}

package senfi

import (
	"context"
)

type zoneAssetRequest struct {
	ZoneID  int `json:"zone_id"`
	AssetID int `json:"asset_id"`
}

type zonePointRequest struct {
	ZoneID int     `json:"zone_id"`
	PosX   float64 `json:"pos_x"`
	PosY   float64 `json:"pos_y"`
	PosZ   float64 `json:"pos_z"`
}

type assetZonesRequest struct {
	AssetID int `json:"asset_id"`
}

type pointZonesRequest struct {
	SiteID int     `json:"site_id"`
	PosX   float64 `json:"pos_x"`
	PosY   float64 `json:"pos_y"`
	PosZ   float64 `json:"pos_z"`
}

// IsAssetInZone reports whether the asset lies inside the zone.
func (c *Client) IsAssetInZone(ctx context.Context, zoneID, assetID int) (bool, error) {
	return c.assetZoneCheck(ctx, "/zone/isAssetInZone", zoneID, assetID)
}

// IsAssetAboveZone reports whether the asset lies above the zone.
func (c *Client) IsAssetAboveZone(ctx context.Context, zoneID, assetID int) (bool, error) {
	return c.assetZoneCheck(ctx, "/zone/isAssetAboveZone", zoneID, assetID)
}

// IsAssetBelowZone reports whether the asset lies below the zone.
func (c *Client) IsAssetBelowZone(ctx context.Context, zoneID, assetID int) (bool, error) {
	return c.assetZoneCheck(ctx, "/zone/isAssetBelowZone", zoneID, assetID)
}

// IsPointInZone reports whether the point lies inside the zone.
func (c *Client) IsPointInZone(ctx context.Context, zoneID int, p Point) (bool, error) {
	return c.pointZoneCheck(ctx, "/zone/isPointInZone", zoneID, p)
}

// IsPointAboveZone reports whether the point lies above the zone.
func (c *Client) IsPointAboveZone(ctx context.Context, zoneID int, p Point) (bool, error) {
	return c.pointZoneCheck(ctx, "/zone/isPointAboveZone", zoneID, p)
}

// IsPointBelowZone reports whether the point lies below the zone.
func (c *Client) IsPointBelowZone(ctx context.Context, zoneID int, p Point) (bool, error) {
	return c.pointZoneCheck(ctx, "/zone/isPointBelowZone", zoneID, p)
}

// GetZoneIDsFromAsset returns the ids of the zones containing the asset.
func (c *Client) GetZoneIDsFromAsset(ctx context.Context, assetID int) ([]int, error) {
	if err := requireID("asset_id", assetID); err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, "/zone/getZoneIdsFromAsset", assetZonesRequest{AssetID: assetID})
	if err != nil {
		return nil, err
	}
	return fieldAs[[]int](resp, "zone_result")
}

// GetZoneIDsFromPoint returns the ids of the zones of a site containing the point.
func (c *Client) GetZoneIDsFromPoint(ctx context.Context, siteID int, p Point) ([]int, error) {
	if err := requireID("site_id", siteID); err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, "/zone/getZoneIdsFromPoint", pointZonesRequest{SiteID: siteID, PosX: p.X, PosY: p.Y, PosZ: p.Z})
	if err != nil {
		return nil, err
	}
	return fieldAs[[]int](resp, "zone_result")
}

func (c *Client) assetZoneCheck(ctx context.Context, path string, zoneID, assetID int) (bool, error) {
	if err := requireID("zone_id", zoneID); err != nil {
		return false, err
	}
	if err := requireID("asset_id", assetID); err != nil {
		return false, err
	}
	resp, err := c.get(ctx, path, zoneAssetRequest{ZoneID: zoneID, AssetID: assetID})
	if err != nil {
		return false, err
	}
	return fieldAs[bool](resp, "zone_result")
}

func (c *Client) pointZoneCheck(ctx context.Context, path string, zoneID int, p Point) (bool, error) {
	if err := requireID("zone_id", zoneID); err != nil {
		return false, err
	}
	resp, err := c.get(ctx, path, zonePointRequest{ZoneID: zoneID, PosX: p.X, PosY: p.Y, PosZ: p.Z})
	if err != nil {
		return false, err
	}
	return fieldAs[bool](resp, "zone_result")
}

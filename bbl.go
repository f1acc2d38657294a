package senfi

import (
	"context"
	"net/http"
)

// BBL queries locate a point within the building/block/level hierarchy of a
// site. They are served by API version 1.0 only, whatever version the
// client is configured for.

const (
	bblAPIMajorVersion = 1
	bblAPIMinorVersion = 0
)

// BBLLocation names a building, block and level by their BBL ids.
// Which ids are required depends on the query.
type BBLLocation struct {
	BuildingBBLID string
	BlockBBLID    string
	LevelBBLID    string
}

type bblRequest struct {
	SiteID        int     `json:"site_id"`
	PosX          float64 `json:"pos_x"`
	PosY          float64 `json:"pos_y"`
	PosZ          float64 `json:"pos_z"`
	BuildingBBLID string  `json:"building_bbl_id"`
	BlockBBLID    string  `json:"block_bbl_id,omitempty"`
	LevelBBLID    string  `json:"level_bbl_id,omitempty"`
}

// bblDepth is how much of the hierarchy a query needs.
type bblDepth int

const (
	bblBuilding bblDepth = iota
	bblBlock
	bblLevel
)

// IsPointInBuilding reports, in the zone_result field, whether the point lies in the building.
//
// Deprecated: use the zone queries instead.
func (c *Client) IsPointInBuilding(ctx context.Context, siteID int, p Point, buildingBBLID string) (*Response, error) {
	return c.bblQuery(ctx, "/bbl/isPointInBuilding", bblBuilding, siteID, p, BBLLocation{BuildingBBLID: buildingBBLID})
}

// IsPointInBlock reports whether the point lies in the block.
//
// Deprecated: use the zone queries instead.
func (c *Client) IsPointInBlock(ctx context.Context, siteID int, p Point, buildingBBLID, blockBBLID string) (*Response, error) {
	return c.bblQuery(ctx, "/bbl/isPointInBlock", bblBlock, siteID, p, BBLLocation{BuildingBBLID: buildingBBLID, BlockBBLID: blockBBLID})
}

// IsPointOnLevel reports whether the point lies on the level.
//
// Deprecated: use the zone queries instead.
func (c *Client) IsPointOnLevel(ctx context.Context, siteID int, p Point, loc BBLLocation) (*Response, error) {
	return c.bblQuery(ctx, "/bbl/isPointOnLevel", bblLevel, siteID, p, loc)
}

// IsPointAboveLevel reports whether the point lies above the level.
//
// Deprecated: use the zone queries instead.
func (c *Client) IsPointAboveLevel(ctx context.Context, siteID int, p Point, loc BBLLocation) (*Response, error) {
	return c.bblQuery(ctx, "/bbl/isPointAboveLevel", bblLevel, siteID, p, loc)
}

// IsPointAboveOrOnLevel reports whether the point lies above or on the level.
//
// Deprecated: use the zone queries instead.
func (c *Client) IsPointAboveOrOnLevel(ctx context.Context, siteID int, p Point, loc BBLLocation) (*Response, error) {
	return c.bblQuery(ctx, "/bbl/isPointAboveOrOnLevel", bblLevel, siteID, p, loc)
}

// IsPointBelowLevel reports whether the point lies below the level.
//
// Deprecated: use the zone queries instead.
func (c *Client) IsPointBelowLevel(ctx context.Context, siteID int, p Point, loc BBLLocation) (*Response, error) {
	return c.bblQuery(ctx, "/bbl/isPointBelowLevel", bblLevel, siteID, p, loc)
}

// IsPointBelowOrOnLevel reports whether the point lies below or on the level.
//
// Deprecated: use the zone queries instead.
func (c *Client) IsPointBelowOrOnLevel(ctx context.Context, siteID int, p Point, loc BBLLocation) (*Response, error) {
	return c.bblQuery(ctx, "/bbl/isPointBelowOrOnLevel", bblLevel, siteID, p, loc)
}

func (c *Client) bblQuery(ctx context.Context, path string, depth bblDepth, siteID int, p Point, loc BBLLocation) (*Response, error) {
	if err := requireID("site_id", siteID); err != nil {
		return nil, err
	}
	if err := requireString("building_bbl_id", loc.BuildingBBLID); err != nil {
		return nil, err
	}
	req := bblRequest{
		SiteID:        siteID,
		PosX:          p.X,
		PosY:          p.Y,
		PosZ:          p.Z,
		BuildingBBLID: loc.BuildingBBLID,
	}
	if depth >= bblBlock {
		if err := requireString("block_bbl_id", loc.BlockBBLID); err != nil {
			return nil, err
		}
		req.BlockBBLID = loc.BlockBBLID
	}
	if depth >= bblLevel {
		if err := requireString("level_bbl_id", loc.LevelBBLID); err != nil {
			return nil, err
		}
		req.LevelBBLID = loc.LevelBBLID
	}

	return c.dispatchVersion(ctx, bblAPIMajorVersion, bblAPIMinorVersion, http.MethodGet, path, req)
}

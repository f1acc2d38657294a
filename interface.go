package senfi

import (
	"context"
)

// API defines the Senfi operations of Client, enabling mocking in tests.
type API interface {
	// ============================================================================
	// Core
	// ============================================================================

	Initialize(ctx context.Context, key, secret string, overrides map[string]any) error
	Dispatch(ctx context.Context, method, path string, body any) (*Response, error)
	DispatchBatch(ctx context.Context, batch []BatchRequest, cfg *BatchConfig) []BatchResult
	RefreshToken(ctx context.Context) error
	State() State

	// ============================================================================
	// Sites and Assets
	// ============================================================================

	GetSites(ctx context.Context) ([]Record, error)
	GetSiteDetail(ctx context.Context, siteIDs ...int) ([]Record, error)
	GetAssets(ctx context.Context, q AssetQuery) ([]Record, error)
	GetAssetIDFromTag(ctx context.Context, measurementCode string, tag map[string]string) (AssetLookup, error)
	GetAssetDetail(ctx context.Context, assetIDs ...int) ([]Record, error)
	GetAttributeValue(ctx context.Context, asset AssetRef, attributeName, locale string) (*Response, error)

	// ============================================================================
	// Measurements
	// ============================================================================

	SubscribeMeasurements(ctx context.Context, measurementCodes ...string) (string, error)
	UnsubscribeMeasurements(ctx context.Context, token string) error
	PublishMeasurement(ctx context.Context, measurementCode string, typ MeasurementType, data []Record) error

	// ============================================================================
	// Events, Event Definitions and Alarms
	// ============================================================================

	SubscribeEvents(ctx context.Context, sub EventSubscription) (string, error)
	UnsubscribeEvents(ctx context.Context, token string) error
	GenerateEvent(ctx context.Context, req GenerateEventRequest) error
	GetEventDefinitions(ctx context.Context, q EventDefinitionQuery) ([]Record, error)
	CreateEventDefinition(ctx context.Context, def EventDefinition) (int, error)
	UpdateEventDefinition(ctx context.Context, eventDefID int, def EventDefinition) error
	DeleteEventDefinition(ctx context.Context, eventDefID int, owner ConnectorInstance) error
	SubscribeAlarms(ctx context.Context, sub AlarmSubscription) (string, error)
	UnsubscribeAlarms(ctx context.Context, token string) error

	// ============================================================================
	// Logs and Commands
	// ============================================================================

	SubscribeLogs(ctx context.Context, sub LogSubscription) (string, error)
	UnsubscribeLogs(ctx context.Context, token string) error
	SubscribeCommands(ctx context.Context, measurementCodes ...string) (string, error)
	UnsubscribeCommands(ctx context.Context, token string) error
	RequestCommand(ctx context.Context, req CommandRequest) (*CommandResult, error)
	AcknowledgeCommand(ctx context.Context, messageID, measurementCode string, data any) error

	// ============================================================================
	// Zones and BBL
	// ============================================================================

	IsAssetInZone(ctx context.Context, zoneID, assetID int) (bool, error)
	IsAssetAboveZone(ctx context.Context, zoneID, assetID int) (bool, error)
	IsAssetBelowZone(ctx context.Context, zoneID, assetID int) (bool, error)
	IsPointInZone(ctx context.Context, zoneID int, p Point) (bool, error)
	IsPointAboveZone(ctx context.Context, zoneID int, p Point) (bool, error)
	IsPointBelowZone(ctx context.Context, zoneID int, p Point) (bool, error)
	GetZoneIDsFromAsset(ctx context.Context, assetID int) ([]int, error)
	GetZoneIDsFromPoint(ctx context.Context, siteID int, p Point) ([]int, error)

	IsPointInBuilding(ctx context.Context, siteID int, p Point, buildingBBLID string) (*Response, error)
	IsPointInBlock(ctx context.Context, siteID int, p Point, buildingBBLID, blockBBLID string) (*Response, error)
	IsPointOnLevel(ctx context.Context, siteID int, p Point, loc BBLLocation) (*Response, error)
	IsPointAboveLevel(ctx context.Context, siteID int, p Point, loc BBLLocation) (*Response, error)
	IsPointAboveOrOnLevel(ctx context.Context, siteID int, p Point, loc BBLLocation) (*Response, error)
	IsPointBelowLevel(ctx context.Context, siteID int, p Point, loc BBLLocation) (*Response, error)
	IsPointBelowOrOnLevel(ctx context.Context, siteID int, p Point, loc BBLLocation) (*Response, error)

	// ============================================================================
	// Connectors
	// ============================================================================

	RegisterConnector(ctx context.Context, name, description string) (*ConnectorRegistration, error)
	ReregisterConnector(ctx context.Context, connectorID, name, description string) (*ConnectorRegistration, error)
	UpdateConnector(ctx context.Context, connectorID string, update ConnectorUpdate) error
	UnregisterConnector(ctx context.Context, connectorID, instanceID string) error
	PingConnector(ctx context.Context, connectorID, instanceID string) error

	// ============================================================================
	// Subscriptions, Webhooks and Notifications
	// ============================================================================

	GetSubscriptions(ctx context.Context) ([]Record, error)
	SetWebhook(ctx context.Context, webhookURL string) error
	GetWebhook(ctx context.Context) (string, error)
	SendEmail(ctx context.Context, to []string, title, content string) error
	SendSMS(ctx context.Context, to []string, content string) error
	SendTelegram(ctx context.Context, to []string, content string) error
	SendWebhookAction(ctx context.Context, action WebhookAction) error

	// ============================================================================
	// Session and Cache
	// ============================================================================

	Config() (Config, bool)
	Token() *AuthToken
	InvalidateCache(resourceType string, ids ...string)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

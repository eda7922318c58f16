package engine

// EventType is the closed enum of domain events. Adapters (webhooks,
// notifications, score displays) consume these; the engine never calls
// outward directly.
type EventType string

const (
	EventTick EventType = "tick"

	EventPlayerJoined EventType = "player_joined"
	EventPlayerAction EventType = "player_action"

	EventShipmentCreated     EventType = "shipment_created"
	EventShipmentMoved       EventType = "shipment_moved"
	EventShipmentArrived     EventType = "shipment_arrived"
	EventShipmentIntercepted EventType = "shipment_intercepted"
	EventShipmentPartialLoss EventType = "partial_loss"
	EventCombatResolved      EventType = "combat_resolved"

	EventTradeExecuted  EventType = "trade_executed"
	EventOrderPlaced    EventType = "order_placed"
	EventOrderCancelled EventType = "order_cancelled"
	EventOrderTriggered EventType = "order_triggered"

	EventZoneSupplied     EventType = "zone_supplied"
	EventZoneStateChanged EventType = "zone_state_changed"
	EventZoneCaptured     EventType = "zone_captured"

	EventIntelGathered EventType = "intel_gathered"

	EventContractPosted    EventType = "contract_posted"
	EventContractAccepted  EventType = "contract_accepted"
	EventContractCompleted EventType = "contract_completed"
	EventContractFailed    EventType = "contract_failed"
	EventContractExpired   EventType = "contract_expired"
	EventContractCancelled EventType = "contract_cancelled"

	EventUnitProduced EventType = "unit_produced"
	EventUnitHired    EventType = "unit_hired"
	EventUnitDeserted EventType = "unit_deserted"

	EventFactionJoined EventType = "faction_joined"
	EventFactionLeft   EventType = "faction_left"

	EventWeekAdvanced EventType = "week_advanced"
	EventSeasonEnded  EventType = "season_ended"
)

// Actor types for Event.ActorType.
const (
	ActorSystem = "system"
	ActorPlayer = "player"
)

// Event is one entry in the append-only world log, ordered by tick.
type Event struct {
	Type      EventType      `json:"type"`
	Tick      uint64         `json:"tick"`
	ActorID   string         `json:"actor_id,omitempty"`
	ActorType string         `json:"actor_type"`
	Data      map[string]any `json:"data,omitempty"`
}

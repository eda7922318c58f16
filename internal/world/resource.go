package world

// Resource enumerates the tradeable goods. Together with credits these are
// the thirteen numeric fields of a player inventory.
type Resource string

const (
	ResourceOre        Resource = "ore"
	ResourceTimber     Resource = "timber"
	ResourceGrain      Resource = "grain"
	ResourceFuel       Resource = "fuel"
	ResourceAlloys     Resource = "alloys"
	ResourceComponents Resource = "components"
	ResourceRations    Resource = "rations"
	ResourceMedkits    Resource = "medkits"
	ResourceComms      Resource = "comms_gear"
	ResourceSupply     Resource = "supply_units"
	ResourceTextiles   Resource = "textiles"
	ResourceContraband Resource = "contraband"
)

// AllResources lists every resource in a stable order (used by the market
// book, persistence, and anywhere iteration order must be deterministic).
var AllResources = []Resource{
	ResourceOre,
	ResourceTimber,
	ResourceGrain,
	ResourceFuel,
	ResourceAlloys,
	ResourceComponents,
	ResourceRations,
	ResourceMedkits,
	ResourceComms,
	ResourceSupply,
	ResourceTextiles,
	ResourceContraband,
}

// ValidResource reports whether r names a known resource.
func ValidResource(r Resource) bool {
	for _, known := range AllResources {
		if r == known {
			return true
		}
	}
	return false
}

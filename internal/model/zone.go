package model

const (
	// AllZones tags content and schedule entries shown on every terminal.
	AllZones = "all"
	// AdminZone is the dashboard channel. It receives every push but is
	// never a display zone.
	AdminZone = "admin"
)

// Zone is a physical display location.
type Zone struct {
	ID           string `db:"id"            json:"id"`
	DisplayName  string `db:"display_name"  json:"display_name"`
	Description  string `db:"description"   json:"description"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
}

// ZoneMatches reports whether something tagged with entryZone is visible
// in target.
func ZoneMatches(entryZone, target string) bool {
	return entryZone == target || entryZone == AllZones
}

// DefaultZones are seeded into every fresh store.
var DefaultZones = []Zone{
	{ID: AllZones, DisplayName: "All zones", Description: "Shown on every screen", DisplayOrder: 0},
	{ID: "reception", DisplayName: "Reception", Description: "Main entrance and reception", DisplayOrder: 1},
	{ID: "restaurant", DisplayName: "Restaurant", Description: "Dining area", DisplayOrder: 2},
	{ID: "skislope", DisplayName: "Ski slope", Description: "Main slope", DisplayOrder: 3},
	{ID: "lockers", DisplayName: "Lockers", Description: "Changing rooms and lockers", DisplayOrder: 4},
	{ID: "shop", DisplayName: "Shop", Description: "Equipment shop", DisplayOrder: 5},
}

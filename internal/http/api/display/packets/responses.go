package packets

// ZoneResponse mirrors model.Zone
type ZoneResponse struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

// DisplaysResponse reports hub membership per zone and sessions seen alive
// within the presence TTL.
type DisplaysResponse struct {
	Zones  map[string]int    `json:"zones"`
	Online map[string]string `json:"online"`
}

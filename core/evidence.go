package core

// EvidenceItem is a single similarity-search hit: a stable identifier, a
// relevance score and the stored payload. The same shape is used for search
// results and for the evidence lists carried on the incident record.
type EvidenceItem struct {
	ID      string         `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Evidence is the fixed-shape aggregation of retrieved context, populated
// once before the workflow starts and treated as immutable thereafter.
type Evidence struct {
	// Incidents holds similar past incidents from the incident memory.
	Incidents []EvidenceItem `json:"incidents"`
	// Protocols holds matched protocol / SOP document chunks.
	Protocols []EvidenceItem `json:"protocols"`
	// Landmarks holds nearby landmark candidates (only searched when the
	// report location is unknown).
	Landmarks []EvidenceItem `json:"landmarks"`
	// Images holds matched reference images (only searched when image
	// vectors accompany the report).
	Images []EvidenceItem `json:"images"`
}

// Empty reports whether no collection returned any evidence.
func (e Evidence) Empty() bool {
	return len(e.Incidents) == 0 && len(e.Protocols) == 0 && len(e.Landmarks) == 0 && len(e.Images) == 0
}

// GroundedClaim is an assertion produced by an agent together with the
// evidence identifiers that justify it.
type GroundedClaim struct {
	Claim       string   `json:"claim"`
	EvidenceIDs []string `json:"evidence_ids"`
}

// AmbiguityFlag records a field an agent could not resolve decisively,
// together with candidate resolutions for a human to pick from.
type AmbiguityFlag struct {
	Field       string   `json:"field"`
	Description string   `json:"description"`
	Candidates  []string `json:"candidates,omitempty"`
}

// AssetRecommendation is one recommended response asset, e.g.
// {Type: "ALS_Ambulance", Quantity: 1}.
type AssetRecommendation struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

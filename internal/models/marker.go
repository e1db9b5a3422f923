package models

// MarkerKind is the wire-level anomaly classification. The simulator tracks
// a richer ground-truth taxonomy internally (static vs moving drift) but
// collapses both into KindDrift when reporting markers, matching the
// detector's own output, which only ever knows "drift" and "rebuild".
type MarkerKind string

const (
	KindTunnel  MarkerKind = "tunnel"
	KindDrift   MarkerKind = "drift"
	KindSpeed   MarkerKind = "speed"
	KindRebuild MarkerKind = "rebuild"
)

// Marker is an append-only annotation attached to a position, produced
// either by the simulator (ground truth) or by the detector (inline, at
// decision time — never reconstructed by re-scanning the window afterward).
type Marker struct {
	Kind        MarkerKind `json:"kind"`
	Position    Fix        `json:"position"`
	Description string     `json:"description,omitempty"`
	T           int64      `json:"timestamp"`
}

package resolve

// Origin records which discovery path produced a candidate.
type Origin string

const (
	// OriginStructured marks candidates from the extraction tool's metadata.
	OriginStructured Origin = "structured"
	// OriginHeuristic marks candidates from the raw page scan.
	OriginHeuristic Origin = "heuristic"
)

// Candidate is one discovered, potentially-playable media reference. Index is
// assigned after deduplication and is 1-based and contiguous for the lifetime
// of one resolution call.
type Candidate struct {
	Index  int
	Title  string
	ID     string
	URL    string
	Origin Origin
}

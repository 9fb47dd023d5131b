package match

// DefaultThreshold is the minimum score the import pipeline accepts as a
// duplicate. One field alone cannot reach it with [DefaultWeights].
const DefaultThreshold = 5.0

// Policy decides whether a [Result] is trusted enough to merge.
type Policy struct {
	Threshold float64 `toml:"threshold"`
}

// Accept reports whether r names a match that is either an ExternalID hit or
// scores at least Threshold.
func (p Policy) Accept(r Result) bool {
	if r.Match == nil {
		return false
	}
	return r.ExactID || r.Score >= p.Threshold
}

// Package match decides whether an imported person is probably a person that
// already exists.
//
// [Resolver.FindBestMatch] scores a candidate against every existing person
// and returns the highest scoring one. Scores are additive:
//
//   - last name equal (case-insensitive), else candidate last name equal to
//     the existing maiden name
//   - first name similarity, scaled by [Similarity]
//   - birth year proximity: exact, one year apart, two to three years apart
//   - birth place similarity, scaled by [Similarity]
//
// The point values live in [Weights]; [DefaultWeights] holds the values the
// import pipeline has always used. Two records with the same non-empty
// ExternalID short-circuit scoring with Weights.ExternalID.
//
// The resolver never decides whether a match is good enough. That is a
// caller policy, expressed by [Policy]: a single weak signal such as a fuzzy
// first name with nothing else in common should not be accepted, so callers
// pick a threshold above what one field alone can contribute.
package match

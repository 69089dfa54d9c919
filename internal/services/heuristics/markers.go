package heuristics

// Flag markers the scoring engine looks for in finding details.
// Patterns must be lower case.
var (
	redMarkers = []string{
		"🔴",
		"❌",
		"red flag",
		"high risk",
	}

	yellowMarkers = []string{
		"🟡",
		"⚠️",
		"⚠",
		"yellow flag",
		"mild concern",
	}
)

// HasRedMarker reports whether text carries a red-flag marker.
func HasRedMarker(text string) bool {
	return containsAny(text, redMarkers)
}

// HasYellowMarker reports whether text carries a yellow-flag marker.
func HasYellowMarker(text string) bool {
	return containsAny(text, yellowMarkers)
}

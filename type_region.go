package tracker

import "fmt"

// Region classifies a holding by geographic exposure.
type Region int

const (
	// UnassignedRegion marks a holding the user has not classified yet.
	UnassignedRegion Region = iota
	US
	EU
	// EM stands for emerging markets.
	EM
	Global
	// NonRegional is for holdings without a geography, e.g. commodities.
	NonRegional
)

// Regions lists every defined region, in display order.
func Regions() []Region {
	return []Region{US, EU, EM, Global, NonRegional, UnassignedRegion}
}

func (r Region) String() string {
	switch r {
	case US:
		return "US"
	case EU:
		return "EU"
	case EM:
		return "EM"
	case Global:
		return "Global"
	case NonRegional:
		return "Non"
	case UnassignedRegion:
		return "Unassigned"
	default:
		return "unknown"
	}
}

// ParseRegion parses a string label into a Region.
func ParseRegion(s string) (Region, error) {
	switch s {
	case "US":
		return US, nil
	case "EU":
		return EU, nil
	case "EM":
		return EM, nil
	case "Global":
		return Global, nil
	case "Non":
		return NonRegional, nil
	case "Unassigned", "":
		return UnassignedRegion, nil
	default:
		return UnassignedRegion, fmt.Errorf("unknown region: %q", s)
	}
}

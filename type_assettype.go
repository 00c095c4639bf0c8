package tracker

import "fmt"

// AssetType classifies a holding by the kind of asset it represents.
type AssetType int

const (
	// UnassignedType marks a holding the user has not classified yet.
	UnassignedType AssetType = iota
	Equity
	Bonds
	Commodity
	Thematic
	REIT
)

// AssetTypes lists every defined asset type, in display order.
func AssetTypes() []AssetType {
	return []AssetType{Equity, Bonds, Commodity, Thematic, REIT, UnassignedType}
}

func (t AssetType) String() string {
	switch t {
	case Equity:
		return "Equity"
	case Bonds:
		return "Bonds"
	case Commodity:
		return "Commodity"
	case Thematic:
		return "Thematic"
	case REIT:
		return "REIT"
	case UnassignedType:
		return "Unassigned"
	default:
		return "unknown"
	}
}

// ParseAssetType parses a string label into an AssetType.
func ParseAssetType(s string) (AssetType, error) {
	switch s {
	case "Equity":
		return Equity, nil
	case "Bonds":
		return Bonds, nil
	case "Commodity":
		return Commodity, nil
	case "Thematic":
		return Thematic, nil
	case "REIT":
		return REIT, nil
	case "Unassigned", "":
		return UnassignedType, nil
	default:
		return UnassignedType, fmt.Errorf("unknown asset type: %q", s)
	}
}

package normalize

import (
	"github.com/tidwall/gjson"

	"github.com/tilebound/geomux/internal/types"
)

// Promotion paths per canonical address field, probed in order; the first
// existing path wins. The standard.countryname probe keeps the
// administrative country-name field ahead of plain address blocks.
var (
	countryPaths  = []string{"standard.countryname", "address.country", "properties.country"}
	statePaths    = []string{"address.state", "properties.state"}
	cityPaths     = []string{"address.city", "properties.city", "address.town", "address.village"}
	postcodePaths = []string{"address.postcode", "properties.postcode"}
)

// promoteAddress lifts address fields out of a raw candidate. Returns nil
// when no field is present so the canonical result omits the block.
func promoteAddress(raw []byte) *types.Address {
	addr := types.Address{
		Country:  firstString(raw, countryPaths),
		State:    firstString(raw, statePaths),
		City:     firstString(raw, cityPaths),
		Postcode: firstString(raw, postcodePaths),
	}
	if addr == (types.Address{}) {
		return nil
	}
	return &addr
}

func firstString(raw []byte, paths []string) string {
	for _, path := range paths {
		if v := gjson.GetBytes(raw, path); v.Exists() {
			return v.String()
		}
	}
	return ""
}

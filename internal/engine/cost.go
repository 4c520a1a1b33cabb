package engine

// CalculateCost sums the dues for the selected camping options. Staff and
// admins pay staff dues, everyone else participant dues. No rounding;
// callers format with two decimals for display.
func CalculateCost(catalog Catalog, optionIDs map[uint]bool, staff bool) float64 {
	var total float64
	for _, opt := range catalog.Options {
		if !optionIDs[opt.ID] {
			continue
		}
		if staff {
			total += opt.StaffDues
		} else {
			total += opt.ParticipantDues
		}
	}
	return total
}

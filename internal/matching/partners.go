package matching

// Partner is an umbrella / employer-of-record company the platform can hand a
// conditional pairing to.
type Partner struct {
	Name             string   `json:"name"`
	Countries        []string `json:"countries"`
	CanSponsorVisaUK bool     `json:"can_sponsor_visa_uk"`
	Website          string   `json:"website,omitempty"`
}

// partnerRegistry is the static intermediary registry. Order matters: it is
// the fallback ordering for suggestions.
var partnerRegistry = []Partner{
	{Name: "Skylane Umbrella", Countries: []string{"UK"}, CanSponsorVisaUK: true, Website: "https://skylane-umbrella.example"},
	{Name: "CrewBridge Contracting", Countries: []string{"UK", "IE"}, CanSponsorVisaUK: false},
	{Name: "AeroPayroll EOR", Countries: []string{"UK", "DE", "NL"}, CanSponsorVisaUK: true, Website: "https://aeropayroll.example"},
	{Name: "EuroTech Staffing", Countries: []string{"DE", "FR", "ES"}, CanSponsorVisaUK: false},
	{Name: "Hangar One Payroll", Countries: []string{"UK"}, CanSponsorVisaUK: true},
}

// partnerPriority names the partners that are always suggested first, in this
// order.
var partnerPriority = []string{"AeroPayroll EOR", "Skylane Umbrella"}

// SuggestedPartners returns the intermediaries worth recommending for a
// conditional UK pairing: only partners able to sponsor a UK work visa,
// priority partners first, everything else in registry order. Partners that
// cannot sponsor are never suggested, even when they operate in the job's
// country; recommending them would send the technician into a dead end.
func SuggestedPartners() []Partner {
	out := make([]Partner, 0, len(partnerRegistry))
	picked := make(map[string]bool, len(partnerRegistry))

	for _, name := range partnerPriority {
		for _, p := range partnerRegistry {
			if p.Name == name && p.CanSponsorVisaUK {
				out = append(out, p)
				picked[p.Name] = true
			}
		}
	}
	for _, p := range partnerRegistry {
		if p.CanSponsorVisaUK && !picked[p.Name] {
			out = append(out, p)
		}
	}

	return out
}

package matching

// MatchStatus tells a company whether a technician can be engaged directly or
// only through an employment/visa intermediary.
type MatchStatus string

const (
	MatchDirect      MatchStatus = "DIRECT"
	MatchConditional MatchStatus = "CONDITIONAL"
)

// JobTerms are the job attributes right-to-work evaluation depends on.
type JobTerms struct {
	Country               string
	RequiresRightToWorkUK bool
}

// ConditionalLegend explains a CONDITIONAL pairing to the requesting company.
const ConditionalLegend = "This technician does not hold UK right to work. The engagement is possible through an umbrella or employer-of-record partner that can sponsor a UK work visa."

// EvaluateMatch classifies a technician/job pairing. Rules are evaluated top
// to bottom, first match wins:
//
//  1. non-UK job — DIRECT
//  2. UK job that does not require right to work — DIRECT
//  3. UK job requiring right to work, technician holds it — DIRECT
//  4. otherwise — CONDITIONAL with an explanatory legend
func EvaluateMatch(job JobTerms, hasRightToWorkUK bool) (MatchStatus, string) {
	if job.Country != "UK" {
		return MatchDirect, ""
	}
	if !job.RequiresRightToWorkUK {
		return MatchDirect, ""
	}
	if hasRightToWorkUK {
		return MatchDirect, ""
	}
	return MatchConditional, ConditionalLegend
}

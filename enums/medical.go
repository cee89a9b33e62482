package enums

const (
	ConditionStatusActive   = "ACTIVE"
	ConditionStatusResolved = "RESOLVED"
	ConditionStatusManaged  = "MANAGED"
	ConditionStatusChronic  = "CHRONIC"
)

const (
	SeverityMild     = "MILD"
	SeverityModerate = "MODERATE"
	SeveritySevere   = "SEVERE"
)

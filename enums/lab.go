package enums

const (
	LabResultStatusPending   = "PENDING"
	LabResultStatusCompleted = "COMPLETED"
)

const (
	TestResultStatusNormal = "NORMAL"
	TestResultStatusHigh   = "HIGH"
	TestResultStatusLow    = "LOW"
)

package enums

type MedicationType string

const (
	MedicationTypeCurrent  MedicationType = "CURRENT"
	MedicationTypeAsNeeded MedicationType = "AS_NEEDED"
)

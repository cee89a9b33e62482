package enums

// Path segments of the per-user resource collections.
const (
	MedicalConditionResource = "medical-conditions"
	AllergyResource          = "allergies"
	AppointmentResource      = "appointments"
	MedicationResource       = "medications"
	LabResultResource        = "lab-results"
	ProfileResource          = "users/profile"
)

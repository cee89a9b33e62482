package models

type MedicalCondition struct {
	ID            int64  `json:"id,omitempty" validate:"required,gt=0"`
	Name          string `json:"name" validate:"required"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE RESOLVED MANAGED CHRONIC"`
	DiagnosedDate string `json:"diagnosedDate,omitempty"`
	Severity      string `json:"severity,omitempty" validate:"omitempty,oneof=MILD MODERATE SEVERE"`
	Notes         string `json:"notes,omitempty"`
}

func (c MedicalCondition) Validate() error {
	return validate.Struct(c)
}

type Allergy struct {
	ID              int64  `json:"id,omitempty" validate:"required,gt=0"`
	Allergen        string `json:"allergen" validate:"required"`
	Reaction        string `json:"reaction,omitempty"`
	Severity        string `json:"severity,omitempty" validate:"omitempty,oneof=MILD MODERATE SEVERE"`
	FirstOccurrence string `json:"firstOccurrence,omitempty"`
}

func (a Allergy) Validate() error {
	return validate.Struct(a)
}

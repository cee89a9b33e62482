package models

import "github.com/octabyte/bm-health-portal/enums"

type Medication struct {
	ID               int64                `json:"id,omitempty" validate:"required,gt=0"`
	Name             string               `json:"name" validate:"required"`
	Dosage           string               `json:"dosage,omitempty"`
	Frequency        string               `json:"frequency,omitempty"`
	Time             string               `json:"time,omitempty"`
	PrescribedBy     string               `json:"prescribedBy,omitempty"`
	Indication       string               `json:"indication,omitempty"`
	RefillsRemaining *int                 `json:"refillsRemaining,omitempty" validate:"omitempty,gte=0"`
	Instructions     string               `json:"instructions,omitempty"`
	Type             enums.MedicationType `json:"type,omitempty" validate:"omitempty,oneof=CURRENT AS_NEEDED"`
	NextRefill       *string              `json:"nextRefill"`
	CreatedAt        string               `json:"createdAt,omitempty"`
}

func (m Medication) Validate() error {
	return validate.Struct(m)
}

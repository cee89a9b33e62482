package models

type Appointment struct {
	ID        int64  `json:"id,omitempty" validate:"required,gt=0"`
	Doctor    string `json:"doctor" validate:"required"`
	Specialty string `json:"specialty,omitempty"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time,omitempty"`
	Location  string `json:"location,omitempty"`
	Type      string `json:"type,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

func (a Appointment) Validate() error {
	return validate.Struct(a)
}

package models

type Insurance struct {
	Provider    string
	PlanName    string
	MemberID    string
	GroupNumber string
}

// Profile mirrors the flat wire format of /users/profile/{userId}.
type Profile struct {
	ID                       int64  `json:"id,omitempty" validate:"required,gt=0"`
	FirstName                string `json:"firstName"`
	LastName                 string `json:"lastName"`
	Email                    string `json:"email" validate:"omitempty,email"`
	Phone                    string `json:"phone,omitempty"`
	DateOfBirth              string `json:"dateOfBirth,omitempty"`
	Address                  string `json:"address,omitempty"`
	City                     string `json:"city,omitempty"`
	State                    string `json:"state,omitempty"`
	ZipCode                  string `json:"zipCode,omitempty"`
	EmergencyContactName     string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone    string `json:"emergencyContactPhone,omitempty"`
	EmergencyContactRelation string `json:"emergencyContactRelation,omitempty"`
	InsuranceProvider        string `json:"insuranceProvider,omitempty"`
	InsurancePlanName        string `json:"insurancePlanName,omitempty"`
	InsuranceMemberID        string `json:"insuranceMemberId,omitempty"`
	InsuranceGroupNumber     string `json:"insuranceGroupNumber,omitempty"`
}

func (p Profile) Validate() error {
	return validate.Struct(p)
}

func (p Profile) Insurance() Insurance {
	return Insurance{
		Provider:    p.InsuranceProvider,
		PlanName:    p.InsurancePlanName,
		MemberID:    p.InsuranceMemberID,
		GroupNumber: p.InsuranceGroupNumber,
	}
}

func (p *Profile) SetInsurance(in Insurance) {
	p.InsuranceProvider = in.Provider
	p.InsurancePlanName = in.PlanName
	p.InsuranceMemberID = in.MemberID
	p.InsuranceGroupNumber = in.GroupNumber
}

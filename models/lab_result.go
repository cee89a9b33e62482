package models

type TestResult struct {
	Name   string `json:"name" validate:"required"`
	Value  string `json:"value" validate:"required"`
	Unit   string `json:"unit,omitempty"`
	Range  string `json:"range,omitempty"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=NORMAL HIGH LOW"`
}

type LabResult struct {
	ID          int64        `json:"id,omitempty" validate:"required,gt=0"`
	TestName    string       `json:"testName" validate:"required"`
	Date        string       `json:"date,omitempty"`
	OrderedBy   string       `json:"orderedBy,omitempty"`
	Status      string       `json:"status,omitempty" validate:"omitempty,oneof=PENDING COMPLETED"`
	TestResults []TestResult `json:"testResults,omitempty" validate:"dive"`
}

func (l LabResult) Validate() error {
	return validate.Struct(l)
}

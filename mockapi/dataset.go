package mockapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	errEmailTaken     = errors.New("email already registered")
	errBadCredentials = errors.New("invalid email or password")
	errUnknownUser    = errors.New("user not found")
)

type account struct {
	profile      models.Profile
	passwordHash []byte
}

// Dataset is the sandbox's whole state.
type Dataset struct {
	mu         sync.RWMutex
	bcryptCost int
	nextUserID int64
	accounts   map[int64]*account
	emails     map[string]int64

	Conditions   *table[models.MedicalCondition]
	Allergies    *table[models.Allergy]
	Appointments *table[models.Appointment]
	Medications  *table[models.Medication]
	LabResults   *table[models.LabResult]
}

func NewDataset(bcryptCost int) *Dataset {
	return &Dataset{
		bcryptCost:   bcryptCost,
		accounts:     make(map[int64]*account),
		emails:       make(map[string]int64),
		Conditions:   newTable(func(v *models.MedicalCondition, id int64) { v.ID = id }),
		Allergies:    newTable(func(v *models.Allergy, id int64) { v.ID = id }),
		Appointments: newTable(func(v *models.Appointment, id int64) { v.ID = id }),
		Medications:  newTable(func(v *models.Medication, id int64) { v.ID = id }),
		LabResults:   newTable(func(v *models.LabResult, id int64) { v.ID = id }),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns its profile.
func (d *Dataset) Register(req models.SignupRequest) (models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), d.bcryptCost)
	if err != nil {
		return models.Profile{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	email := normalizeEmail(req.Email)
	if _, taken := d.emails[email]; taken {
		return models.Profile{}, errEmailTaken
	}

	d.nextUserID++
	profile := models.Profile{
		ID:          d.nextUserID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
	}
	d.accounts[profile.ID] = &account{profile: profile, passwordHash: hash}
	d.emails[email] = profile.ID
	return profile, nil
}

func (d *Dataset) Authenticate(creds models.Credentials) (models.Profile, error) {
	d.mu.RLock()
	id, ok := d.emails[normalizeEmail(creds.Email)]
	var acc account
	if ok {
		acc = *d.accounts[id]
	}
	d.mu.RUnlock()

	if !ok {
		return models.Profile{}, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(creds.Password)); err != nil {
		return models.Profile{}, errBadCredentials
	}
	return acc.profile, nil
}

func (d *Dataset) Profile(userID int64) (models.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	acc, ok := d.accounts[userID]
	if !ok {
		return models.Profile{}, errUnknownUser
	}
	return acc.profile, nil
}

// UpdateProfile replaces the profile. The login email cannot change.
func (d *Dataset) UpdateProfile(userID int64, p models.Profile) (models.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	acc, ok := d.accounts[userID]
	if !ok {
		return models.Profile{}, errUnknownUser
	}
	p.ID = userID
	p.Email = acc.profile.Email
	acc.profile = p
	return p, nil
}

func summaryOf(p models.Profile) models.UserSummary {
	return models.UserSummary{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Email: p.Email}
}

const (
	DemoEmail    = "sarah.johnson@email.com"
	DemoPassword = "HealthDemo123"
)

// SeedDemo adds the demo patient with dates relative to now.
func (d *Dataset) SeedDemo(now time.Time) (models.Profile, error) {
	profile, err := d.Register(models.SignupRequest{
		FirstName:   "Sarah",
		LastName:    "Johnson",
		Email:       DemoEmail,
		Password:    DemoPassword,
		Phone:       "(555) 123-4567",
		DateOfBirth: "1985-03-15",
	})
	if err != nil {
		return models.Profile{}, err
	}

	profile.Address = "123 Main Street"
	profile.City = "Springfield"
	profile.State = "IL"
	profile.ZipCode = "62701"
	profile.EmergencyContactName = "Michael Johnson"
	profile.EmergencyContactPhone = "(555) 987-6543"
	profile.EmergencyContactRelation = "Spouse"
	profile.SetInsurance(models.Insurance{
		Provider:    "Blue Cross Blue Shield",
		PlanName:    "PPO Gold",
		MemberID:    "BCB123456789",
		GroupNumber: "GRP001",
	})
	if profile, err = d.UpdateProfile(profile.ID, profile); err != nil {
		return models.Profile{}, err
	}

	uid := profile.ID
	day := func(n int) string { return utils.FormatDate(utils.AddDays(now, n)) }
	refills := func(n int) *int { return &n }
	refillOn := func(n int) *string { d := day(n); return &d }

	d.Conditions.insert(uid, models.MedicalCondition{Name: "Hypertension", Status: "ACTIVE", Severity: "MODERATE", DiagnosedDate: "2019-06-10", Notes: "Managed with medication and diet"})
	d.Conditions.insert(uid, models.MedicalCondition{Name: "Type 2 Diabetes", Status: "MANAGED", Severity: "MILD", DiagnosedDate: "2021-02-03"})

	d.Allergies.insert(uid, models.Allergy{Allergen: "Penicillin", Reaction: "Hives", Severity: "SEVERE", FirstOccurrence: "2005-08-21"})
	d.Allergies.insert(uid, models.Allergy{Allergen: "Peanuts", Reaction: "Swelling", Severity: "MODERATE"})

	d.Appointments.insert(uid, models.Appointment{Doctor: "Dr. Emily Chen", Specialty: "Cardiology", Date: day(7), Time: "10:00", Location: "Heart Center, Suite 200", Type: "Follow-up", Reason: "Blood pressure review", Status: enums.AppointmentStatusConfirmed})
	d.Appointments.insert(uid, models.Appointment{Doctor: "Dr. Robert Miller", Specialty: "Endocrinology", Date: day(21), Time: "14:30", Location: "Main Clinic", Type: "Consultation", Reason: "A1C check", Status: enums.AppointmentStatusPending})
	d.Appointments.insert(uid, models.Appointment{Doctor: "Dr. Emily Chen", Specialty: "Cardiology", Date: day(-30), Time: "09:00", Location: "Heart Center, Suite 200", Type: "Check-up", Status: enums.AppointmentStatusCompleted})

	d.Medications.insert(uid, models.Medication{Name: "Lisinopril", Dosage: "10mg", Frequency: "Once daily", Time: "08:00", PrescribedBy: "Dr. Emily Chen", Indication: "Hypertension", RefillsRemaining: refills(3), Type: enums.MedicationTypeCurrent, NextRefill: refillOn(12), CreatedAt: day(-90)})
	d.Medications.insert(uid, models.Medication{Name: "Metformin", Dosage: "500mg", Frequency: "Twice daily", PrescribedBy: "Dr. Robert Miller", Indication: "Type 2 Diabetes", RefillsRemaining: refills(5), Type: enums.MedicationTypeCurrent, NextRefill: refillOn(20), CreatedAt: day(-60)})
	d.Medications.insert(uid, models.Medication{Name: "Ibuprofen", Dosage: "200mg", Frequency: "As needed", Indication: "Headache", Instructions: "Take with food", Type: enums.MedicationTypeAsNeeded, CreatedAt: day(-10)})

	d.LabResults.insert(uid, models.LabResult{
		TestName:  "Comprehensive Metabolic Panel",
		Date:      day(-14),
		OrderedBy: "Dr. Robert Miller",
		Status:    enums.LabResultStatusCompleted,
		TestResults: []models.TestResult{
			{Name: "Glucose", Value: "126", Unit: "mg/dL", Range: "70-99", Status: enums.TestResultStatusHigh},
			{Name: "Sodium", Value: "140", Unit: "mmol/L", Range: "135-145", Status: enums.TestResultStatusNormal},
		},
	})

	return profile, nil
}

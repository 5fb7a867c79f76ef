package models

// Domain models matching the database schema in db/migrations/0001_init.sql.
//
// Calendar dates (availability ranges, contract dates, passport expiry) are
// stored as ISO "YYYY-MM-DD" strings and are inclusive on both ends.
// Timestamps are unix milliseconds.

const (
	RoleCompany    = "company"
	RoleTechnician = "technician"
)

type User struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name" validate:"required"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	Role         string `json:"role" db:"role"`
	PasswordHash string `json:"password_hash,omitempty" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}

type Technician struct {
	UserID              int64    `json:"user_id" db:"user_id"`
	LicenseCategories   []string `json:"license_categories" db:"license_categories"`
	AircraftTypes       []string `json:"aircraft_types" db:"aircraft_types"`
	Specialties         []string `json:"specialties" db:"specialties"`
	Languages           []string `json:"languages" db:"languages"`
	OwnTools            bool     `json:"own_tools" db:"own_tools"`
	RightToWorkUK       bool     `json:"right_to_work_uk" db:"right_to_work_uk"`
	UKLicense           bool     `json:"uk_license" db:"uk_license"`
	DrivingLicense      bool     `json:"driving_license" db:"driving_license"`
	IsAvailable         bool     `json:"is_available" db:"is_available"`
	VisibilityAnonymous bool     `json:"visibility_anonymous" db:"visibility_anonymous"`
	PassportExpiry      *string  `json:"passport_expiry,omitempty" db:"passport_expiry"`
	Updated             int64    `json:"updated" db:"updated"`
}

type AvailabilitySlot struct {
	ID           int64  `json:"id" db:"id"`
	TechnicianID int64  `json:"technician_id" db:"technician_id"`
	StartDate    string `json:"start_date" db:"start_date"`
	EndDate      string `json:"end_date" db:"end_date"`
	Created      int64  `json:"created" db:"created"`
}

// Job request statuses. Pending is the only state with outgoing transitions.
const (
	RequestPending   = "pending"
	RequestAccepted  = "accepted"
	RequestRejected  = "rejected"
	RequestCancelled = "cancelled"
)

const (
	ContractShortTerm = "short_term"
	ContractLongTerm  = "long_term"
)

type JobRequest struct {
	ID                    int64  `json:"id" db:"id"`
	CompanyID             int64  `json:"company_id" db:"company_id"`
	TechnicianID          int64  `json:"technician_id" db:"technician_id"`
	FinalClientName       string `json:"final_client_name,omitempty" db:"final_client_name"`
	WorkLocation          string `json:"work_location" db:"work_location"`
	Country               string `json:"country" db:"country"`
	ContractType          string `json:"contract_type" db:"contract_type"`
	StartDate             string `json:"start_date" db:"start_date"`
	EndDate               string `json:"end_date" db:"end_date"`
	Notes                 string `json:"notes,omitempty" db:"notes"`
	Status                string `json:"status" db:"status"`
	RequiresRightToWorkUK bool   `json:"requires_right_to_work_uk" db:"requires_right_to_work_uk"`
	Rated                 bool   `json:"rated" db:"rated"`
	Created               int64  `json:"created" db:"created"`
	Updated               int64  `json:"updated" db:"updated"`
}

// Work arrangement chosen by the technician when accepting a request.
const (
	WorkModeSelfEmployed          = "self_employed"
	WorkModeUmbrella              = "umbrella"
	WorkModeUmbrellaWithInsurance = "umbrella_with_insurance"
)

// How a technician without UK right-to-work covers a job that requires it.
const (
	UKEligibilityNotRequired  = "not_required"
	UKEligibilityUmbrella     = "umbrella"
	UKEligibilitySelfArranged = "self_arranged"
)

type JobAcceptance struct {
	ID                int64   `json:"id" db:"id"`
	JobRequestID      int64   `json:"job_request_id" db:"job_request_id"`
	WorkMode          string  `json:"work_mode" db:"work_mode"`
	UmbrellaProvider  *string `json:"umbrella_provider,omitempty" db:"umbrella_provider"`
	BankAccount       *string `json:"bank_account,omitempty" db:"bank_account"`
	UKEligibilityMode string  `json:"uk_eligibility_mode" db:"uk_eligibility_mode"`
	Acknowledged      bool    `json:"acknowledged" db:"acknowledged"`
	Created           int64   `json:"created" db:"created"`
}

type JobRating struct {
	ID            int64   `json:"id" db:"id"`
	JobRequestID  int64   `json:"job_request_id" db:"job_request_id"`
	RaterUserID   int64   `json:"rater_user_id" db:"rater_user_id"`
	RatedUserID   int64   `json:"rated_user_id" db:"rated_user_id"`
	Overall       int     `json:"overall" db:"overall"`
	Punctuality   *int    `json:"punctuality,omitempty" db:"punctuality"`
	Skill         *int    `json:"skill,omitempty" db:"skill"`
	Communication *int    `json:"communication,omitempty" db:"communication"`
	Reliability   *int    `json:"reliability,omitempty" db:"reliability"`
	Comment       *string `json:"comment,omitempty" db:"comment"`
	Created       int64   `json:"created" db:"created"`
	Updated       int64   `json:"updated" db:"updated"`
}

const GrantFoundingProfileComplete = "founding_profile_complete"

type PremiumGrant struct {
	ID        int64  `json:"id" db:"id"`
	UserID    int64  `json:"user_id" db:"user_id"`
	GrantType string `json:"grant_type" db:"grant_type"`
	Snapshot  string `json:"snapshot" db:"snapshot"`
	Granted   int64  `json:"granted" db:"granted"`
	Expires   int64  `json:"expires" db:"expires"`
}

// Internal subscription statuses. External processor vocabulary is translated
// into this set; anything unrecognized becomes SubscriptionPending.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionPastDue  = "past_due"
	SubscriptionPaused   = "paused"
	SubscriptionCanceled = "canceled"
	SubscriptionPending  = "pending"
)

type BillingSubscription struct {
	ID                int64   `json:"id" db:"id"`
	ExternalID        string  `json:"external_id" db:"external_id"`
	UserID            int64   `json:"user_id" db:"user_id"`
	Status            string  `json:"status" db:"status"`
	PeriodStart       *string `json:"period_start,omitempty" db:"period_start"`
	PeriodEnd         *string `json:"period_end,omitempty" db:"period_end"`
	CancelAtPeriodEnd bool    `json:"cancel_at_period_end" db:"cancel_at_period_end"`
	Updated           int64   `json:"updated" db:"updated"`
}

type BillingEvent struct {
	ID         int64  `json:"id" db:"id"`
	ExternalID string `json:"external_id" db:"external_id"`
	EventType  string `json:"event_type" db:"event_type"`
	Payload    string `json:"payload" db:"payload"`
	Processed  bool   `json:"processed" db:"processed"`
	Received   int64  `json:"received" db:"received"`
}

type Document struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	DocType     string `json:"doc_type" db:"doc_type"`
	FileName    string `json:"file_name" db:"file_name"`
	StoragePath string `json:"storage_path" db:"storage_path"`
	Uploaded    int64  `json:"uploaded" db:"uploaded"`
}

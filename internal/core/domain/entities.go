package domain

// Role represents a staff user role in the system
type Role string

const (
	RoleAgent Role = "AGENT"
	RoleAdmin Role = "ADMIN"
)

// GuarantorRole distinguishes the two guarantor figures a rental policy accepts
type GuarantorRole string

const (
	// RoleFiador always backs the lease with real-estate collateral.
	// The guarantee method is fixed to PROPERTY and never switches.
	RoleFiador GuarantorRole = "FIADOR"
	// RoleObligadoSolidario may back the lease with income or property
	// and can switch between the two.
	RoleObligadoSolidario GuarantorRole = "OBLIGADO_SOLIDARIO"
)

// GuaranteeMethod is how a guarantor backs the lease
type GuaranteeMethod string

const (
	MethodProperty GuaranteeMethod = "PROPERTY"
	MethodIncome   GuaranteeMethod = "INCOME"
	MethodUnset    GuaranteeMethod = ""
)

// VerificationStatus is the staff-driven review state of a guarantor
type VerificationStatus string

const (
	VerificationPending         VerificationStatus = "PENDING"
	VerificationInReview        VerificationStatus = "IN_REVIEW"
	VerificationApproved        VerificationStatus = "APPROVED"
	VerificationRejected        VerificationStatus = "REJECTED"
	VerificationRequiresChanges VerificationStatus = "REQUIRES_CHANGES"
)

// Nationality of an individual guarantor. Mexicans identify with CURP,
// foreigners with a passport number.
type Nationality string

const (
	NationalityMexican Nationality = "MEXICAN"
	NationalityForeign Nationality = "FOREIGN"
)

// MaritalStatus of an individual guarantor
type MaritalStatus string

const (
	MaritalSingle               MaritalStatus = "SINGLE"
	MaritalMarriedJointProperty MaritalStatus = "MARRIED_JOINT_PROPERTY"
	MaritalMarriedSeparate      MaritalStatus = "MARRIED_SEPARATE_PROPERTY"
	MaritalDivorced             MaritalStatus = "DIVORCED"
	MaritalWidowed              MaritalStatus = "WIDOWED"
	MaritalCohabiting           MaritalStatus = "COHABITING"
)

// ReferenceKind separates the two reference lists
type ReferenceKind string

const (
	ReferencePersonal   ReferenceKind = "PERSONAL"
	ReferenceCommercial ReferenceKind = "COMMERCIAL"
)

// ReferenceSummary reports how a guarantor stands against the reference minimum
type ReferenceSummary struct {
	Total            int  `json:"total"`
	MeetsRequirement bool `json:"meets_requirement"`
	MissingCount     int  `json:"missing_count"`
}

// PolicyStatus tracks where a rental policy stands
type PolicyStatus string

const (
	PolicyOpen               PolicyStatus = "OPEN"
	PolicyGuarantorsComplete PolicyStatus = "GUARANTORS_COMPLETE"
	PolicyClosed             PolicyStatus = "CLOSED"
)

// Activity actions recorded on the policy timeline
const (
	ActionGuarantorCreated  = "GUARANTOR_CREATED"
	ActionGuarantorUpdated  = "GUARANTOR_UPDATED"
	ActionGuarantorArchived = "GUARANTOR_ARCHIVED"
	ActionGuarantorRestored = "GUARANTOR_RESTORED"
	ActionMethodChanged     = "GUARANTEE_METHOD_CHANGED"
	ActionInfoCompleted     = "INFORMATION_COMPLETED"
	ActionSubmitted         = "SUBMITTED_FOR_VERIFICATION"
	ActionVerificationSet   = "VERIFICATION_STATUS_SET"
	ActionReferencesSaved   = "REFERENCES_SAVED"
	ActionTokenRefreshed    = "ACCESS_TOKEN_REFRESHED"
	ActionTokenRevoked      = "ACCESS_TOKEN_REVOKED"
	ActionDocumentUploaded  = "DOCUMENT_UPLOADED"
)

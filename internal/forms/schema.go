package forms

import (
	"github.com/udyam-mitra/udyam_mitra/internal/validation"
)

// Field describes one form input: its wire name, semantic kind, and the
// constraints a client needs to render and pre-validate it.
type Field struct {
	Name        string               `json:"name"`
	Kind        validation.FieldKind `json:"kind"`
	Type        string               `json:"type"`
	Label       string               `json:"label"`
	Placeholder string               `json:"placeholder,omitempty"`
	Required    bool                 `json:"required"`
	Pattern     string               `json:"pattern,omitempty"`
	MinLength   int                  `json:"minLength,omitempty"`
	MaxLength   int                  `json:"maxLength,omitempty"`
	Options     []Option             `json:"options,omitempty"`
}

// Option is one entry of a select field.
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Step groups the ordered fields collected together in one wizard screen.
type Step struct {
	Number int     `json:"step"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Schema is the full ordered form description. The server validates against
// it and serves it to clients, so both sides derive their rules from the one
// definition.
type Schema struct {
	Steps []Step `json:"steps"`
}

// Registration is the canonical two-step registration schema.
var Registration = Schema{
	Steps: []Step{
		{
			Number: 1,
			Title:  "Aadhaar Details",
			Fields: []Field{
				{
					Name: "aadhaarNumber", Kind: validation.KindAadhaar, Type: "text",
					Label: "Aadhaar Number", Placeholder: "Enter 12-digit Aadhaar number",
					Required: true, Pattern: "^[0-9]{12}$", MinLength: 12, MaxLength: 12,
				},
				{
					Name: "mobileNumber", Kind: validation.KindMobile, Type: "tel",
					Label: "Mobile Number", Placeholder: "Enter 10-digit mobile number",
					Required: true, Pattern: "^[6-9][0-9]{9}$", MinLength: 10, MaxLength: 10,
				},
				{
					Name: "otp", Kind: validation.KindOTP, Type: "text",
					Label: "OTP", Placeholder: "Enter OTP",
					Required: true, Pattern: "^[0-9]{6}$", MinLength: 6, MaxLength: 6,
				},
			},
		},
		{
			Number: 2,
			Title:  "Enterprise Details",
			Fields: []Field{
				{
					Name: "panNumber", Kind: validation.KindPAN, Type: "text",
					Label: "PAN Number", Placeholder: "Enter PAN number",
					Required: true, Pattern: "^[A-Z]{5}[0-9]{4}[A-Z]{1}$", MinLength: 10, MaxLength: 10,
				},
				{
					Name: "enterpriseName", Kind: validation.KindEnterpriseName, Type: "text",
					Label: "Name of Enterprise", Placeholder: "Enter enterprise name",
					Required: true, MinLength: 2, MaxLength: 100,
				},
				{
					Name: "enterpriseType", Kind: validation.KindEnterpriseType, Type: "select",
					Label: "Type of Enterprise", Required: true, Options: enterpriseTypeOptions,
				},
				{
					Name: "commencementDate", Kind: validation.KindCommencementDate, Type: "date",
					Label: "Date of Commencement of Business", Required: true,
				},
				{
					Name: "address", Kind: validation.KindAddress, Type: "textarea",
					Label: "Address of Enterprise", Placeholder: "Enter complete address",
					Required: true, MinLength: 10, MaxLength: 500,
				},
				{
					Name: "pincode", Kind: validation.KindPincode, Type: "text",
					Label: "PIN Code", Placeholder: "Enter 6-digit PIN code",
					Required: true, Pattern: "^[0-9]{6}$", MinLength: 6, MaxLength: 6,
				},
				{
					Name: "state", Kind: validation.KindState, Type: "select",
					Label: "State", Required: true, Options: stateOptions,
				},
				{
					Name: "district", Kind: validation.KindDistrict, Type: "text",
					Label: "District", Placeholder: "District (auto-filled from PIN code)",
					Required: true,
				},
				{
					Name: "emailId", Kind: validation.KindEmail, Type: "email",
					Label: "Email ID", Placeholder: "Enter email address",
					Required: false,
				},
			},
		},
	},
}

// StepFields returns the fields for a step number, reporting whether the step
// exists. Steps outside the schema are rejected here, before any state
// transition runs.
func StepFields(step int) ([]Field, bool) {
	for _, s := range Registration.Steps {
		if s.Number == step {
			return s.Fields, true
		}
	}
	return nil, false
}

// ValidateStep checks every field of the given step against the submitted
// values and collects per-field messages. A nil map means the step passed.
func ValidateStep(step int, values map[string]string) validation.Errors {
	fields, ok := StepFields(step)
	if !ok {
		return validation.Errors{"step": "Step must be 1 or 2"}
	}

	errs := validation.Errors{}
	for _, f := range fields {
		if err := validation.Validate(f.Kind, values[f.Name], f.Required); err != nil {
			errs[f.Name] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

var enterpriseTypeOptions = []Option{
	{Value: "", Text: "Select Type"},
	{Value: "proprietorship", Text: "Proprietorship"},
	{Value: "partnership", Text: "Partnership"},
	{Value: "llp", Text: "Limited Liability Partnership"},
	{Value: "pvt_ltd", Text: "Private Limited Company"},
	{Value: "public_ltd", Text: "Public Limited Company"},
	{Value: "cooperative", Text: "Cooperative Society"},
	{Value: "trust", Text: "Trust"},
	{Value: "society", Text: "Society"},
}

var stateOptions = []Option{
	{Value: "", Text: "Select State"},
	{Value: "andhra_pradesh", Text: "Andhra Pradesh"},
	{Value: "arunachal_pradesh", Text: "Arunachal Pradesh"},
	{Value: "assam", Text: "Assam"},
	{Value: "bihar", Text: "Bihar"},
	{Value: "chhattisgarh", Text: "Chhattisgarh"},
	{Value: "delhi", Text: "Delhi"},
	{Value: "goa", Text: "Goa"},
	{Value: "gujarat", Text: "Gujarat"},
	{Value: "haryana", Text: "Haryana"},
	{Value: "himachal_pradesh", Text: "Himachal Pradesh"},
	{Value: "jharkhand", Text: "Jharkhand"},
	{Value: "karnataka", Text: "Karnataka"},
	{Value: "kerala", Text: "Kerala"},
	{Value: "madhya_pradesh", Text: "Madhya Pradesh"},
	{Value: "maharashtra", Text: "Maharashtra"},
	{Value: "manipur", Text: "Manipur"},
	{Value: "meghalaya", Text: "Meghalaya"},
	{Value: "mizoram", Text: "Mizoram"},
	{Value: "nagaland", Text: "Nagaland"},
	{Value: "odisha", Text: "Odisha"},
	{Value: "punjab", Text: "Punjab"},
	{Value: "rajasthan", Text: "Rajasthan"},
	{Value: "sikkim", Text: "Sikkim"},
	{Value: "tamil_nadu", Text: "Tamil Nadu"},
	{Value: "telangana", Text: "Telangana"},
	{Value: "tripura", Text: "Tripura"},
	{Value: "uttar_pradesh", Text: "Uttar Pradesh"},
	{Value: "uttarakhand", Text: "Uttarakhand"},
	{Value: "west_bengal", Text: "West Bengal"},
}

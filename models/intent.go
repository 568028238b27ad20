package models

import (
	"regexp"
	"strings"
)

// Metadata keys used to carry cross-turn disambiguation state.
const (
	MetaNeedsYear  = "date_needs_year"
	MetaNeedsDay   = "date_needs_day"
	MetaDateMethod = "date_method"
)

var (
	emailShape = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneShape = regexp.MustCompile(`^\+\d{10,15}$`)
)

// IntentRecord is the structured booking document assembled over a
// conversation. Mutation goes exclusively through the dialogue engine via
// Apply; a validated non-empty field is never overwritten except through
// the explicit correction flow (force).
type IntentRecord struct {
	Service        string            `json:"service,omitempty" bson:"service,omitempty"`
	Package        string            `json:"package,omitempty" bson:"package,omitempty"`
	Name           string            `json:"name,omitempty" bson:"name,omitempty"`
	Email          string            `json:"email,omitempty" bson:"email,omitempty"`
	Phone          string            `json:"phone,omitempty" bson:"phone,omitempty"`
	PhoneCountry   string            `json:"phoneCountry,omitempty" bson:"phoneCountry,omitempty"`
	ServiceCountry string            `json:"serviceCountry,omitempty" bson:"serviceCountry,omitempty"`
	Address        string            `json:"address,omitempty" bson:"address,omitempty"`
	PostalCode     string            `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	EventDate      string            `json:"eventDate,omitempty" bson:"eventDate,omitempty"`
	// Message is the free-form message that opened the booking, carried
	// into the persisted record as-is.
	Message  string            `json:"message,omitempty" bson:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

func NewIntentRecord() *IntentRecord {
	return &IntentRecord{Metadata: map[string]string{}}
}

// RequiredFields is the fixed set a record needs for completion, in the
// order details are asked for.
func RequiredFields() []FieldKind {
	return []FieldKind{
		FieldService, FieldPackage, FieldName, FieldEmail, FieldPhone,
		FieldCountry, FieldDate, FieldAddress, FieldPostalCode,
	}
}

// FieldValue returns the stored value for a field kind. FieldCountry maps
// to the service country; the phone country is a side signal, not required.
func (r *IntentRecord) FieldValue(kind FieldKind) string {
	switch kind {
	case FieldService:
		return r.Service
	case FieldPackage:
		return r.Package
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldDate:
		return r.EventDate
	case FieldAddress:
		return r.Address
	case FieldPostalCode:
		return r.PostalCode
	case FieldCountry:
		return r.ServiceCountry
	}
	return ""
}

// Apply writes a field value. Without force it refuses to overwrite a
// non-empty field and reports whether the write happened.
func (r *IntentRecord) Apply(kind FieldKind, value string, force bool) bool {
	if value == "" {
		return false
	}
	if !force && r.FieldValue(kind) != "" {
		return false
	}
	switch kind {
	case FieldService:
		r.Service = value
	case FieldPackage:
		r.Package = value
	case FieldName:
		r.Name = value
	case FieldEmail:
		r.Email = value
	case FieldPhone:
		r.Phone = value
	case FieldDate:
		r.EventDate = value
	case FieldAddress:
		r.Address = value
	case FieldPostalCode:
		r.PostalCode = value
	case FieldCountry:
		r.ServiceCountry = value
	default:
		return false
	}
	return true
}

// Meta reads a metadata key, tolerating a nil map.
func (r *IntentRecord) Meta(key string) string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}

func (r *IntentRecord) SetMeta(key, value string) {
	if r.Metadata == nil {
		r.Metadata = map[string]string{}
	}
	r.Metadata[key] = value
}

func (r *IntentRecord) ClearMeta(key string) {
	delete(r.Metadata, key)
}

// IsComplete reports whether every required field is set and phone/email
// still pass shape validation. Phone and email are re-checked because a
// force-set value can regress; other fields cannot change shape once set.
func (r *IntentRecord) IsComplete() bool {
	for _, kind := range RequiredFields() {
		if r.FieldValue(kind) == "" {
			return false
		}
	}
	return phoneShape.MatchString(r.Phone) && emailShape.MatchString(strings.ToLower(r.Email))
}

// MissingFields lists required fields that are empty or, for phone/email,
// currently invalid, as human-readable labels in asking order.
func (r *IntentRecord) MissingFields() []string {
	labels := map[FieldKind]string{
		FieldService:    "service type",
		FieldPackage:    "package choice",
		FieldName:       "your name",
		FieldEmail:      "email address",
		FieldPhone:      "phone number with country code",
		FieldCountry:    "service country",
		FieldDate:       "preferred date",
		FieldAddress:    "service address",
		FieldPostalCode: "postal code",
	}
	var missing []string
	for _, kind := range RequiredFields() {
		v := r.FieldValue(kind)
		switch {
		case v == "":
			missing = append(missing, labels[kind])
		case kind == FieldPhone && !phoneShape.MatchString(v):
			missing = append(missing, labels[kind])
		case kind == FieldEmail && !emailShape.MatchString(strings.ToLower(v)):
			missing = append(missing, labels[kind])
		}
	}
	return missing
}

// Summary renders the collected fields for confirmation display, with the
// phone partially masked.
func (r *IntentRecord) Summary() map[string]string {
	out := map[string]string{}
	put := func(label, v string) {
		if v != "" {
			out[label] = v
		}
	}
	put("Service", r.Service)
	put("Package", r.Package)
	put("Name", r.Name)
	put("Email", r.Email)
	put("Phone", maskPhone(r.Phone))
	put("Country", r.ServiceCountry)
	put("Date", r.EventDate)
	put("Address", r.Address)
	put("Postal Code", r.PostalCode)
	return out
}

// Reset clears the record in place for an explicit restart.
func (r *IntentRecord) Reset() {
	*r = IntentRecord{Metadata: map[string]string{}}
}

func maskPhone(phone string) string {
	if len(phone) < 10 {
		return phone
	}
	return phone[:len(phone)-8] + "****" + phone[len(phone)-4:]
}

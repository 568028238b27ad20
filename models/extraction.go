package models

// FieldKind is the closed set of booking fields the extraction pipeline
// understands. Adding a field means extending this enum and every
// exhaustive switch over it, which the compiler will point out.
type FieldKind int

const (
	FieldService FieldKind = iota
	FieldPackage
	FieldName
	FieldEmail
	FieldPhone
	FieldDate
	FieldAddress
	FieldPostalCode
	FieldCountry
)

func (k FieldKind) String() string {
	switch k {
	case FieldService:
		return "service"
	case FieldPackage:
		return "package"
	case FieldName:
		return "name"
	case FieldEmail:
		return "email"
	case FieldPhone:
		return "phone"
	case FieldDate:
		return "date"
	case FieldAddress:
		return "address"
	case FieldPostalCode:
		return "postal_code"
	case FieldCountry:
		return "country"
	}
	return "unknown"
}

// Confidence ranks how sure an extractor is about a candidate value.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
	ConfidenceVeryHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	case ConfidenceVeryHigh:
		return "very_high"
	}
	return "unknown"
}

// ExtractionResult is the transient candidate value produced by one
// extractor strategy. It is consumed by the validator for that field and
// never persisted.
type ExtractionResult struct {
	Value      string
	Confidence Confidence
	Method     string
	Span       string

	// Country and DialCode are set by the phone and postal extractors when
	// the match itself carries a country signal.
	Country  string
	DialCode string

	// NeedsYear marks a day+month date missing its year; Value then holds
	// the next-occurrence assumption. NeedsDay marks a month+year date with
	// day assumed to be the 1st.
	NeedsYear bool
	NeedsDay  bool
}

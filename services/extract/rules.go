package extract

import (
	"time"

	"glowbook/models"
)

// Rules is the immutable configuration an Extractor is built with: country
// tables, gazetteers, linguistic keyword sets and the business defaults for
// ambiguous signals. Injected at construction so extractor instances are
// independently testable and safe for concurrent use.
type Rules struct {
	Countries models.CountryRules

	// DefaultPhoneCountry is the fallback for a bare local number with a
	// regionally-valid leading digit. PostalCountryByLength maps an
	// ambiguous postal length to a fallback country. Both are unconfirmed
	// business defaults and overridable from configuration.
	DefaultPhoneCountry   string
	PostalCountryByLength map[int]string

	Months       map[string]time.Month
	RelativeDays map[string]int
	Weekdays     map[string]time.Weekday

	// Email scoring and rejection tables.
	ProviderConfidence map[string]models.Confidence
	RejectedDomains    []string

	QuestionStarters []string
	AddressKeywords  []string
	SocialKeywords   []string
	NameStopwords    []string
	Titles           []string
}

// DefaultRules builds the standard rule set over the given country table.
func DefaultRules(countries models.CountryRules) Rules {
	return Rules{
		Countries:           countries,
		DefaultPhoneCountry: "India",
		PostalCountryByLength: map[int]string{
			6: "India",
			5: "Nepal",
			4: "Bangladesh",
		},
		Months: map[string]time.Month{
			"jan": time.January, "january": time.January,
			"feb": time.February, "february": time.February,
			"mar": time.March, "march": time.March,
			"apr": time.April, "april": time.April,
			"may": time.May,
			"jun": time.June, "june": time.June,
			"jul": time.July, "july": time.July,
			"aug": time.August, "august": time.August,
			"sep": time.September, "sept": time.September, "september": time.September,
			"oct": time.October, "october": time.October,
			"nov": time.November, "november": time.November,
			"dec": time.December, "december": time.December,
			// Devanagari month names (Hindi/Nepali).
			"जनवरी": time.January, "फरवरी": time.February, "मार्च": time.March,
			"अप्रैल": time.April, "मई": time.May, "जून": time.June,
			"जुलाई": time.July, "अगस्त": time.August, "सितंबर": time.September,
			"अक्टूबर": time.October, "नवंबर": time.November, "दिसंबर": time.December,
		},
		RelativeDays: map[string]int{
			"day after tomorrow": 2,
			"tomorrow":           1,
			"tmrw":               1,
			"tmr":                1,
			"today":              0,
			"tonight":            0,
			"next week":          7,
			"in a week":          7,
			// Hindi/Nepali relative words.
			"आज":    0,
			"कल":    1,
			"भोलि":  1,
			"परसों": 2,
			"पर्सि": 2,
		},
		Weekdays: map[string]time.Weekday{
			"monday": time.Monday, "mon": time.Monday,
			"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
			"wednesday": time.Wednesday, "wed": time.Wednesday,
			"thursday": time.Thursday, "thu": time.Thursday, "thurs": time.Thursday,
			"friday": time.Friday, "fri": time.Friday,
			"saturday": time.Saturday, "sat": time.Saturday,
			"sunday": time.Sunday, "sun": time.Sunday,
		},
		ProviderConfidence: map[string]models.Confidence{
			"gmail.com":      models.ConfidenceHigh,
			"yahoo.com":      models.ConfidenceHigh,
			"outlook.com":    models.ConfidenceHigh,
			"hotmail.com":    models.ConfidenceHigh,
			"icloud.com":     models.ConfidenceHigh,
			"protonmail.com": models.ConfidenceHigh,
			"live.com":       models.ConfidenceHigh,
			"rediffmail.com": models.ConfidenceHigh,
			"zoho.com":       models.ConfidenceMedium,
			"aol.com":        models.ConfidenceMedium,
			"gmx.com":        models.ConfidenceMedium,
			"fastmail.com":   models.ConfidenceMedium,
			"msn.com":        models.ConfidenceMedium,
			"ymail.com":      models.ConfidenceMedium,
		},
		RejectedDomains: []string{
			"localhost", "dummy.com", "fake.com", "mailinator.com",
			"tempmail.com", "guerrillamail.com", "10minutemail.com",
		},
		QuestionStarters: []string{
			"what", "which", "who", "whom", "whose", "when", "where", "why", "how",
			"can you", "could you", "would you", "will you", "can u", "could u",
			"do you", "does", "is there", "are there", "is it", "are you",
			"tell me", "show me", "give me", "explain", "describe", "list",
			"i want to know", "i would like to know", "help me understand",
		},
		AddressKeywords: []string{
			"street", "st.", "road", "rd.", "lane", "ln.", "avenue", "ave",
			"boulevard", "blvd", "drive", "house", "flat", "apartment", "apt",
			"building", "floor", "room", "suite", "unit", "block", "colony",
			"sector", "area", "locality", "village", "town", "city", "district",
			"near", "beside", "opposite", "behind", "plot", "ward", "chowk",
			"nagar", "marg", "gali", "layout", "phase", "enclave", "residency",
		},
		SocialKeywords: []string{
			"instagram", "facebook", "twitter", "youtube", "linkedin", "tiktok",
			"snapchat", "pinterest", "telegram", "whatsapp channel",
			"social media", "follow", "subscriber", "handle", "username",
		},
		NameStopwords: []string{
			"book", "booking", "service", "makeup", "bridal", "party",
			"engagement", "wedding", "henna", "mehendi", "package", "price",
			"cost", "date", "time", "location", "address", "email", "phone",
			"whatsapp", "number", "contact", "hello", "hi", "hey", "thanks",
			"please", "yes", "no", "want", "need", "today", "tomorrow",
			"already", "gave", "told", "provided",
		},
		Titles: []string{
			"mr", "mrs", "ms", "miss", "dr", "prof", "sir", "madam",
			"shri", "smt", "kumari", "sheikh", "pandit",
		},
	}
}

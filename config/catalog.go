package config

import "glowbook/models"

// DefaultCatalog returns the service catalog the agent books against.
// Services and prices come from the studio's published rate card; the
// catalog is injected into the engine at construction and never mutated.
func DefaultCatalog() models.ServiceCatalog {
	return models.ServiceCatalog{Services: []models.Service{
		{
			Name:        "Bridal Makeup Services",
			Description: "Premium bridal makeup customized for weddings",
			Keywords:    []string{"bridal", "bride", "wedding", "marriage", "shaadi", "dulhan"},
			Packages: []models.Package{
				{Name: "Signature Bridal Makeup", Price: "₹99,999"},
				{Name: "Luxury Bridal Makeup (HD / Brush)", Price: "₹79,999"},
				{Name: "Reception / Engagement / Cocktail Makeup", Price: "₹59,999"},
			},
		},
		{
			Name:        "Party Makeup Services",
			Description: "Makeup for parties, receptions, and special occasions",
			Keywords:    []string{"party", "function", "celebration", "occasion"},
			Packages: []models.Package{
				{Name: "Party Makeup by Lead Artist", Price: "₹19,999"},
				{Name: "Party Makeup by Senior Artist", Price: "₹6,999"},
			},
		},
		{
			Name:        "Engagement & Pre-Wedding Makeup",
			Description: "Makeup for engagement and pre-wedding functions",
			Keywords:    []string{"engagement", "pre-wedding", "pre wedding", "sangeet", "cocktail", "ring ceremony"},
			Packages: []models.Package{
				{Name: "Engagement Makeup by Lead Artist", Price: "₹59,999"},
				{Name: "Pre-Wedding Makeup by Senior Artist", Price: "₹19,999"},
			},
		},
		{
			Name:        "Henna (Mehendi) Services",
			Description: "Henna services for bridal and special occasions",
			Keywords:    []string{"henna", "mehendi", "mehndi", "mehandi", "mendhi"},
			Packages: []models.Package{
				{Name: "Henna by Lead Artist", Price: "₹49,999"},
				{Name: "Henna by Senior Artist", Price: "₹19,999"},
			},
		},
	}}
}

// DefaultCountryRules returns the supported-market rule table: dial codes,
// local number shapes, postal lengths and the gazetteers used for country
// inference. Declaration order breaks gazetteer score ties.
func DefaultCountryRules() models.CountryRules {
	return models.CountryRules{
		{
			Name:          "India",
			DialCode:      "91",
			LocalLengths:  []int{10},
			LeadingDigits: []string{"6", "7", "8", "9"},
			PostalLength:  6,
			Keywords:      []string{"india", "indian", "hindustan", "भारत"},
			Cities: []string{
				"mumbai", "delhi", "bangalore", "bengaluru", "hyderabad", "ahmedabad",
				"chennai", "kolkata", "surat", "pune", "jaipur", "lucknow", "kanpur",
				"nagpur", "indore", "thane", "bhopal", "patna", "vadodara", "ghaziabad",
				"ludhiana", "agra", "nashik", "faridabad", "meerut", "rajkot", "varanasi",
				"srinagar", "aurangabad", "amritsar", "navi mumbai", "prayagraj",
				"ranchi", "coimbatore", "gwalior", "jodhpur", "madurai", "raipur",
				"kota", "chandigarh", "guwahati", "mysore",
			},
			Regions: []string{
				"maharashtra", "karnataka", "tamil nadu", "uttar pradesh", "gujarat",
				"rajasthan", "haryana", "kerala", "bihar", "west bengal",
				"madhya pradesh", "andhra pradesh", "telangana", "odisha", "jharkhand",
				"chhattisgarh", "assam", "uttarakhand", "himachal pradesh", "goa",
			},
		},
		{
			Name:          "Nepal",
			DialCode:      "977",
			LocalLengths:  []int{9, 10},
			LeadingDigits: []string{"9"},
			PostalLength:  5,
			Keywords:      []string{"nepal", "nepali", "nepalese", "नेपाल"},
			Cities: []string{
				"kathmandu", "pokhara", "lalitpur", "patan", "bhaktapur", "biratnagar",
				"birgunj", "dharan", "bharatpur", "hetauda", "janakpur", "butwal",
				"dhangadhi", "nepalgunj", "itahari", "jhapa",
			},
			Regions: []string{"bagmati", "gandaki", "lumbini", "karnali", "sudurpashchim", "madhesh", "koshi"},
		},
		{
			Name:          "Pakistan",
			DialCode:      "92",
			LocalLengths:  []int{10},
			LeadingDigits: []string{"3"},
			PostalLength:  5,
			Keywords:      []string{"pakistan", "pakistani"},
			Cities: []string{
				"karachi", "lahore", "islamabad", "rawalpindi", "faisalabad", "multan",
				"peshawar", "quetta", "sialkot", "gujranwala", "bahawalpur", "sargodha",
				"sukkur", "larkana", "mardan", "sahiwal", "gilgit",
			},
			Regions: []string{"punjab", "sindh", "khyber pakhtunkhwa", "balochistan", "gilgit-baltistan", "azad kashmir"},
		},
		{
			Name:          "Bangladesh",
			DialCode:      "880",
			LocalLengths:  []int{10},
			LeadingDigits: []string{"1"},
			PostalLength:  4,
			Keywords:      []string{"bangladesh", "bangladeshi"},
			Cities: []string{
				"dhaka", "chittagong", "khulna", "rajshahi", "sylhet", "barisal",
				"rangpur", "comilla", "gazipur", "narayanganj", "mymensingh",
				"cox's bazar", "bogra", "jessore", "dinajpur",
			},
			Regions: []string{
				"dhaka division", "chittagong division", "khulna division",
				"rajshahi division", "sylhet division", "barisal division",
			},
		},
		{
			Name:          "UAE",
			DialCode:      "971",
			LocalLengths:  []int{9},
			LeadingDigits: []string{"5"},
			PostalLength:  5,
			Keywords:      []string{"uae", "dubai", "united arab emirates", "emirates"},
			Cities: []string{
				"dubai", "abu dhabi", "sharjah", "ajman", "fujairah", "ras al khaimah",
				"umm al quwain", "al ain", "jebel ali", "deira", "bur dubai", "jumeirah",
			},
			Regions: []string{"dubai", "abu dhabi", "sharjah", "ajman", "fujairah", "ras al khaimah"},
		},
	}
}

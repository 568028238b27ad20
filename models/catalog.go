package models

import "strings"

// Package is a bookable offering within a service, with a display price.
type Package struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Service groups packages under a named service line.
type Service struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Keywords    []string  `json:"keywords"`
	Packages    []Package `json:"packages"`
}

// PackageNames returns package names in catalog order.
func (s Service) PackageNames() []string {
	names := make([]string, 0, len(s.Packages))
	for _, p := range s.Packages {
		names = append(names, p.Name)
	}
	return names
}

// ServiceCatalog is static reference data injected at construction time.
// It is read-only; selection resolution and membership checks go through it.
type ServiceCatalog struct {
	Services []Service `json:"services"`
}

func (c ServiceCatalog) ServiceNames() []string {
	names := make([]string, 0, len(c.Services))
	for _, s := range c.Services {
		names = append(names, s.Name)
	}
	return names
}

// Find looks a service up by exact name.
func (c ServiceCatalog) Find(name string) (Service, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// MatchKeyword resolves free text to a service via its keyword list.
func (c ServiceCatalog) MatchKeyword(text string) (Service, bool) {
	lower := strings.ToLower(text)
	for _, s := range c.Services {
		for _, kw := range s.Keywords {
			if strings.Contains(lower, kw) {
				return s, true
			}
		}
	}
	return Service{}, false
}

// CountryRule is the per-country validation and inference table: dial code,
// acceptable local number shapes, postal code length and the gazetteer used
// for country scoring. Declaration order in CountryRules breaks score ties.
type CountryRule struct {
	Name          string
	DialCode      string
	LocalLengths  []int
	LeadingDigits []string
	PostalLength  int
	Keywords      []string
	Cities        []string
	Regions       []string
}

// LocalNumberOK checks a bare local number against the rule's length and
// leading-digit constraints. An empty LeadingDigits set accepts any lead.
func (r CountryRule) LocalNumberOK(local string) bool {
	lengthOK := false
	for _, n := range r.LocalLengths {
		if len(local) == n {
			lengthOK = true
			break
		}
	}
	if !lengthOK || local == "" {
		return false
	}
	if len(r.LeadingDigits) == 0 {
		return true
	}
	for _, d := range r.LeadingDigits {
		if strings.HasPrefix(local, d) {
			return true
		}
	}
	return false
}

// CountryRules is an ordered rule set; order encodes tie-break precedence.
type CountryRules []CountryRule

func (rs CountryRules) ByName(name string) (CountryRule, bool) {
	for _, r := range rs {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return CountryRule{}, false
}

// ByDialCode matches the longest dial code prefixing digits (no leading +).
func (rs CountryRules) ByDialCode(digits string) (CountryRule, bool) {
	best := CountryRule{}
	found := false
	for _, r := range rs {
		if strings.HasPrefix(digits, r.DialCode) {
			if !found || len(r.DialCode) > len(best.DialCode) {
				best = r
				found = true
			}
		}
	}
	return best, found
}

// ByPostalLength returns the first rule with the given postal length,
// honoring declaration order.
func (rs CountryRules) ByPostalLength(n int) (CountryRule, bool) {
	for _, r := range rs {
		if r.PostalLength == n {
			return r, true
		}
	}
	return CountryRule{}, false
}

package domain

import (
	"sort"
	"strings"
)

// IssueCategory is one of the fixed feedback tags.
type IssueCategory string

const (
	LateDelivery        IssueCategory = "Late delivery"
	WrongItem           IssueCategory = "Wrong item"
	Overpriced          IssueCategory = "Overpriced"
	FakeOrCounterfeit   IssueCategory = "Fake or counterfeit"
	DamagedProduct      IssueCategory = "Damaged product"
	MissingParts        IssueCategory = "Missing parts"
	PoorCustomerService IssueCategory = "Poor customer service"

	DamagedProductSevere IssueCategory = "Damaged product (severe)"

	GoodExperience        IssueCategory = "Good experience"
	FastDelivery          IssueCategory = "Fast delivery"
	WellPackaged          IssueCategory = "Well packaged"
	AccurateDescription   IssueCategory = "Accurate description"
	GreatValue            IssueCategory = "Great value"
	ResponsiveSeller      IssueCategory = "Responsive seller"
	HighQuality           IssueCategory = "High quality"
	MisleadingDescription IssueCategory = "Misleading description"
	FaultyFunctionality   IssueCategory = "Faulty functionality"
	GoodProduct           IssueCategory = "Good product"
	HelpfulSeller         IssueCategory = "Helpful seller"
	IssueResolved         IssueCategory = "Issue resolved"
	TrustworthySeller     IssueCategory = "Trustworthy seller"
	GreatCommunication    IssueCategory = "Great communication"
)

// Categories lists the 21 labels offered to the fallback classifier, in the
// order the keyword rules are evaluated. The severity variant is not a label.
var Categories = []IssueCategory{
	LateDelivery, WrongItem, Overpriced, FakeOrCounterfeit,
	DamagedProduct, MissingParts, PoorCustomerService,
	GoodExperience, FastDelivery, WellPackaged, AccurateDescription,
	GreatValue, ResponsiveSeller, HighQuality, MisleadingDescription,
	FaultyFunctionality, GoodProduct, HelpfulSeller, IssueResolved,
	TrustworthySeller, GreatCommunication,
}

var hardNegative = map[IssueCategory]bool{
	FakeOrCounterfeit:     true,
	FaultyFunctionality:   true,
	MissingParts:          true,
	WrongItem:             true,
	MisleadingDescription: true,
	DamagedProductSevere:  true,
}

var positiveLeaning = map[IssueCategory]bool{
	GoodExperience:      true,
	FastDelivery:        true,
	WellPackaged:        true,
	AccurateDescription: true,
	GreatValue:          true,
	ResponsiveSeller:    true,
	HighQuality:         true,
	GoodProduct:         true,
	HelpfulSeller:       true,
	IssueResolved:       true,
	TrustworthySeller:   true,
	GreatCommunication:  true,
}

// IsHardNegative reports whether the category forces a NEGATIVE verdict
// unless a stronger positive signal applies first.
func (c IssueCategory) IsHardNegative() bool { return hardNegative[c] }

func (c IssueCategory) IsPositive() bool { return positiveLeaning[c] }

// IsKnownCategory accepts any of the 21 labels plus the severity variant.
func IsKnownCategory(name string) bool {
	c := IssueCategory(strings.TrimSpace(name))
	if c == DamagedProductSevere {
		return true
	}
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// IssueSet is an unordered set of categories attached to one record.
type IssueSet map[IssueCategory]struct{}

func NewIssueSet(cats ...IssueCategory) IssueSet {
	s := make(IssueSet, len(cats))
	for _, c := range cats {
		s.Add(c)
	}
	return s
}

func (s IssueSet) Add(c IssueCategory) { s[c] = struct{}{} }

func (s IssueSet) Remove(c IssueCategory) { delete(s, c) }

func (s IssueSet) Has(c IssueCategory) bool {
	_, ok := s[c]
	return ok
}

func (s IssueSet) Len() int { return len(s) }

func (s IssueSet) Union(other IssueSet) {
	for c := range other {
		s.Add(c)
	}
}

func (s IssueSet) Clone() IssueSet {
	out := make(IssueSet, len(s))
	out.Union(s)
	return out
}

// Sorted returns the categories in lexical order for deterministic export.
func (s IssueSet) Sorted() []IssueCategory {
	out := make([]IssueCategory, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s IssueSet) Equal(other IssueSet) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// HasHardNegative reports whether any member is a hard-negative issue.
func (s IssueSet) HasHardNegative() bool {
	for c := range s {
		if c.IsHardNegative() {
			return true
		}
	}
	return false
}

func (s IssueSet) HasPositive() bool {
	for c := range s {
		if c.IsPositive() {
			return true
		}
	}
	return false
}

// Join renders the set the way the export table expects: sorted, comma-joined.
func (s IssueSet) Join() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

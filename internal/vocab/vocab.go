// Package vocab holds the keyword tables the classifier runs on. A Vocabulary is
// built once at startup and never mutated; every accessor returns a copy.
package vocab

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"gopkg.in/yaml.v3"
)

type Vocabulary struct {
	keywords          map[domain.IssueCategory][]string
	severeModifiers   []string
	minorModifiers    []string
	alwaysSevere      []string
	positivePhrases   []string
	negationTriggers  []string
	misleadingMarkers []string
	stoplist          []string
}

// File is the YAML shape of a vocabulary override. Empty fields keep the defaults.
type File struct {
	Keywords          map[string][]string `yaml:"keywords"`
	SevereModifiers   []string            `yaml:"severe_modifiers"`
	MinorModifiers    []string            `yaml:"minor_modifiers"`
	AlwaysSevere      []string            `yaml:"always_severe"`
	PositivePhrases   []string            `yaml:"positive_phrases"`
	NegationTriggers  []string            `yaml:"negation_triggers"`
	MisleadingMarkers []string            `yaml:"misleading_markers"`
	Stoplist          []string            `yaml:"stoplist"`
}

// Keywords returns the keyword list for a category.
func (v *Vocabulary) Keywords(c domain.IssueCategory) []string {
	return slices.Clone(v.keywords[c])
}

func (v *Vocabulary) SevereModifiers() []string   { return slices.Clone(v.severeModifiers) }
func (v *Vocabulary) MinorModifiers() []string    { return slices.Clone(v.minorModifiers) }
func (v *Vocabulary) AlwaysSevere() []string      { return slices.Clone(v.alwaysSevere) }
func (v *Vocabulary) PositivePhrases() []string   { return slices.Clone(v.positivePhrases) }
func (v *Vocabulary) NegationTriggers() []string  { return slices.Clone(v.negationTriggers) }
func (v *Vocabulary) MisleadingMarkers() []string { return slices.Clone(v.misleadingMarkers) }
func (v *Vocabulary) Stoplist() []string          { return slices.Clone(v.stoplist) }

// Load reads a YAML override file on top of Default. An empty path returns Default.
func Load(path string) (*Vocabulary, error) {
	v := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return v, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vocabulary yaml: %w", err)
	}
	if err := v.apply(f); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vocabulary) apply(f File) error {
	for name, kws := range f.Keywords {
		if !domain.IsKnownCategory(name) {
			return fmt.Errorf("vocabulary: unknown category %q", name)
		}
		c := domain.IssueCategory(strings.TrimSpace(name))
		if c == domain.DamagedProductSevere {
			return fmt.Errorf("vocabulary: %q is derived from %q keywords and cannot be set", c, domain.DamagedProduct)
		}
		if cleaned := cleanList(kws); len(cleaned) > 0 {
			v.keywords[c] = cleaned
		}
	}
	overlay(&v.severeModifiers, f.SevereModifiers)
	overlay(&v.minorModifiers, f.MinorModifiers)
	overlay(&v.alwaysSevere, f.AlwaysSevere)
	overlay(&v.positivePhrases, f.PositivePhrases)
	overlay(&v.negationTriggers, f.NegationTriggers)
	overlay(&v.misleadingMarkers, f.MisleadingMarkers)
	overlay(&v.stoplist, f.Stoplist)
	return nil
}

func overlay(dst *[]string, src []string) {
	if cleaned := cleanList(src); len(cleaned) > 0 {
		*dst = cleaned
	}
}

// cleanList lower-cases and trims entries; matching always runs on lower-cased text.
func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

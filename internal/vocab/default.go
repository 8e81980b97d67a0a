package vocab

import "github.com/FlipSniper/ebay-review-whisperer/internal/domain"

// Default returns the built-in vocabulary tuned on marketplace seller feedback.
func Default() *Vocabulary {
	return &Vocabulary{
		keywords: map[domain.IssueCategory][]string{
			domain.LateDelivery:        {"late delivery", "arrived late", "delayed", "slow shipping", "shipping delay", "later than scheduled"},
			domain.WrongItem:           {"wrong item", "incorrect item", "not what i ordered", "different item", "description doesn’t match", "description doesn't match"},
			domain.Overpriced:          {"overpriced", "too expensive", "pricey", "cost too much", "high price"},
			domain.FakeOrCounterfeit:   {"fake", "counterfeit", "not genuine", "knockoff", "imitation"},
			domain.DamagedProduct:      {"damaged", "broken", "defective", "faulty", "scratches", "scratched", "scuff", "scuffed", "crack", "cracked", "shattered", "chips", "chipped", "knicks", "nicks"},
			domain.MissingParts:        {"missing parts", "incomplete", "parts not included", "missing sim tray", "no sim tray"},
			domain.PoorCustomerService: {"poor service", "bad support", "unhelpful", "rude seller", "no response", "slow response"},

			domain.GoodExperience:        {"good experience", "happy", "satisfied", "recommend", "perfect", "awesome", "wonderful"},
			domain.FastDelivery:          {"fast delivery", "quick shipping", "arrived quickly", "super quick", "came quickly"},
			domain.WellPackaged:          {"well packaged", "secure packaging", "nicely packed", "good packaging"},
			domain.AccurateDescription:   {"accurate description", "as described", "matched listing", "true to description"},
			domain.GreatValue:            {"great value", "good value", "worth the money", "good deal", "reasonable price"},
			domain.ResponsiveSeller:      {"responsive seller", "quick reply", "helpful seller", "good communication", "kept me informed", "very fast response", "understanding"},
			domain.HighQuality:           {"high quality", "premium", "well made", "quality perfect"},
			domain.MisleadingDescription: {"misleading", "not as described", "description not accurate", "listed wrong"},
			domain.FaultyFunctionality:   {"doesn't work", "not working", "faulty functionality", "esim was broken", "won't turn on", "won’t turn on"},
			domain.GoodProduct:           {"great condition", "looks like new", "like new", "looks new", "very clean"},
			domain.HelpfulSeller:         {"helpful", "responsive", "understanding"},
			domain.IssueResolved:         {"resolved the issue", "gave refund", "took care of it", "refund issued"},
			domain.TrustworthySeller:     {"trustworthy", "reliable", "very trustworthy"},
			domain.GreatCommunication:    {"kept me informed", "great communication", "good communication"},
		},
		severeModifiers: []string{"excessive", "large", "deep", "pronounced", "many", "a lot", "tons", "way more", "significant", "big", "heavy"},
		minorModifiers:  []string{"tiny", "small", "minor", "light", "hairline", "couple", "few", "not visible", "barely visible", "only"},
		alwaysSevere:    []string{"crack", "cracked", "shatter", "shattered", "chip", "chipped"},
		positivePhrases: []string{
			"great", "excellent", "happy", "recommend", "fast shipping", "good price", "love",
			"satisfied", "perfect", "awesome", "wonderful", "smooth transaction", "very good",
			"looks new", "like new", "no scratches", "no scratch", "no cracks", "no crack",
		},
		negationTriggers:  []string{"no", "not", "never", "without"},
		misleadingMarkers: []string{"misleading", "not as described", "description not accurate", "description isn't accurate"},
		stoplist:          []string{"ok", "fine", "good", "meh", "nice", "cool"},
	}
}

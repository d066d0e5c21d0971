package entities

// Category identifies a grammatical category of the vocabulary catalog.
// ReviewState carries a denormalized copy so pools can be filtered without
// resolving every word.
type Category string

const (
	CategoryNoun          Category = "nouns"
	CategoryVerb          Category = "verbs"
	CategoryModalVerb     Category = "modalVerbs"
	CategoryIrregularVerb Category = "irregularVerbs"
	CategorySeparableVerb Category = "separableVerbs"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNoun, CategoryVerb, CategoryModalVerb, CategoryIrregularVerb, CategorySeparableVerb:
		return true
	}
	return false
}

// IsVerb reports whether the category holds conjugatable verbs.
func (c Category) IsVerb() bool {
	switch c {
	case CategoryVerb, CategoryModalVerb, CategoryIrregularVerb, CategorySeparableVerb:
		return true
	}
	return false
}

// Proficiency levels used by the catalog.
const (
	LevelA1 = "A1"
	LevelA2 = "A2"
)

// Word is a single lexical item of the catalog. The catalog is loaded once at
// startup and never mutated; Word values are shared read-only.
//
// Category-specific fields are populated depending on Category: nouns carry
// Noun/Article/Plural, all verb categories carry Infinitive/Conjugation,
// irregular verbs additionally carry PartizipII/PerfectAux, separable verbs
// carry Prefix/Base.
type Word struct {
	ID       string   `json:"id"`
	Category Category `json:"-"` // derived from the catalog section, not the record
	Level    string   `json:"level"`

	English          string   `json:"english"`
	AcceptedMeanings []string `json:"acceptedMeanings,omitempty"`
	Details          string   `json:"details,omitempty"`

	// Nouns.
	Noun    string `json:"word,omitempty"`
	Article string `json:"article,omitempty"`
	Plural  string `json:"plural,omitempty"`

	// Verbs.
	Infinitive  string            `json:"infinitive,omitempty"`
	Conjugation map[string]string `json:"conjugation,omitempty"`
	VerbType    string            `json:"type,omitempty"` // "regular" or "irregular", plain verbs only

	// Irregular verbs.
	PartizipII string `json:"partizipII,omitempty"`
	PerfectAux string `json:"perfectAux,omitempty"` // "haben" or "sein"

	// Separable verbs.
	Prefix string `json:"prefix,omitempty"`
	Base   string `json:"base,omitempty"`
}

// Headword returns the display form of the word: the infinitive for verbs,
// the singular for nouns.
func (w *Word) Headword() string {
	if w.Infinitive != "" {
		return w.Infinitive
	}
	return w.Noun
}

// ExpectedVerbType returns the regular/irregular classification asked by the
// verb-type question. Items in the irregular category are always irregular;
// plain verbs default to irregular when untagged.
func (w *Word) ExpectedVerbType() string {
	if w.Category == CategoryIrregularVerb {
		return "irregular"
	}
	if w.VerbType != "" {
		return w.VerbType
	}
	return "irregular"
}

// Glosses returns the accepted free-text translations for meaning questions,
// falling back to the single English gloss.
func (w *Word) Glosses() []string {
	if len(w.AcceptedMeanings) > 0 {
		return w.AcceptedMeanings
	}
	return []string{w.English}
}

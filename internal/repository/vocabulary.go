package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
)

var (
	ErrWordNotFound  = errors.New("word not found")
	ErrEmptyCatalog  = errors.New("vocabulary catalog is empty")
	ErrDuplicateWord = errors.New("duplicate word id in catalog")
)

// VocabularyRepository provides read-only access to the vocabulary catalog.
// The catalog is loaded from a JSON file once at startup and never mutated.
type VocabularyRepository struct {
	words []*entities.Word
	byID  map[string]*entities.Word
}

// catalogFile mirrors the on-disk layout: one ordered list per category.
type catalogFile struct {
	Nouns          []*entities.Word `json:"nouns"`
	Verbs          []*entities.Word `json:"verbs"`
	ModalVerbs     []*entities.Word `json:"modalVerbs"`
	IrregularVerbs []*entities.Word `json:"irregularVerbs"`
	SeparableVerbs []*entities.Word `json:"separableVerbs"`
}

// NewVocabularyRepository loads and validates the catalog at path.
func NewVocabularyRepository(path string) (*VocabularyRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal vocabulary JSON: %w", err)
	}

	sections := []struct {
		category entities.Category
		items    []*entities.Word
	}{
		{entities.CategoryNoun, file.Nouns},
		{entities.CategoryVerb, file.Verbs},
		{entities.CategoryModalVerb, file.ModalVerbs},
		{entities.CategoryIrregularVerb, file.IrregularVerbs},
		{entities.CategorySeparableVerb, file.SeparableVerbs},
	}

	repo := &VocabularyRepository{
		byID: make(map[string]*entities.Word),
	}

	for _, section := range sections {
		for _, w := range section.items {
			w.Category = section.category
			if err := validateWord(w); err != nil {
				return nil, fmt.Errorf("word %q: %w", w.ID, err)
			}
			if _, exists := repo.byID[w.ID]; exists {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateWord, w.ID)
			}
			repo.byID[w.ID] = w
			repo.words = append(repo.words, w)
		}
	}

	if len(repo.words) == 0 {
		return nil, ErrEmptyCatalog
	}

	return repo, nil
}

// GetByID retrieves a word by its identifier. Unknown ids return
// ErrWordNotFound; callers treat orphaned review state as skippable.
func (r *VocabularyRepository) GetByID(id string) (*entities.Word, error) {
	w, ok := r.byID[id]
	if !ok {
		return nil, ErrWordNotFound
	}
	return w, nil
}

// All returns every word in catalog order.
func (r *VocabularyRepository) All() []*entities.Word {
	return r.words
}

// ByLevelAndDomain returns the words of one category at one level, in catalog
// order. An empty level matches all levels.
func (r *VocabularyRepository) ByLevelAndDomain(level string, c entities.Category) []*entities.Word {
	var out []*entities.Word
	for _, w := range r.words {
		if w.Category != c {
			continue
		}
		if level != "" && w.Level != level {
			continue
		}
		out = append(out, w)
	}
	return out
}

func validateWord(w *entities.Word) error {
	if w.ID == "" {
		return errors.New("missing id")
	}
	if w.Level == "" {
		return errors.New("missing level")
	}
	if w.English == "" {
		return errors.New("missing english gloss")
	}

	if !w.Category.Valid() {
		return fmt.Errorf("unknown category %q", w.Category)
	}

	if w.Category.IsVerb() {
		if w.Infinitive == "" || len(w.Conjugation) == 0 {
			return errors.New("verb requires infinitive and conjugation")
		}
	}

	switch w.Category {
	case entities.CategoryNoun:
		if w.Noun == "" || w.Article == "" || w.Plural == "" {
			return errors.New("noun requires word, article and plural")
		}
	case entities.CategoryIrregularVerb:
		if w.PartizipII == "" || w.PerfectAux == "" {
			return errors.New("irregular verb requires partizipII and perfectAux")
		}
	case entities.CategorySeparableVerb:
		if w.Prefix == "" {
			return errors.New("separable verb requires prefix")
		}
	}

	return nil
}

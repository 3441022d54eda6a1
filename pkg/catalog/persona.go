package catalog

// Gender values as recorded on personas and catalog items.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderUnisex = "unisex"
)

// Persona is a fixed user archetype: a gender plus an ordered list of
// style-mood keywords that seed the style-channel query. Some personas
// exclude whole style tags outright (e.g. office personas never get street
// wear), which the retriever enforces before any other filter.
type Persona struct {
	ID             string   `json:"id"`
	Gender         string   `json:"gender"`
	Moods          []string `json:"moods"`
	ExcludedStyles []string `json:"excluded_styles,omitempty"`
}

var personas = map[string]Persona{
	"pme": {
		ID:             "pme",
		Gender:         GenderMale,
		Moods:          []string{"casual", "neat", "preppy", "boyfriend-look"},
		ExcludedStyles: []string{"street"},
	},
	"nowon": {
		ID:     "nowon",
		Gender: GenderMale,
		Moods:  []string{"minimal", "casual"},
	},
	"ob": {
		ID:     "ob",
		Gender: GenderMale,
		Moods:  []string{"street", "workwear"},
	},
	"moyeon": {
		ID:     "moyeon",
		Gender: GenderFemale,
		Moods:  []string{"street"},
	},
	"seoksa": {
		ID:     "seoksa",
		Gender: GenderFemale,
		Moods:  []string{"casual", "comfortable"},
	},
	"promie": {
		ID:             "promie",
		Gender:         GenderFemale,
		Moods:          []string{"feminine", "chic", "neat"},
		ExcludedStyles: []string{"street"},
	},
}

// LookupPersona resolves a persona id (case-sensitive, lowercase by
// convention). The second return reports whether the id is known.
func LookupPersona(id string) (Persona, bool) {
	p, ok := personas[id]
	return p, ok
}

// PersonaIDs returns the known persona ids, useful for error messages.
func PersonaIDs() []string {
	ids := make([]string, 0, len(personas))
	for id := range personas {
		ids = append(ids, id)
	}
	return ids
}

// Excludes reports whether the persona bans the given style tag outright.
func (p Persona) Excludes(style string) bool {
	for _, s := range p.ExcludedStyles {
		if s == style {
			return true
		}
	}
	return false
}

package models

// ClauseContext is the structured input of the clause builder. It is
// assembled by the caller and never modified while a clause is built.
type ClauseContext struct {
	Parties          []Party `yaml:"parties"`
	ActNumber        string  `yaml:"act_number"`
	ActNumberSpelled string  `yaml:"act_number_spelled,omitempty"`
	Volume           string  `yaml:"volume"`
	Folio            string  `yaml:"folio"`
	FormNumber       string  `yaml:"form_number"`
	RegistrationTag  string  `yaml:"registration_tag"`
	Date             string  `yaml:"date"` // YYYY-MM-DD, DD/MM/YYYY or partial while drafting

	// Plural forces plural forms even for a single party. It wins over the
	// count of parties.
	Plural bool `yaml:"plural,omitempty"`

	// Office boilerplate; empty fields are taken from the office profile
	Office Office `yaml:"office,omitempty"`
}

// Office holds the notary office boilerplate used by the clause skeletons
type Office struct {
	City         string `yaml:"city,omitempty"`
	Jurisdiction string `yaml:"jurisdiction,omitempty"`
	Notary       string `yaml:"notary,omitempty"`
	NotaryTitle  string `yaml:"notary_title,omitempty"`
	Registry     string `yaml:"registry,omitempty"`
}

// Merge returns o with empty fields filled from fallback
func (o Office) Merge(fallback Office) Office {
	pick := func(v, alt string) string {
		if v != "" {
			return v
		}
		return alt
	}
	return Office{
		City:         pick(o.City, fallback.City),
		Jurisdiction: pick(o.Jurisdiction, fallback.Jurisdiction),
		Notary:       pick(o.Notary, fallback.Notary),
		NotaryTitle:  pick(o.NotaryTitle, fallback.NotaryTitle),
		Registry:     pick(o.Registry, fallback.Registry),
	}
}

// CaseFile is one document in progress: the clause context plus the values
// typed for the template variables
type CaseFile struct {
	ID       string            `yaml:"id"`
	Template string            `yaml:"template,omitempty"`
	Clause   ClauseContext     `yaml:"clause"`
	Values   map[string]string `yaml:"values,omitempty"`

	FilePath string `yaml:"-"`
}

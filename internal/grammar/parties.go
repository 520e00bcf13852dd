package grammar

import (
	"strings"

	"github.com/dpshade/scrib-digital/internal/errors"
	"github.com/dpshade/scrib-digital/internal/models"
)

// EmphasisFunc marks a party name as emphasized
type EmphasisFunc func(string) string

// MarkdownBold emphasizes with **bold** markdown
func MarkdownBold(s string) string {
	if s == "" {
		return s
	}
	return "**" + s + "**"
}

// PlainText leaves names unchanged
func PlainText(s string) string {
	return s
}

// ComposeOptions tune party enumeration
type ComposeOptions struct {
	// ForcePlural selects plural forms regardless of the number of parties
	ForcePlural bool
	// Emphasis wraps each party name; nil means MarkdownBold
	Emphasis EmphasisFunc
}

// Composition is the prose generated for a list of parties
type Composition struct {
	Enumeration string
	Roles       string
	Plural      bool
	Gender      models.Gender // collective gender of the group
	Count       int
}

// Number returns the grammatical number the surrounding clause must use
func (c Composition) Number() Number {
	return NumberFor(c.Plural)
}

// Word inflects key for the whole group of parties
func (c Composition) Word(key string) string {
	return InflectNumber(key, c.Gender, c.Number())
}

// IsPlural decides the grammatical number for a clause. An explicit override
// wins over the count of parties.
func IsPlural(count int, forcePlural bool) bool {
	return forcePlural || count > 1
}

// ComposeParties builds the enumeration and roles fragments for parties, in
// order. It returns an error only when parties is empty.
func ComposeParties(parties []models.Party, opts ComposeOptions) (Composition, error) {
	if len(parties) == 0 {
		return Composition{}, errors.NoPartiesError()
	}

	emphasis := opts.Emphasis
	if emphasis == nil {
		emphasis = MarkdownBold
	}

	descriptions := make([]string, len(parties))
	roles := make([]string, len(parties))
	for i, p := range parties {
		descriptions[i] = DescribeParty(p, emphasis)
		roles[i] = strings.TrimSpace(p.Role)
	}

	return Composition{
		Enumeration: JoinList(descriptions),
		Roles:       JoinList(roles),
		Plural:      IsPlural(len(parties), opts.ForcePlural),
		Gender:      CollectiveGender(parties),
		Count:       len(parties),
	}, nil
}

// DescribeParty renders the personal data of one party as a single phrase
func DescribeParty(p models.Party, emphasis EmphasisFunc) string {
	if emphasis == nil {
		emphasis = MarkdownBold
	}

	var b strings.Builder
	b.WriteString(emphasis(strings.TrimSpace(p.Name)))
	b.WriteString(", ")
	b.WriteString(p.Document())
	b.WriteString(" N° ")
	b.WriteString(p.IDNumber)
	b.WriteString(", ")
	b.WriteString(Inflect("nacido", p.Gender))
	b.WriteString(" el ")
	b.WriteString(ShortDate(p.BirthDate))
	b.WriteString(", ")
	b.WriteString(p.CivilStatus)
	b.WriteString(", ")
	b.WriteString(Inflect("domiciliado", p.Gender))
	b.WriteString(" en ")
	b.WriteString(p.Address)
	b.WriteString(", ")
	b.WriteString(p.Locality)
	b.WriteString(", departamento ")
	b.WriteString(p.Department)
	b.WriteString(", provincia de ")
	b.WriteString(p.Province)
	b.WriteString(", de nacionalidad ")
	b.WriteString(p.Nationality)
	return b.String()
}

// JoinList joins items as Spanish prose: "A", "A y B", "A, B y C"
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " y " + items[len(items)-1]
}

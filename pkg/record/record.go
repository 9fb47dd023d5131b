package record

import (
	"slices"
	"strings"
)

// Gender is the recorded sex of a person.
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// Person is a genealogical individual. See the package documentation for the
// meaning of empty fields.
type Person struct {
	ID         string `json:"id,omitempty" bson:"_id,omitempty"`
	SourceID   string `json:"sourceId,omitempty" bson:"sourceId,omitempty"`
	ExternalID string `json:"externalId,omitempty" bson:"externalId,omitempty"`

	FirstName  string `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty" bson:"lastName,omitempty"`
	MaidenName string `json:"maidenName,omitempty" bson:"maidenName,omitempty"`
	Gender     Gender `json:"gender,omitempty" bson:"gender,omitempty"`

	DateOfBirth  string `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	DateOfDeath  string `json:"dateOfDeath,omitempty" bson:"dateOfDeath,omitempty"`
	BirthApprox  string `json:"birthApprox,omitempty" bson:"birthApprox,omitempty"`
	DeathApprox  string `json:"deathApprox,omitempty" bson:"deathApprox,omitempty"`
	PlaceOfBirth string `json:"placeOfBirth,omitempty" bson:"placeOfBirth,omitempty"`

	FatherID  string   `json:"fatherId,omitempty" bson:"fatherId,omitempty"`
	MotherID  string   `json:"motherId,omitempty" bson:"motherId,omitempty"`
	SpouseIDs []string `json:"spouseIds,omitempty" bson:"spouseIds,omitempty"`
}

// FullName joins first and last name with a single space.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Key returns ID when set and SourceID otherwise.
func (p Person) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.SourceID
}

// HasSpouse reports whether id is listed in SpouseIDs.
func (p Person) HasSpouse(id string) bool {
	return slices.Contains(p.SpouseIDs, id)
}

// AddSpouse appends id to SpouseIDs unless it is empty, already present, or
// the person's own ID. It reports whether the set changed.
func (p *Person) AddSpouse(id string) bool {
	if id == "" || id == p.ID || p.HasSpouse(id) {
		return false
	}
	p.SpouseIDs = append(p.SpouseIDs, id)
	return true
}

// Clone returns a deep copy of p.
func (p Person) Clone() Person {
	p.SpouseIDs = slices.Clone(p.SpouseIDs)
	return p
}

// Family is a parsed family record. Member references are parser source IDs.
type Family struct {
	SourceID       string   `json:"sourceId,omitempty"`
	HusbandID      string   `json:"husbandId,omitempty"`
	WifeID         string   `json:"wifeId,omitempty"`
	ChildIDs       []string `json:"childIds,omitempty"`
	MarriageDate   string   `json:"marriageDate,omitempty"`
	MarriageApprox string   `json:"marriageApprox,omitempty"`
	MarriagePlace  string   `json:"marriagePlace,omitempty"`
}

// Index maps each non-empty ID to its position in people. When an ID occurs
// more than once the first occurrence wins.
func Index(people []Person) map[string]int {
	idx := make(map[string]int, len(people))
	for i, p := range people {
		if p.ID == "" {
			continue
		}
		if _, dup := idx[p.ID]; !dup {
			idx[p.ID] = i
		}
	}
	return idx
}

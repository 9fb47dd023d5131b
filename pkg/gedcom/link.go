package gedcom

import "github.com/matzehuels/kinship/pkg/record"

// Link projects parsed families onto their members so the result can be
// analyzed without a store. Each returned person has ID set to its SourceID.
// Spouses are linked in both directions and children receive FatherID and
// MotherID unless the parent slot was already filled by an earlier family.
// References to persons missing from the document are dropped.
func Link(res Result) []record.Person {
	people := make([]record.Person, len(res.People))
	idx := make(map[string]int, len(res.People))
	for i, p := range res.People {
		p = p.Clone()
		p.ID = p.SourceID
		people[i] = p
		if _, dup := idx[p.ID]; !dup && p.ID != "" {
			idx[p.ID] = i
		}
	}

	for _, f := range res.Families {
		h, hasH := idx[f.HusbandID]
		w, hasW := idx[f.WifeID]
		if hasH && hasW {
			people[h].AddSpouse(people[w].ID)
			people[w].AddSpouse(people[h].ID)
		}
		for _, c := range f.ChildIDs {
			ci, ok := idx[c]
			if !ok {
				continue
			}
			if hasH && people[ci].FatherID == "" {
				people[ci].FatherID = people[h].ID
			}
			if hasW && people[ci].MotherID == "" {
				people[ci].MotherID = people[w].ID
			}
		}
	}
	return people
}

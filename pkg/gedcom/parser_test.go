package gedcom

import (
	"strings"
	"testing"

	"github.com/matzehuels/kinship/pkg/record"
)

func lines(ls ...string) string { return strings.Join(ls, "\n") }

func TestParsePerson(t *testing.T) {
	res := Parse(lines(
		"0 HEAD",
		"0 @I1@ INDI",
		"1 NAME Anna /Smith/",
		"1 SEX F",
		"1 BIRT",
		"2 DATE 1 JAN 1900",
		"2 PLAC Boston",
		"1 DEAT",
		"2 DATE 1975-03-04",
		"0 TRLR",
	))

	if len(res.People) != 1 {
		t.Fatalf("people = %d, want 1", len(res.People))
	}
	p := res.People[0]
	want := record.Person{
		SourceID:     "@I1@",
		FirstName:    "Anna",
		LastName:     "Smith",
		Gender:       record.GenderFemale,
		DateOfBirth:  "1900-01-01",
		PlaceOfBirth: "Boston",
		DateOfDeath:  "1975-03-04",
	}
	if p.SourceID != want.SourceID || p.FirstName != want.FirstName || p.LastName != want.LastName ||
		p.Gender != want.Gender || p.DateOfBirth != want.DateOfBirth || p.PlaceOfBirth != want.PlaceOfBirth ||
		p.DateOfDeath != want.DateOfDeath {
		t.Errorf("person = %+v, want %+v", p, want)
	}
	if len(res.Families) != 0 {
		t.Errorf("families = %d, want 0", len(res.Families))
	}
}

func TestParseDateFallback(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		wantDate   string
		wantApprox string
	}{
		{"Gedcom", "12 mar 1850", "1850-03-12", ""},
		{"ISO", "1850-03-12", "1850-03-12", ""},
		{"About", "ABT 1800", "", "ABT 1800"},
		{"YearOnly", "1850", "", "1850"},
		{"Range", "BET 1700 AND 1710", "", "BET 1700 AND 1710"},
		{"BadMonth", "1 FOO 1850", "", "1 FOO 1850"},
		{"BadDay", "40 JAN 1850", "", "40 JAN 1850"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(lines("0 @I1@ INDI", "1 BIRT", "2 DATE "+tt.date, "1 DEAT", "2 DATE "+tt.date))
			p := res.People[0]
			if p.DateOfBirth != tt.wantDate || p.BirthApprox != tt.wantApprox {
				t.Errorf("birth = (%q, %q), want (%q, %q)", p.DateOfBirth, p.BirthApprox, tt.wantDate, tt.wantApprox)
			}
			if p.DateOfDeath != tt.wantDate || p.DeathApprox != tt.wantApprox {
				t.Errorf("death = (%q, %q), want (%q, %q)", p.DateOfDeath, p.DeathApprox, tt.wantDate, tt.wantApprox)
			}
		})
	}
}

func TestParseDateExclusive(t *testing.T) {
	res := Parse(lines("0 @I1@ INDI", "1 BIRT", "2 DATE ABT 1800", "2 DATE 2 FEB 1801"))
	p := res.People[0]
	if p.DateOfBirth != "1801-02-02" || p.BirthApprox != "" {
		t.Errorf("later precise date should clear approx: %+v", p)
	}

	res = Parse(lines("0 @I1@ INDI", "1 BIRT", "2 DATE 2 FEB 1801", "2 DATE ABT 1800"))
	p = res.People[0]
	if p.DateOfBirth != "" || p.BirthApprox != "ABT 1800" {
		t.Errorf("later approx date should clear precise: %+v", p)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		value     string
		wantFirst string
		wantLast  string
	}{
		{"Anna /Smith/", "Anna", "Smith"},
		{"Anna Maria /van Dyke/ Jr.", "Anna Maria", "van Dyke"},
		{"/Smith/", "", "Smith"},
		{"Anna Smith", "Anna", "Smith"},
		{"Anna de la Cruz", "Anna", "de la Cruz"},
		{"Anna /Smith", "Anna", "/Smith"},
		{"Anna", "Anna", ""},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			first, last := splitName(tt.value)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)", tt.value, first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestParseSex(t *testing.T) {
	tests := map[string]record.Gender{
		"M":      record.GenderMale,
		"male":   record.GenderMale,
		"F":      record.GenderFemale,
		"female": record.GenderFemale,
		"U":      record.GenderUnknown,
		"X":      record.GenderUnknown,
	}
	for in, want := range tests {
		res := Parse(lines("0 @I1@ INDI", "1 SEX "+in))
		if got := res.People[0].Gender; got != want {
			t.Errorf("SEX %s = %q, want %q", in, got, want)
		}
	}
}

func TestParseFamilyInterleaved(t *testing.T) {
	text := lines(
		"0 @I1@ INDI",
		"1 NAME John /Doe/",
		"0 @F1@ FAM",
		"1 HUSB @I1@",
		"1 WIFE @I2@",
		"1 MARR",
		"2 DATE 5 JUN 1920",
		"2 PLAC Springfield",
		"1 CHIL @I3@",
		"0 @I2@ INDI",
		"1 NAME Jane /Roe/",
		"0 @I3@ INDI",
		"1 NAME Jim /Doe/",
	)
	res := Parse(text)

	if len(res.People) != 3 {
		t.Fatalf("people = %d, want 3", len(res.People))
	}
	if len(res.Families) != 1 {
		t.Fatalf("families = %d, want 1", len(res.Families))
	}
	f := res.Families[0]
	if f.HusbandID != "@I1@" || f.WifeID != "@I2@" {
		t.Errorf("spouses = (%q, %q)", f.HusbandID, f.WifeID)
	}
	if f.MarriageDate != "1920-06-05" || f.MarriageApprox != "" {
		t.Errorf("marriage date = (%q, %q)", f.MarriageDate, f.MarriageApprox)
	}
	if f.MarriagePlace != "Springfield" {
		t.Errorf("marriage place = %q", f.MarriagePlace)
	}
	if len(f.ChildIDs) != 1 || f.ChildIDs[0] != "@I3@" {
		t.Errorf("children = %v", f.ChildIDs)
	}
}

func TestParseContextClears(t *testing.T) {
	// A level-1 tag after BIRT ends the birth block.
	res := Parse(lines(
		"0 @I1@ INDI",
		"1 BIRT",
		"1 RESI",
		"2 DATE 1 JAN 1900",
		"2 PLAC Paris",
	))
	p := res.People[0]
	if p.DateOfBirth != "" || p.PlaceOfBirth != "" {
		t.Errorf("residence details leaked into birth: %+v", p)
	}

	// Death places are not captured.
	res = Parse(lines("0 @I1@ INDI", "1 DEAT", "2 PLAC Rome"))
	if res.People[0].PlaceOfBirth != "" {
		t.Error("death place must not become birth place")
	}
}

func TestParseMalformed(t *testing.T) {
	res := Parse(lines(
		"garbage",
		"",
		"x @I9@ INDI",
		"0 @I1@ INDI",
		"1",
		"one NAME Broken /Line/",
		"1 NAME Anna /Smith/",
		"-1 SEX F",
		"0 @N1@ NOTE some note",
		"1 NAME Not /Aperson/",
		"0 @F1@",
	))
	if len(res.People) != 1 {
		t.Fatalf("people = %d, want 1", len(res.People))
	}
	if p := res.People[0]; p.FirstName != "Anna" || p.Gender != record.GenderUnknown {
		t.Errorf("person = %+v", p)
	}
	if len(res.Families) != 0 {
		t.Errorf("families = %d, want 0", len(res.Families))
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		raw  string
		want line
		ok   bool
	}{
		{"0 HEAD", line{level: 0, tag: "HEAD"}, true},
		{"0 @I1@ INDI", line{level: 0, pointer: "@I1@", tag: "INDI"}, true},
		{"2 PLAC New  York", line{level: 2, tag: "PLAC", value: "New  York"}, true},
		{"2 PLAC Rio\tde Janeiro  ", line{level: 2, tag: "PLAC", value: "Rio\tde Janeiro"}, true},
		{"1 name Anna /Smith/\r", line{level: 1, tag: "NAME", value: "Anna /Smith/"}, true},
		{"  1   SEX  F", line{level: 1, tag: "SEX", value: "F"}, true},
		{"0 HEAD\r", line{level: 0, tag: "HEAD"}, true},
		{"1", line{}, false},
		{"0 @F1@", line{}, false},
		{"x NAME Anna", line{}, false},
		{"-1 SEX F", line{}, false},
	}
	for _, tt := range tests {
		got, ok := tokenize(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("tokenize(%q) = %+v, %v; want %+v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseKeepsInnerSpaces(t *testing.T) {
	res := Parse(lines(
		"0 @I1@ INDI",
		"1 NAME Anna /Smith/",
		"1 BIRT",
		"2 PLAC New  York",
		"0 @F1@ FAM",
		"1 HUSB @I1@",
		"1 MARR",
		"2 PLAC St.  Louis",
	))
	if len(res.People) != 1 || res.People[0].PlaceOfBirth != "New  York" {
		t.Errorf("people = %+v, want birth place %q", res.People, "New  York")
	}
	if len(res.Families) != 1 || res.Families[0].MarriagePlace != "St.  Louis" {
		t.Errorf("families = %+v, want marriage place %q", res.Families, "St.  Louis")
	}
}

func TestParseCRLFAndBOM(t *testing.T) {
	res := Parse("\ufeff0 HEAD\r\n0 @I1@ INDI\r\n1 NAME Anna /Smith/\r\n1 BIRT\r\n2 DATE 1 JAN 1900\r\n")
	if len(res.People) != 1 {
		t.Fatalf("people = %d, want 1", len(res.People))
	}
	if p := res.People[0]; p.LastName != "Smith" || p.DateOfBirth != "1900-01-01" {
		t.Errorf("person = %+v", p)
	}
}

func TestParseEmpty(t *testing.T) {
	res := Parse("")
	if res.People == nil || res.Families == nil {
		t.Error("empty input should produce empty, non-nil slices")
	}
}

func TestParseReader(t *testing.T) {
	res, err := ParseReader(strings.NewReader(lines("0 @I1@ INDI", "1 NAME Anna /Smith/")))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.People) != 1 || res.People[0].LastName != "Smith" {
		t.Errorf("people = %+v", res.People)
	}
}

func TestLink(t *testing.T) {
	res := Parse(lines(
		"0 @I1@ INDI",
		"0 @I2@ INDI",
		"0 @I3@ INDI",
		"0 @F1@ FAM",
		"1 HUSB @I1@",
		"1 WIFE @I2@",
		"1 CHIL @I3@",
		"1 CHIL @I404@",
	))
	people := Link(res)

	byID := map[string]record.Person{}
	for _, p := range people {
		byID[p.ID] = p
	}
	if !byID["@I1@"].HasSpouse("@I2@") || !byID["@I2@"].HasSpouse("@I1@") {
		t.Error("spouses should be linked both ways")
	}
	if c := byID["@I3@"]; c.FatherID != "@I1@" || c.MotherID != "@I2@" {
		t.Errorf("child parents = (%q, %q)", c.FatherID, c.MotherID)
	}
	if len(res.People[0].SpouseIDs) != 0 {
		t.Error("Link must not modify the parse result")
	}
}

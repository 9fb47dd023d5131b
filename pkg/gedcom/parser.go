package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/kinship/pkg/record"
)

// Result holds the records recovered from one GEDCOM document, in source
// order.
type Result struct {
	People   []record.Person `json:"people"`
	Families []record.Family `json:"families"`
}

// maxLineSize bounds a single GEDCOM line. Real files stay far below it, but
// embedded notes can exceed bufio's 64 KiB default.
const maxLineSize = 1 << 20

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader) (Result, error) {
	p := newParser()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		p.line(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Result{}, fmt.Errorf("read gedcom: %w", err)
	}
	return p.finish(), nil
}

// Parse parses GEDCOM text. It never fails; see the package documentation.
func Parse(text string) Result {
	p := newParser()
	for _, l := range strings.Split(text, "\n") {
		p.line(l)
	}
	return p.finish()
}

// event is the sub-block a level-2 DATE or PLAC line applies to.
type event int

const (
	eventNone event = iota
	eventBirth
	eventDeath
	eventMarriage
)

type parser struct {
	out    Result
	person *record.Person
	family *record.Family
	event  event
}

func newParser() *parser {
	return &parser{out: Result{People: []record.Person{}, Families: []record.Family{}}}
}

// line holds one tokenized GEDCOM line.
type line struct {
	level   int
	pointer string
	tag     string
	value   string
}

// tokenize splits "level [pointer] tag [value]". The value is everything
// after the tag's delimiter with only its outer whitespace removed, so
// "2 PLAC New  York" keeps both spaces.
func tokenize(raw string) (line, bool) {
	raw = strings.TrimPrefix(raw, "\ufeff")
	levelTok, rest := cutToken(raw)
	level, err := strconv.Atoi(levelTok)
	if err != nil || level < 0 {
		return line{}, false
	}
	l := line{level: level}
	tok, rest := cutToken(rest)
	if isPointer(tok) {
		l.pointer = tok
		tok, rest = cutToken(rest)
	}
	if tok == "" {
		return line{}, false
	}
	l.tag = strings.ToUpper(tok)
	l.value = strings.TrimSpace(rest)
	return l, true
}

// cutToken returns the first whitespace-delimited token of s and the text
// after the single character that ends it.
func cutToken(s string) (tok, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t\r")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

func isPointer(tok string) bool {
	return len(tok) >= 3 && tok[0] == '@' && tok[len(tok)-1] == '@'
}

func (p *parser) line(raw string) {
	l, ok := tokenize(raw)
	if !ok {
		return
	}

	if l.level == 0 {
		p.flush()
		switch {
		case l.pointer != "" && l.tag == "INDI":
			p.person = &record.Person{SourceID: l.pointer}
		case l.pointer != "" && l.tag == "FAM":
			p.family = &record.Family{SourceID: l.pointer}
		}
		return
	}

	switch {
	case p.person != nil:
		p.personLine(l)
	case p.family != nil:
		p.familyLine(l)
	}
}

func (p *parser) personLine(l line) {
	if l.level == 1 {
		p.event = eventNone
		switch l.tag {
		case "NAME":
			p.person.FirstName, p.person.LastName = splitName(l.value)
		case "SEX":
			p.person.Gender = parseSex(l.value)
		case "BIRT":
			p.event = eventBirth
		case "DEAT":
			p.event = eventDeath
		}
		return
	}
	if l.level != 2 {
		return
	}
	switch {
	case l.tag == "DATE" && p.event == eventBirth:
		setDate(l.value, &p.person.DateOfBirth, &p.person.BirthApprox)
	case l.tag == "DATE" && p.event == eventDeath:
		setDate(l.value, &p.person.DateOfDeath, &p.person.DeathApprox)
	case l.tag == "PLAC" && p.event == eventBirth:
		p.person.PlaceOfBirth = l.value
	}
}

func (p *parser) familyLine(l line) {
	if l.level == 1 {
		p.event = eventNone
		switch l.tag {
		case "HUSB":
			p.family.HusbandID = l.value
		case "WIFE":
			p.family.WifeID = l.value
		case "CHIL":
			if l.value != "" {
				p.family.ChildIDs = append(p.family.ChildIDs, l.value)
			}
		case "MARR":
			p.event = eventMarriage
		}
		return
	}
	if l.level != 2 || p.event != eventMarriage {
		return
	}
	switch l.tag {
	case "DATE":
		setDate(l.value, &p.family.MarriageDate, &p.family.MarriageApprox)
	case "PLAC":
		p.family.MarriagePlace = l.value
	}
}

// flush emits the open record, if any, and resets the cursors.
func (p *parser) flush() {
	if p.person != nil {
		p.out.People = append(p.out.People, *p.person)
		p.person = nil
	}
	if p.family != nil {
		p.out.Families = append(p.out.Families, *p.family)
		p.family = nil
	}
	p.event = eventNone
}

func (p *parser) finish() Result {
	p.flush()
	return p.out
}

// splitName splits "First /Last/" into its parts. Without a slash-delimited
// surname the first word is the first name and the rest the last name.
func splitName(v string) (first, last string) {
	if open := strings.IndexByte(v, '/'); open >= 0 {
		if end := strings.IndexByte(v[open+1:], '/'); end >= 0 {
			return strings.TrimSpace(v[:open]), strings.TrimSpace(v[open+1 : open+1+end])
		}
	}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func parseSex(v string) record.Gender {
	if v == "" {
		return record.GenderUnknown
	}
	switch v[0] {
	case 'm', 'M':
		return record.GenderMale
	case 'f', 'F':
		return record.GenderFemale
	}
	return record.GenderUnknown
}

// setDate stores v in exactly one of date and approx.
func setDate(v string, date, approx *string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if iso, ok := NormalizeDate(v); ok {
		*date, *approx = iso, ""
		return
	}
	*date, *approx = "", v
}

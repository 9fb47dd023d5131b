// Package gedcom extracts people and families from GEDCOM text.
//
// Each line has the shape
//
//	<level> [<pointer>] <tag> [<value...>]
//
// A level-0 line whose pointer is followed by INDI or FAM opens a new record;
// any other level-0 line closes the open record. Inside a record only a small
// set of tags is recognized:
//
//   - INDI: NAME, SEX, BIRT (DATE, PLAC), DEAT (DATE)
//   - FAM: HUSB, WIFE, CHIL, MARR (DATE, PLAC)
//
// Dates of the form "D MON YYYY" are converted to "YYYY-MM-DD". Dates that
// are already ISO formatted are kept. Anything else ("ABT 1800", "1850",
// "BET 1700 AND 1710") is stored verbatim in the matching Approx field and the
// canonical field stays empty.
//
// # Error Handling
//
// [Parse] never fails. Lines that cannot be tokenized and tags that are not
// recognized are skipped, so a partially broken file yields whatever could be
// recovered. [ParseReader] only returns errors from the underlying reader.
package gedcom

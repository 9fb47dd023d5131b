// Package record defines the person and family values exchanged between the
// GEDCOM parser, the identity resolver, the lineage and metrics engines and
// the person stores.
//
// # Person
//
// [Person] is the single normalized shape every component consumes. Optional
// references (FatherID, MotherID, ExternalID) use the empty string for
// "absent". SpouseIDs is a set expressed as a slice; callers are expected to
// keep the relation symmetric, but no component relies on it.
//
// Parsed persons carry a SourceID (the GEDCOM pointer, e.g. "@I1@") and no
// ID. Once merged into a store they receive a store-assigned ID.
//
// # Family
//
// [Family] only exists as parser output. Its HusbandID, WifeID and ChildIDs
// reference parsed persons by SourceID.
//
// # Serialization
//
// [WritePeople], [ReadPeople] and their file variants encode person
// collections as JSON. Output is sorted by ID so equal collections always
// produce equal bytes, which the pipeline relies on for cache keys.
package record

package record

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// MarshalPeople encodes people as indented JSON sorted by ID.
func MarshalPeople(people []Person) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePeople(people, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePeople writes people as JSON to w. The input slice is not reordered.
func WritePeople(people []Person, w io.Writer) error {
	sorted := slices.Clone(people)
	slices.SortStableFunc(sorted, func(a, b Person) int { return cmp.Compare(a.Key(), b.Key()) })
	if sorted == nil {
		sorted = []Person{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sorted); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WritePeopleFile writes people to path, replacing any existing file.
func WritePeopleFile(people []Person, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePeople(people, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadPeople decodes a JSON array of people.
func ReadPeople(r io.Reader) ([]Person, error) {
	var people []Person
	if err := json.NewDecoder(r).Decode(&people); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return people, nil
}

// ReadPeopleFile reads a JSON array of people from path.
func ReadPeopleFile(path string) ([]Person, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPeople(f)
}

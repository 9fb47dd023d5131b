// Package store persists person records for the import pipeline.
//
// The analysis core never touches a store: it works on slices of
// [record.Person]. A [Store] supplies the snapshot an import is resolved
// against and receives the created and merged records afterwards.
//
// Three backends are provided:
//   - [FileStore]: a JSON array on disk, loaded on open and written on Close
//   - [MongoStore]: one document per person, keyed by _id
//   - [Neo4jStore]: one :Person node per person with PARENT_OF and
//     SPOUSE_OF relationships mirroring the id references
//
// Use [Open] to select a backend from a [Config].
package store

import (
	"context"

	"github.com/google/uuid"

	kerrors "github.com/matzehuels/kinship/pkg/errors"
	"github.com/matzehuels/kinship/pkg/record"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
	BackendNeo4j = "neo4j"
)

// Store is a persistent collection of people.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// People returns a snapshot of every stored person.
	People(ctx context.Context) ([]record.Person, error)

	// Create stores a new person. An empty ID is replaced by a fresh UUID.
	// The stored record is returned.
	Create(ctx context.Context, p record.Person) (record.Person, error)

	// Update replaces the person with p.ID. The person must exist.
	Update(ctx context.Context, p record.Person) error

	// Close flushes pending writes and releases connections.
	Close() error
}

// Discarder is implemented by stores that buffer writes until Close. Discard
// drops everything written since the last save, so a failed import leaves
// the store as it was. Mongo and Neo4j write through and do not implement it.
type Discarder interface {
	Discard()
}

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"`

	// Path is the JSON file used by the file backend.
	Path string `toml:"path"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	Neo4jURI      string `toml:"neo4j_uri"`
	Neo4jUser     string `toml:"neo4j_user"`
	Neo4jPassword string `toml:"neo4j_password"`
}

// DefaultConfig returns a file store at people.json.
func DefaultConfig() Config {
	return Config{
		Backend:         BackendFile,
		Path:            "people.json",
		MongoDatabase:   "kinship",
		MongoCollection: "people",
	}
}

// Validate checks that the selected backend has what it needs to connect.
func (c Config) Validate() error {
	if err := kerrors.ValidateChoice("store backend", c.Backend, BackendFile, BackendMongo, BackendNeo4j); err != nil {
		return err
	}
	switch c.Backend {
	case BackendFile:
		return kerrors.ValidatePath(c.Path)
	case BackendMongo:
		if c.MongoURI == "" {
			return kerrors.New(kerrors.ErrCodeInvalidConfig, "mongo store requires a URI")
		}
	case BackendNeo4j:
		if c.Neo4jURI == "" {
			return kerrors.New(kerrors.ErrCodeInvalidConfig, "neo4j store requires a URI")
		}
	}
	return nil
}

// Open connects to the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case BackendNeo4j:
		return OpenNeo4j(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	default:
		return OpenFile(cfg.Path)
	}
}

// prepareCreate assigns an ID when missing.
func prepareCreate(p record.Person) record.Person {
	p = p.Clone()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p
}

func errDuplicate(id string) error {
	return kerrors.New(kerrors.ErrCodeInvalidInput, "person %s already exists", id)
}

func errNotFound(id string) error {
	return kerrors.New(kerrors.ErrCodePersonNotFound, "no person with id %s", id)
}

func errMissingID() error {
	return kerrors.New(kerrors.ErrCodeInvalidInput, "person has no id")
}

package store

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	kerrors "github.com/matzehuels/kinship/pkg/errors"
	"github.com/matzehuels/kinship/pkg/record"
)

// Neo4jStore keeps people as :Person nodes.
//
// Parent and spouse ids are stored as node properties, which are the source
// of truth when reading. Each write also maintains PARENT_OF and SPOUSE_OF
// relationships to any referenced person already in the graph, and a create
// picks up children that were stored before their parent.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

// OpenNeo4j connects with basic auth and verifies connectivity.
func OpenNeo4j(ctx context.Context, uri, user, password string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStore, err, "create neo4j driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(context.Background())
		return nil, kerrors.Wrap(kerrors.ErrCodeStore, err, "verify neo4j connectivity")
	}
	return &Neo4jStore{driver: driver}, nil
}

const neo4jReadPeople = `
	MATCH (p:Person)
	RETURN p.id AS id, p.sourceId AS sourceId, p.externalId AS externalId,
	       p.firstName AS firstName, p.lastName AS lastName, p.maidenName AS maidenName,
	       p.gender AS gender, p.dateOfBirth AS dateOfBirth, p.dateOfDeath AS dateOfDeath,
	       p.birthApprox AS birthApprox, p.deathApprox AS deathApprox,
	       p.placeOfBirth AS placeOfBirth, p.fatherId AS fatherId, p.motherId AS motherId,
	       p.spouseIds AS spouseIds
	ORDER BY p.id
`

// People returns every :Person node ordered by id.
func (s *Neo4jStore) People(ctx context.Context) ([]record.Person, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, neo4jReadPeople, nil)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStore, err, "query people")
	}

	var people []record.Person
	for result.Next(ctx) {
		people = append(people, personFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStore, err, "read people")
	}
	return people, nil
}

const neo4jCreatePerson = `
	CREATE (p:Person)
	SET p = $props
	WITH p
	OPTIONAL MATCH (parent:Person) WHERE parent.id IN [p.fatherId, p.motherId]
	FOREACH (_ IN CASE WHEN parent IS NULL THEN [] ELSE [1] END |
		MERGE (parent)-[:PARENT_OF]->(p))
	WITH DISTINCT p
	OPTIONAL MATCH (spouse:Person) WHERE spouse.id IN coalesce(p.spouseIds, [])
	FOREACH (_ IN CASE WHEN spouse IS NULL THEN [] ELSE [1] END |
		MERGE (p)-[:SPOUSE_OF]-(spouse))
	WITH DISTINCT p
	OPTIONAL MATCH (child:Person) WHERE p.id IN [child.fatherId, child.motherId]
	FOREACH (_ IN CASE WHEN child IS NULL THEN [] ELSE [1] END |
		MERGE (p)-[:PARENT_OF]->(child))
	RETURN DISTINCT p.id AS id
`

// Create adds a node, assigning a UUID when p.ID is empty.
func (s *Neo4jStore) Create(ctx context.Context, p record.Person) (record.Person, error) {
	p = prepareCreate(p)

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := tx.Run(ctx, `MATCH (p:Person {id: $id}) RETURN p.id`, map[string]any{"id": p.ID})
		if err != nil {
			return nil, err
		}
		if exists.Next(ctx) {
			return nil, errDuplicate(p.ID)
		}
		res, err := tx.Run(ctx, neo4jCreatePerson, map[string]any{"props": personProps(p)})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		if kerrors.Is(err, kerrors.ErrCodeInvalidInput) {
			return record.Person{}, err
		}
		return record.Person{}, kerrors.Wrap(kerrors.ErrCodeStore, err, "create person %s", p.ID)
	}
	return p, nil
}

const neo4jUpdatePerson = `
	MATCH (p:Person {id: $id})
	SET p = $props
	WITH p
	OPTIONAL MATCH (p)<-[old:PARENT_OF]-()
	DELETE old
	WITH DISTINCT p
	OPTIONAL MATCH (p)-[oldSpouse:SPOUSE_OF]-()
	DELETE oldSpouse
	WITH DISTINCT p
	OPTIONAL MATCH (parent:Person) WHERE parent.id IN [p.fatherId, p.motherId]
	FOREACH (_ IN CASE WHEN parent IS NULL THEN [] ELSE [1] END |
		MERGE (parent)-[:PARENT_OF]->(p))
	WITH DISTINCT p
	OPTIONAL MATCH (spouse:Person) WHERE spouse.id IN coalesce(p.spouseIds, [])
	FOREACH (_ IN CASE WHEN spouse IS NULL THEN [] ELSE [1] END |
		MERGE (p)-[:SPOUSE_OF]-(spouse))
	RETURN DISTINCT p.id AS id
`

// Update replaces the properties and relationships of node p.ID.
func (s *Neo4jStore) Update(ctx context.Context, p record.Person) error {
	if p.ID == "" {
		return errMissingID()
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	matched, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, neo4jUpdatePerson, map[string]any{"id": p.ID, "props": personProps(p)})
		if err != nil {
			return nil, err
		}
		return res.Next(ctx), res.Err()
	})
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStore, err, "update person %s", p.ID)
	}
	if ok, _ := matched.(bool); !ok {
		return errNotFound(p.ID)
	}
	return nil
}

// Close closes the driver.
func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}

// personProps flattens p into node properties. Empty values are omitted.
func personProps(p record.Person) map[string]any {
	props := map[string]any{"id": p.ID}
	set := func(k, v string) {
		if v != "" {
			props[k] = v
		}
	}
	set("sourceId", p.SourceID)
	set("externalId", p.ExternalID)
	set("firstName", p.FirstName)
	set("lastName", p.LastName)
	set("maidenName", p.MaidenName)
	set("gender", string(p.Gender))
	set("dateOfBirth", p.DateOfBirth)
	set("dateOfDeath", p.DateOfDeath)
	set("birthApprox", p.BirthApprox)
	set("deathApprox", p.DeathApprox)
	set("placeOfBirth", p.PlaceOfBirth)
	set("fatherId", p.FatherID)
	set("motherId", p.MotherID)
	if len(p.SpouseIDs) > 0 {
		props["spouseIds"] = p.SpouseIDs
	}
	return props
}

func personFromRecord(rec *neo4j.Record) record.Person {
	return record.Person{
		ID:           recordString(rec, "id"),
		SourceID:     recordString(rec, "sourceId"),
		ExternalID:   recordString(rec, "externalId"),
		FirstName:    recordString(rec, "firstName"),
		LastName:     recordString(rec, "lastName"),
		MaidenName:   recordString(rec, "maidenName"),
		Gender:       record.Gender(recordString(rec, "gender")),
		DateOfBirth:  recordString(rec, "dateOfBirth"),
		DateOfDeath:  recordString(rec, "dateOfDeath"),
		BirthApprox:  recordString(rec, "birthApprox"),
		DeathApprox:  recordString(rec, "deathApprox"),
		PlaceOfBirth: recordString(rec, "placeOfBirth"),
		FatherID:     recordString(rec, "fatherId"),
		MotherID:     recordString(rec, "motherId"),
		SpouseIDs:    recordStrings(rec, "spouseIds"),
	}
}

func recordString(rec *neo4j.Record, key string) string {
	val, ok := rec.Get(key)
	if !ok || val == nil {
		return ""
	}
	s, _ := val.(string)
	return s
}

func recordStrings(rec *neo4j.Record, key string) []string {
	val, ok := rec.Get(key)
	if !ok || val == nil {
		return nil
	}
	list, ok := val.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

var _ Store = (*Neo4jStore)(nil)

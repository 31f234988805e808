package graph

import (
	"errors"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultCollectionName names the collection every artifact belongs to.
const DefaultCollectionName = "HCLE"

// GraphClient converts catalog rows into graph documents. It holds no run
// state: every ProcessGraph call builds its own registry, so one client can
// serve many runs.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	collectionName string
	newRunID       func() (string, error)
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// CollectionName is the name of the collection node (identity 0) and
// defaults to DefaultCollectionName. RunID generates the identifier of each
// run and defaults to a nanoid.
type NewGraphClientParams struct {
	CollectionName string
	RunID          func() (string, error)
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
//
// Example:
//
//	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
//		CollectionName: "HCLE",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, report, err := client.ProcessGraph(ctx, source)
func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	name := params.CollectionName
	if name == "" {
		name = DefaultCollectionName
	}
	if IsAbsent(name) {
		return nil, errors.New("collection name must not be a null placeholder")
	}

	newRunID := params.RunID
	if newRunID == nil {
		newRunID = func() (string, error) { return gonanoid.New() }
	}

	return &GraphClient{
		collectionName: name,
		newRunID:       newRunID,
	}, nil
}

// CollectionName returns the name of the collection node.
func (g *GraphClient) CollectionName() string {
	return g.collectionName
}

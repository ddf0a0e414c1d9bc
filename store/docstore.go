package store

import (
	"context"

	"github.com/agentcat/sdk/catalog"
)

// credentialCollection is the document collection holding named credentials,
// next to the five entity-kind collections.
const credentialCollection = "credential"

// document is the stored form of one entity or credential.
type document struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Attributes  catalog.Record `json:"attributes,omitempty"`
	Status      catalog.Status `json:"status,omitempty"`
}

func (d *document) raw() *catalog.RawEntity {
	return &catalog.RawEntity{
		Name:        d.Name,
		Description: d.Description,
		Attributes:  d.Attributes,
		Status:      d.Status,
	}
}

// docStore is the minimal persistence surface a driver must provide. A
// collection is one entity kind (or the credential bucket); names are unique
// within a collection.
type docStore interface {
	// get returns the named document, or nil when it does not exist.
	get(ctx context.Context, collection, name string) (*document, error)

	// put stores the document, overwriting any previous version.
	put(ctx context.Context, collection, name string, doc *document) error

	// delete removes the named document. Deleting an absent document is not
	// an error at this layer; the engine decides what absence means.
	delete(ctx context.Context, collection, name string) error

	// scan returns every document in the collection, sorted by name.
	scan(ctx context.Context, collection string) ([]*document, error)

	// close releases the underlying connection.
	close() error
}

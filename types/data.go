package types

// Document is one record of a collection. Only the fields consulted by
// the ownership gate are modeled; the record payload is opaque.
type Document struct {
	ID           string
	CollectionID string
	CreatedBy    string
	Data         map[string]interface{}
}

// LinkInstance is one record of a link type, connecting two documents
type LinkInstance struct {
	ID          string
	LinkTypeID  string
	CreatedBy   string
	DocumentIDs [2]string
}

// DocumentOwnershipFunc decides if the principal is the purpose-defined
// owner of a document, evaluated against the owning collection's
// purpose meta data. It is supplied by the application; when absent,
// only the created-by check applies. Link instances have no
// purpose-based ownership.
type DocumentOwnershipFunc func(collection *Collection, document *Document, principal Principal) bool

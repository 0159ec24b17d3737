package request

// EntityField is one free-form attribute submitted for a customer or item.
// The id is optional; the server assigns one when it is missing.
type EntityField struct {
	ID    string `json:"id"`
	Label string `json:"label" binding:"required"`
	Value string `json:"value"`
}

// CreateEntityRequest creates a customer or stock item
type CreateEntityRequest struct {
	Fields []EntityField `json:"fields" binding:"required,min=1,dive"`
}

// UpdateEntityRequest replaces the full field list of a customer or stock item
type UpdateEntityRequest struct {
	Fields []EntityField `json:"fields" binding:"required,min=1,dive"`
}

package models

// DocumentRequirement is one document a supplier must provide.
type DocumentRequirement struct {
	ID          string `json:"id" msgpack:"id"`
	Title       string `json:"title" msgpack:"title"`
	Description string `json:"description,omitempty" msgpack:"description,omitempty"`
	Mandatory   bool   `json:"mandatory" msgpack:"mandatory"`
}

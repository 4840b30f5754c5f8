package model

// Entity is implemented by persisted models keyed by an integer identifier.
// A zero ID means the entity has not been stored yet.
type Entity interface {
	EntityID() int
}

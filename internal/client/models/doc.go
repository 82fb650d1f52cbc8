// Package models defines the wire and domain types exchanged with the
// study-materials backend. Every type held in a collection store implements
// EntityID.
package models

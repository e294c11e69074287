// Package service contains the application use cases for users and the
// catalogue (authors, books and their associations). Services coordinate
// the store interfaces from internal/store, apply object-level rules and
// translate store conflicts into field validation errors for the API layer.
//
// Authentication lives in the auth subpackage.
package service

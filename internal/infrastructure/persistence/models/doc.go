// Package models contains the GORM persistence models of the marketplace.
//
// Models are kept apart from domain entities: repositories convert with
// ToDomain and the *ModelFromDomain constructors, so domain packages never
// carry gorm tags.
package models

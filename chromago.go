// Package chromago is a Go client for the Chroma vector database.
//
// A Client is a session scoped to one (tenant, database) pair. It manages
// the collection lifecycle and caches collections it has already resolved,
// so repeated get-or-create calls for the same name cost no round trip.
// Collection handles share the session's connection pool and operate on
// records independently.
//
// Basic usage:
//
//	client, err := chromago.New(
//	    chromago.WithURL("http://localhost:8000"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	collection, err := client.GetOrCreateCollection(ctx, "recipes",
//	    chromago.Metadata{"topic": "cooking"}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = collection.Add(ctx,
//	    []string{"octopus-1"},
//	    [][]float32{{0.1, 0.2, 0.3}},
//	    nil,
//	    []string{"8 recipes for octopus"},
//	)
package chromago

import (
	"github.com/blueberrycongee/chromago/pkg/errors"
	"github.com/blueberrycongee/chromago/pkg/types"
)

// Re-export core types for convenience, so callers can use
// chromago.Metadata instead of types.Metadata.
type (
	// Metadata is a key/value mapping attached to collections and records.
	Metadata = types.Metadata

	// AuthMethod describes how requests authenticate to the server.
	AuthMethod = types.AuthMethod

	// TokenHeader selects the header used for token authentication.
	TokenHeader = types.TokenHeader

	// GetResult holds records returned by Collection.Get.
	GetResult = types.GetResult

	// QueryResult holds nearest-neighbor results from Collection.Query.
	QueryResult = types.QueryResult

	// APIError is the standardized error type returned by every operation.
	APIError = errors.APIError
)

// Token header selections.
const (
	TokenHeaderAuthorization = types.TokenHeaderAuthorization
	TokenHeaderXChromaToken  = types.TokenHeaderXChromaToken
)

// Re-export error predicates so callers rarely need the errors package.
var (
	// IsNotFound reports whether err is a not found error.
	IsNotFound = errors.IsNotFound

	// IsConflict reports whether err is a conflict error.
	IsConflict = errors.IsConflict

	// IsValidation reports whether err is a validation error.
	IsValidation = errors.IsValidation

	// IsConfiguration reports whether err is a configuration error.
	IsConfiguration = errors.IsConfiguration
)

// Package types defines the wire-level types exchanged with the Chroma server.
package types

import (
	"fmt"

	"github.com/blueberrycongee/chromago/pkg/errors"
)

// Metadata is a key/value mapping attached to collections and records.
// Values are restricted to strings, booleans, integers, and floats; the
// server rejects anything else, and Validate mirrors that check client-side.
type Metadata map[string]any

// Validate checks that every metadata value has an allowed type.
func (m Metadata) Validate() error {
	for key, value := range m {
		switch value.(type) {
		case string, bool,
			int, int32, int64,
			float32, float64:
		default:
			return errors.NewValidationError("",
				fmt.Sprintf("metadata key %q has unsupported value type %T", key, value))
		}
	}
	return nil
}

// TokenHeader selects the header used for token authentication.
type TokenHeader string

const (
	// TokenHeaderAuthorization sends the token as a bearer credential.
	TokenHeaderAuthorization TokenHeader = "Authorization"
	// TokenHeaderXChromaToken sends the token in Chroma's custom header.
	TokenHeaderXChromaToken TokenHeader = "X-Chroma-Token"
)

// AuthMethod describes how requests authenticate to the server.
// The zero value means no authentication.
type AuthMethod struct {
	Token  string
	Header TokenHeader
}

// CollectionModel is the collection entity as the server serializes it.
// It carries no transport capability; the client attaches one after decode.
type CollectionModel struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Metadata      Metadata       `json:"metadata,omitempty"`
	Configuration map[string]any `json:"configuration_json,omitempty"`
	Tenant        string         `json:"tenant,omitempty"`
	Database      string         `json:"database,omitempty"`
}

// HeartbeatResponse is the heartbeat envelope. The field key is a literal
// string containing a space, matching the server's wire format.
type HeartbeatResponse struct {
	NanosecondHeartbeat int64 `json:"nanosecond heartbeat"`
}

// GetResult holds records returned by a collection get.
type GetResult struct {
	IDs        []string    `json:"ids"`
	Embeddings [][]float32 `json:"embeddings,omitempty"`
	Metadatas  []Metadata  `json:"metadatas,omitempty"`
	Documents  []string    `json:"documents,omitempty"`
}

// QueryResult holds nearest-neighbor results, one inner slice per query
// embedding in the request.
type QueryResult struct {
	IDs        [][]string    `json:"ids"`
	Distances  [][]float32   `json:"distances,omitempty"`
	Metadatas  [][]Metadata  `json:"metadatas,omitempty"`
	Documents  [][]string    `json:"documents,omitempty"`
	Embeddings [][][]float32 `json:"embeddings,omitempty"`
}

package chromago

import (
	"context"
	"fmt"

	"github.com/blueberrycongee/chromago/internal/api"
	"github.com/blueberrycongee/chromago/pkg/errors"
	"github.com/blueberrycongee/chromago/pkg/types"
)

// Collection is a handle to a resolved, server-known collection. The wire
// payload carries no transport capability, so the client attaches its own
// transport to every handle it decodes; after that the handle is immutable.
//
// Handles are value copies: two handles for the same collection are
// interchangeable and share the session's connection pool.
type Collection struct {
	model types.CollectionModel
	api   *api.Client
}

func newCollection(model types.CollectionModel, transport *api.Client) *Collection {
	return &Collection{model: model, api: transport}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.model.Name }

// ID returns the server-assigned collection identifier.
func (c *Collection) ID() string { return c.model.ID }

// Metadata returns the metadata the collection was created with.
func (c *Collection) Metadata() types.Metadata { return c.model.Metadata }

// Configuration returns the collection's index configuration as the server
// reports it.
func (c *Collection) Configuration() map[string]any { return c.model.Configuration }

func (c *Collection) path(suffix string) string {
	return "/collections/" + c.model.ID + suffix
}

// recordPayload validates and assembles the record fields shared by Add and
// Upsert. Length mismatches are rejected before anything is sent.
func recordPayload(ids []string, embeddings [][]float32, metadatas []types.Metadata, documents []string) (map[string]any, error) {
	if len(ids) == 0 {
		return nil, errors.NewValidationError("", "at least one id is required")
	}
	if len(embeddings) != len(ids) {
		return nil, errors.NewValidationError("",
			fmt.Sprintf("got %d embeddings for %d ids", len(embeddings), len(ids)))
	}
	if metadatas != nil && len(metadatas) != len(ids) {
		return nil, errors.NewValidationError("",
			fmt.Sprintf("got %d metadatas for %d ids", len(metadatas), len(ids)))
	}
	if documents != nil && len(documents) != len(ids) {
		return nil, errors.NewValidationError("",
			fmt.Sprintf("got %d documents for %d ids", len(documents), len(ids)))
	}
	for _, metadata := range metadatas {
		if err := metadata.Validate(); err != nil {
			return nil, err
		}
	}

	payload := map[string]any{
		"ids":        ids,
		"embeddings": embeddings,
	}
	if metadatas != nil {
		payload["metadatas"] = metadatas
	}
	if documents != nil {
		payload["documents"] = documents
	}
	return payload, nil
}

// Add inserts records into the collection. Embeddings are required and must
// line up with ids; metadatas and documents are optional but must line up
// when present. Fails with a conflict error if an id already exists.
func (c *Collection) Add(ctx context.Context, ids []string, embeddings [][]float32, metadatas []types.Metadata, documents []string) error {
	payload, err := recordPayload(ids, embeddings, metadatas, documents)
	if err != nil {
		return fmt.Errorf("add to collection %q: %w", c.model.Name, err)
	}
	if _, err := c.api.PostDatabase(ctx, c.path("/add"), payload); err != nil {
		return fmt.Errorf("add to collection %q: %w", c.model.Name, err)
	}
	return nil
}

// Upsert inserts records into the collection, overwriting any that already
// exist under the same id.
func (c *Collection) Upsert(ctx context.Context, ids []string, embeddings [][]float32, metadatas []types.Metadata, documents []string) error {
	payload, err := recordPayload(ids, embeddings, metadatas, documents)
	if err != nil {
		return fmt.Errorf("upsert to collection %q: %w", c.model.Name, err)
	}
	if _, err := c.api.PostDatabase(ctx, c.path("/upsert"), payload); err != nil {
		return fmt.Errorf("upsert to collection %q: %w", c.model.Name, err)
	}
	return nil
}

// Count returns the number of records in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	resp, err := c.api.GetDatabase(ctx, c.path("/count"))
	if err != nil {
		return 0, fmt.Errorf("count collection %q: %w", c.model.Name, err)
	}

	var count int
	if err := resp.Decode(&count); err != nil {
		return 0, fmt.Errorf("count collection %q: %w", c.model.Name, err)
	}
	return count, nil
}

// Get fetches records by id and/or metadata filter. Empty ids and a nil
// where fetch everything, subject to limit and offset (zero means no limit).
func (c *Collection) Get(ctx context.Context, ids []string, where map[string]any, limit, offset int) (*types.GetResult, error) {
	payload := map[string]any{}
	if len(ids) > 0 {
		payload["ids"] = ids
	}
	if where != nil {
		payload["where"] = where
	}
	if limit > 0 {
		payload["limit"] = limit
	}
	if offset > 0 {
		payload["offset"] = offset
	}

	resp, err := c.api.PostDatabase(ctx, c.path("/get"), payload)
	if err != nil {
		return nil, fmt.Errorf("get from collection %q: %w", c.model.Name, err)
	}

	var result types.GetResult
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("get from collection %q: %w", c.model.Name, err)
	}
	return &result, nil
}

// Query returns the nResults nearest neighbors for each query embedding,
// optionally restricted by a metadata filter.
func (c *Collection) Query(ctx context.Context, queryEmbeddings [][]float32, nResults int, where map[string]any) (*types.QueryResult, error) {
	if len(queryEmbeddings) == 0 {
		return nil, fmt.Errorf("query collection %q: %w", c.model.Name,
			errors.NewValidationError("", "at least one query embedding is required"))
	}
	if nResults <= 0 {
		nResults = 10
	}

	payload := map[string]any{
		"query_embeddings": queryEmbeddings,
		"n_results":        nResults,
	}
	if where != nil {
		payload["where"] = where
	}

	resp, err := c.api.PostDatabase(ctx, c.path("/query"), payload)
	if err != nil {
		return nil, fmt.Errorf("query collection %q: %w", c.model.Name, err)
	}

	var result types.QueryResult
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("query collection %q: %w", c.model.Name, err)
	}
	return &result, nil
}

// Delete removes records by id and/or metadata filter. At least one of ids
// and where must be given; deleting a whole collection is DeleteCollection's
// job.
func (c *Collection) Delete(ctx context.Context, ids []string, where map[string]any) error {
	if len(ids) == 0 && where == nil {
		return fmt.Errorf("delete from collection %q: %w", c.model.Name,
			errors.NewValidationError("", "ids or where is required"))
	}

	payload := map[string]any{}
	if len(ids) > 0 {
		payload["ids"] = ids
	}
	if where != nil {
		payload["where"] = where
	}

	if _, err := c.api.PostDatabase(ctx, c.path("/delete"), payload); err != nil {
		return fmt.Errorf("delete from collection %q: %w", c.model.Name, err)
	}
	return nil
}

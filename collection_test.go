package chromago

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCollection(t *testing.T) (*Collection, *fakeChroma) {
	t.Helper()
	client, fake := newTestClient(t)
	collection, err := client.GetOrCreateCollection(context.Background(), "octopus", nil, nil)
	require.NoError(t, err)
	return collection, fake
}

func TestCollection_AddAndCount(t *testing.T) {
	collection, _ := testCollection(t)
	ctx := context.Background()

	err := collection.Add(ctx,
		[]string{"rec-1", "rec-2"},
		[][]float32{{0.1, 0.2}, {0.3, 0.4}},
		[]Metadata{{"course": "starter"}, {"course": "main"}},
		[]string{"grilled octopus", "octopus stew"},
	)
	require.NoError(t, err)

	count, err := collection.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCollection_AddValidation(t *testing.T) {
	collection, fake := testCollection(t)
	ctx := context.Background()
	before := fake.Requests()

	tests := []struct {
		name       string
		ids        []string
		embeddings [][]float32
		metadatas  []Metadata
		documents  []string
	}{
		{"no ids", nil, nil, nil, nil},
		{"embedding count mismatch", []string{"a", "b"}, [][]float32{{0.1}}, nil, nil},
		{"metadata count mismatch", []string{"a"}, [][]float32{{0.1}}, []Metadata{{}, {}}, nil},
		{"document count mismatch", []string{"a"}, [][]float32{{0.1}}, nil, []string{"x", "y"}},
		{"bad metadata value", []string{"a"}, [][]float32{{0.1}}, []Metadata{{"tags": []int{1}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := collection.Add(ctx, tt.ids, tt.embeddings, tt.metadatas, tt.documents)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "want validation error, got %v", err)
		})
	}

	assert.Equal(t, before, fake.Requests(), "invalid payloads should never reach the server")
}

func TestCollection_Upsert(t *testing.T) {
	collection, _ := testCollection(t)
	ctx := context.Background()

	err := collection.Upsert(ctx, []string{"rec-1"}, [][]float32{{0.1, 0.2}}, nil, nil)
	require.NoError(t, err)
}

func TestCollection_Get(t *testing.T) {
	collection, _ := testCollection(t)
	ctx := context.Background()

	require.NoError(t, collection.Add(ctx, []string{"rec-1"}, [][]float32{{0.1}}, nil, nil))

	result, err := collection.Get(ctx, nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"rec-1"}, result.IDs)
}

func TestCollection_Query(t *testing.T) {
	collection, _ := testCollection(t)
	ctx := context.Background()

	require.NoError(t, collection.Add(ctx, []string{"rec-1"}, [][]float32{{0.1}}, nil, nil))

	result, err := collection.Query(ctx, [][]float32{{0.1}}, 5, nil)
	require.NoError(t, err)
	require.Len(t, result.IDs, 1)
	assert.Equal(t, []string{"rec-1"}, result.IDs[0])
}

func TestCollection_QueryRequiresEmbeddings(t *testing.T) {
	collection, _ := testCollection(t)

	_, err := collection.Query(context.Background(), nil, 5, nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCollection_DeleteRequiresSelector(t *testing.T) {
	collection, _ := testCollection(t)

	err := collection.Delete(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCollection_Delete(t *testing.T) {
	collection, _ := testCollection(t)
	ctx := context.Background()

	require.NoError(t, collection.Add(ctx, []string{"rec-1"}, [][]float32{{0.1}}, nil, nil))
	require.NoError(t, collection.Delete(ctx, []string{"rec-1"}, nil))

	count, err := collection.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCollection_HandlesShareTransport(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	first, err := client.GetOrCreateCollection(ctx, "octopus", nil, nil)
	require.NoError(t, err)
	second, err := client.GetOrCreateCollection(ctx, "octopus", nil, nil)
	require.NoError(t, err)

	// Independent handle copies, one shared transport.
	assert.NotSame(t, first, second)
	assert.Same(t, first.api, second.api)
	assert.Same(t, client.api, first.api)
}

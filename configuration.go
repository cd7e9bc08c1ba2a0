package chromago

import (
	"fmt"

	"github.com/blueberrycongee/chromago/pkg/errors"
)

// Space is the distance function used by a vector index.
type Space string

const (
	SpaceL2     Space = "l2"
	SpaceCosine Space = "cosine"
	SpaceIP     Space = "ip"
)

func (s Space) valid() bool {
	switch s {
	case "", SpaceL2, SpaceCosine, SpaceIP:
		return true
	}
	return false
}

// HNSWConfiguration tunes an HNSW index. Zero-valued fields are omitted from
// the wire form and fall back to server defaults.
type HNSWConfiguration struct {
	Space          Space
	EfConstruction int
	EfSearch       int
	MaxNeighbors   int
	NumThreads     int
	BatchSize      int
	SyncThreshold  int
	ResizeFactor   float64
}

// SPANNConfiguration tunes a SPANN index. Zero-valued fields are omitted from
// the wire form and fall back to server defaults.
type SPANNConfiguration struct {
	Space          Space
	SearchNprobe   int
	WriteNprobe    int
	EfConstruction int
	EfSearch       int
	MaxNeighbors   int
	SplitThreshold int
	MergeThreshold int
}

// CollectionConfiguration selects and tunes the index for a new collection.
// At most one of HNSW and SPANN may be set.
type CollectionConfiguration struct {
	HNSW  *HNSWConfiguration
	SPANN *SPANNConfiguration
}

// toWire translates the configuration into the key/value mapping the server
// expects, or fails with a configuration error if the value is invalid.
func (c *CollectionConfiguration) toWire() (map[string]any, error) {
	if c == nil {
		return map[string]any{}, nil
	}
	if c.HNSW != nil && c.SPANN != nil {
		return nil, errors.NewConfigurationError("at most one of hnsw and spann may be configured")
	}

	wire := map[string]any{}
	if c.HNSW != nil {
		params, err := c.HNSW.toWire()
		if err != nil {
			return nil, err
		}
		wire["hnsw"] = params
	}
	if c.SPANN != nil {
		params, err := c.SPANN.toWire()
		if err != nil {
			return nil, err
		}
		wire["spann"] = params
	}
	return wire, nil
}

func (h *HNSWConfiguration) toWire() (map[string]any, error) {
	if !h.Space.valid() {
		return nil, errors.NewConfigurationError(fmt.Sprintf("unknown space %q", h.Space))
	}
	params := map[string]any{}
	if h.Space != "" {
		params["space"] = string(h.Space)
	}
	for name, value := range map[string]int{
		"ef_construction": h.EfConstruction,
		"ef_search":       h.EfSearch,
		"max_neighbors":   h.MaxNeighbors,
		"num_threads":     h.NumThreads,
		"batch_size":      h.BatchSize,
		"sync_threshold":  h.SyncThreshold,
	} {
		if value < 0 {
			return nil, errors.NewConfigurationError(fmt.Sprintf("hnsw %s must be positive, got %d", name, value))
		}
		if value > 0 {
			params[name] = value
		}
	}
	if h.ResizeFactor < 0 {
		return nil, errors.NewConfigurationError(fmt.Sprintf("hnsw resize_factor must be positive, got %v", h.ResizeFactor))
	}
	if h.ResizeFactor > 0 {
		params["resize_factor"] = h.ResizeFactor
	}
	return params, nil
}

func (s *SPANNConfiguration) toWire() (map[string]any, error) {
	if !s.Space.valid() {
		return nil, errors.NewConfigurationError(fmt.Sprintf("unknown space %q", s.Space))
	}
	params := map[string]any{}
	if s.Space != "" {
		params["space"] = string(s.Space)
	}
	for name, value := range map[string]int{
		"search_nprobe":   s.SearchNprobe,
		"write_nprobe":    s.WriteNprobe,
		"ef_construction": s.EfConstruction,
		"ef_search":       s.EfSearch,
		"max_neighbors":   s.MaxNeighbors,
		"split_threshold": s.SplitThreshold,
		"merge_threshold": s.MergeThreshold,
	} {
		if value < 0 {
			return nil, errors.NewConfigurationError(fmt.Sprintf("spann %s must be positive, got %d", name, value))
		}
		if value > 0 {
			params[name] = value
		}
	}
	return params, nil
}

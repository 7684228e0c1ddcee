package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"promcheck/internal/model"
)

// Resolver maps raw instance identifiers to canonical short hostnames using
// node metadata from the backend.
type Resolver struct {
	querier Querier
	logger  zerolog.Logger
}

// NewResolver creates a Resolver backed by querier.
func NewResolver(querier Querier, logger zerolog.Logger) *Resolver {
	return &Resolver{
		querier: querier,
		logger:  logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve queries node metadata once and returns the instance to hostname map.
// A failed query yields an empty map so every source falls back to its raw instance.
func (r *Resolver) Resolve(ctx context.Context) model.NodeMap {
	nodes := make(model.NodeMap)

	rows, err := r.querier.QueryRows(ctx, exprNodeInfo)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to resolve node names, using raw instances")
		return nodes
	}

	for _, row := range rows {
		instance := row.Instance()
		nodename := row.Label("nodename")
		if instance == "" || nodename == "" {
			continue
		}
		nodes[instance] = strings.SplitN(nodename, ".", 2)[0]
	}

	r.logger.Debug().Int("nodes", len(nodes)).Msg("resolved node names")
	return nodes
}

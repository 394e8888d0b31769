package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

// CheckConnectionRules decides whether a directed CONNECTED_TO edge from
// source to target is allowed. It is pure so the rule table can be tested
// without a live store.
//
// Rules, in order:
//  1. A Consumer is terminal and can never be a source.
//  2. Edges never cross projects, except that any node may feed a Consumer
//     in another project (shared consumers, e.g. a garage fed by two
//     buildings' meters).
//  3. Within a project, utility types must match, except again when the
//     target is a Consumer.
func CheckConnectionRules(source, target *types.Node) error {
	if source.Type == types.NodeTypeConsumer {
		return types.NewValidationError("Consumer nodes cannot be a source of a connection")
	}
	if source.ProjectID != target.ProjectID && target.Type != types.NodeTypeConsumer {
		return types.NewValidationError("Cannot connect nodes from different projects")
	}
	if source.UtilityType != "" && target.UtilityType != "" &&
		source.UtilityType != target.UtilityType && target.Type != types.NodeTypeConsumer {
		return types.NewValidationError(fmt.Sprintf(
			"Cannot connect %s node to %s node", source.UtilityType, target.UtilityType))
	}
	return nil
}

// Validator resolves both endpoints and applies the connection rules before
// any edge is written. The rules do not detect cycles; traversals assume
// each utility forms a tree, which callers maintain by only connecting
// downward from existing nodes.
type Validator interface {
	CreateConnection(ctx context.Context, sourceID, targetID string) error
}

type validator struct {
	repo TreeRepo
	log  *logger.Logger
}

func NewValidator(repo TreeRepo, baseLog *logger.Logger) Validator {
	return &validator{repo: repo, log: baseLog.With("component", "ConnectionValidator")}
}

func (v *validator) CreateConnection(ctx context.Context, sourceID, targetID string) error {
	source, err := v.repo.GetNodeByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("%w: source node %s", types.ErrNotFound, sourceID)
		}
		return err
	}
	target, err := v.repo.GetNodeByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("%w: target node %s", types.ErrNotFound, targetID)
		}
		return err
	}
	if err := CheckConnectionRules(source, target); err != nil {
		v.log.Debug("connection rejected",
			"source_id", sourceID,
			"target_id", targetID,
			"reason", err.Error())
		return err
	}
	if err := v.repo.MergeConnection(ctx, sourceID, targetID); err != nil {
		return err
	}
	v.log.Info("connection created", "source_id", sourceID, "target_id", targetID)
	return nil
}

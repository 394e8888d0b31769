package graph

import (
	"strings"
	"testing"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

func node(nodeType types.NodeType, projectID int64, utility types.UtilityType) *types.Node {
	return &types.Node{
		ID:          "test-" + string(nodeType),
		ProjectID:   projectID,
		Type:        nodeType,
		UtilityType: utility,
	}
}

func TestCheckConnectionRules(t *testing.T) {
	cases := []struct {
		name    string
		source  *types.Node
		target  *types.Node
		wantErr string
	}{
		{
			name:   "meter to consumer same project",
			source: node(types.NodeTypeMeter, 1, types.UtilityElectricity),
			target: node(types.NodeTypeConsumer, 1, types.UtilityElectricity),
		},
		{
			name:   "distribution to meter same utility",
			source: node(types.NodeTypeDistribution, 1, types.UtilityWater),
			target: node(types.NodeTypeMeter, 1, types.UtilityWater),
		},
		{
			name:    "consumer can never be a source",
			source:  node(types.NodeTypeConsumer, 1, types.UtilityElectricity),
			target:  node(types.NodeTypeMeter, 1, types.UtilityElectricity),
			wantErr: "Consumer nodes cannot be a source",
		},
		{
			name:    "cross project rejected",
			source:  node(types.NodeTypeMeter, 1, types.UtilityElectricity),
			target:  node(types.NodeTypeDistribution, 2, types.UtilityElectricity),
			wantErr: "different projects",
		},
		{
			name:   "cross project allowed when target is consumer",
			source: node(types.NodeTypeMeter, 1, types.UtilityElectricity),
			target: node(types.NodeTypeConsumer, 2, types.UtilityElectricity),
		},
		{
			name:    "utility mismatch rejected",
			source:  node(types.NodeTypeMeter, 1, types.UtilityElectricity),
			target:  node(types.NodeTypeMeter, 1, types.UtilityWater),
			wantErr: "Cannot connect electricity node to water node",
		},
		{
			name:   "utility mismatch allowed when target is consumer",
			source: node(types.NodeTypeMeter, 1, types.UtilityElectricity),
			target: node(types.NodeTypeConsumer, 1, types.UtilityWater),
		},
		{
			name:   "missing utility on one side is not a mismatch",
			source: node(types.NodeTypeMeteringTree, 1, types.UtilityElectricity),
			target: node(types.NodeTypeBuilding, 1, ""),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckConnectionRules(tc.source, tc.target)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !types.IsValidation(err) {
				t.Errorf("error should be a validation error, got %T", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}

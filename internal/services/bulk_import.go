package services

import (
	"context"
	"fmt"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/bulk"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/graph"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

// BulkImportService turns a validated CSV sheet into graph nodes. Rows are
// isolated: one bad row is reported with its spreadsheet row number and the
// rest of the batch continues. Rows without a parent_name are connected to
// their utility root in a second pass, after every named parent has had the
// chance to be created.
type BulkImportService interface {
	ImportCSV(ctx context.Context, projectID int64, raw []byte) (*types.BulkImportResult, error)
	ImportRows(ctx context.Context, projectID int64, rows []*types.BulkNodeRow) (*types.BulkImportResult, error)
}

type bulkImportService struct {
	repo  graph.TreeRepo
	roots graph.RootManager
	log   *logger.Logger
}

func NewBulkImportService(repo graph.TreeRepo, roots graph.RootManager, baseLog *logger.Logger) BulkImportService {
	return &bulkImportService{
		repo:  repo,
		roots: roots,
		log:   baseLog.With("service", "BulkImportService"),
	}
}

func (s *bulkImportService) ImportCSV(ctx context.Context, projectID int64, raw []byte) (*types.BulkImportResult, error) {
	content := bulk.DecodeContent(raw)
	rows, err := bulk.ParseCSV(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidArgument, err.Error())
	}
	for _, row := range rows {
		if v, ok := row.Properties["installation_date"].(string); ok && !bulk.ValidInstallationDate(v) {
			s.log.Warn("invalid installation date format, expected YYYY-MM-DD",
				"row", row.Row, "value", v)
		}
	}
	return s.ImportRows(ctx, projectID, rows)
}

type pendingRootLink struct {
	nodeID  string
	name    string
	utility types.UtilityType
}

func (s *bulkImportService) ImportRows(ctx context.Context, projectID int64, rows []*types.BulkNodeRow) (*types.BulkImportResult, error) {
	rootsByUtility, err := s.utilityRootIndex(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result := &types.BulkImportResult{
		Errors: []types.BulkRowError{},
		Total:  len(rows),
	}
	var pending []pendingRootLink

	// Data rows start at spreadsheet row 2; the header is row 1. Parsed
	// rows carry their true sheet row; rows built by hand may not.
	for i, row := range rows {
		rowNum := row.Row
		if rowNum == 0 {
			rowNum = i + 2
		}

		node, err := s.repo.CreateNode(ctx, projectID, row.Type, row.Properties)
		if err != nil {
			result.Errors = append(result.Errors, types.BulkRowError{Row: rowNum, Error: err.Error()})
			continue
		}

		if row.ParentName != "" {
			parent, err := s.findParentByName(ctx, projectID, row.ParentName)
			if err != nil {
				// The node stays in the graph, but a row whose parent
				// could not be wired is a failed row, not a success.
				result.Errors = append(result.Errors, types.BulkRowError{
					Row:   rowNum,
					Error: fmt.Sprintf("Parent '%s' not found", row.ParentName),
				})
				continue
			}
			if _, err := s.repo.CreateRelationship(ctx, projectID, parent.ID, node.ID, types.RelTypeConnectedTo, nil); err != nil {
				result.Errors = append(result.Errors, types.BulkRowError{Row: rowNum, Error: err.Error()})
				continue
			}
		} else {
			utility := types.UtilityElectricity
			if v, ok := row.Properties["utility_type"].(string); ok && v != "" {
				utility = types.UtilityType(v)
			}
			pending = append(pending, pendingRootLink{
				nodeID:  node.ID,
				name:    node.Name,
				utility: utility,
			})
		}
		result.Success++
	}

	// Second pass: hang parentless rows off their utility root. Failures
	// here leave the node orphaned but imported, so only warn.
	for _, link := range pending {
		root, ok := rootsByUtility[link.utility]
		if !ok {
			continue
		}
		if _, err := s.repo.CreateRelationship(ctx, projectID, root.ID, link.nodeID, types.RelTypeConnectedTo, nil); err != nil {
			s.log.Warn("failed to connect root-level node to utility root",
				"project_id", projectID,
				"node", link.name,
				"utility_type", link.utility,
				"error", err)
			continue
		}
		s.log.Debug("connected root-level node to utility root",
			"node", link.name, "utility_type", link.utility)
	}

	s.log.Info("bulk import finished",
		"project_id", projectID,
		"success", result.Success,
		"errors", len(result.Errors),
		"total", result.Total)
	return result, nil
}

func (s *bulkImportService) utilityRootIndex(ctx context.Context, projectID int64) (map[types.UtilityType]*types.Node, error) {
	roots, err := s.roots.EnsureUtilityRoots(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ensure utility roots: %w", err)
	}
	index := make(map[types.UtilityType]*types.Node, len(roots))
	for _, root := range roots {
		index[root.UtilityType] = root
	}
	return index, nil
}

// findParentByName runs a substring search then keeps only exact name
// matches; the first exact match wins.
func (s *bulkImportService) findParentByName(ctx context.Context, projectID int64, name string) (*types.Node, error) {
	candidates, err := s.repo.SearchNodes(ctx, projectID, name)
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		if candidate.Name == name {
			return candidate, nil
		}
	}
	return nil, types.ErrNotFound
}

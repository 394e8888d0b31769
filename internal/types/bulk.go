package types

// BulkNodeRow is one pre-validated row of a bulk node import. Properties
// always carries "name"; ParentName is empty for rows that should hang off
// a utility root. Row is the 1-indexed source spreadsheet row (header =
// row 1), kept because the parser skips blank rows, so a row's position in
// the slice is not its position in the sheet.
type BulkNodeRow struct {
	Row        int            `json:"row,omitempty"`
	Type       NodeType       `json:"type"`
	Properties map[string]any `json:"properties"`
	ParentName string         `json:"parent_name,omitempty"`
}

// BulkRowError records a single failed row. Row numbers are 1-indexed to
// match the source spreadsheet, where the header is row 1.
type BulkRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// BulkImportResult is the partial-success outcome of a batch: every row is
// attempted, failures are collected, nothing aborts the batch.
type BulkImportResult struct {
	Success int            `json:"success"`
	Errors  []BulkRowError `json:"errors"`
	Total   int            `json:"total"`
}

// ProjectExport is the self-contained JSON export of one project.
type ProjectExport struct {
	Version       string            `json:"version"`
	Project       ProjectExportMeta `json:"project"`
	Nodes         []*Node           `json:"nodes"`
	Relationships []*Relationship   `json:"relationships"`
	Categories    []*Category       `json:"categories"`
	Readings      []*ExportReading  `json:"readings"`
}

type ProjectExportMeta struct {
	Name        string `json:"name"`
	UtilityType string `json:"utility_type"`
	ExportedAt  string `json:"exported_at"`
}

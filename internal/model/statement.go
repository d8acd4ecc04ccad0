package model

// StatementRequest is the upload form: which bank, which period, and the file picked.
type StatementRequest struct {
	BankName      string `json:"bankName" validate:"required"`
	Year          string `json:"year" validate:"required"`
	StatementType string `json:"statementType" validate:"required"`
	FileName      string `json:"fileName"`
	FileSize      int64  `json:"fileSize" validate:"gte=0"`
}

// FileKind drives the icon shown for an uploaded file.
type FileKind string

const (
	FileKindPDF   FileKind = "pdf"
	FileKindExcel FileKind = "excel"
	FileKindOther FileKind = "other"
)

// FileInfo describes an uploaded file for the preview panel.
type FileInfo struct {
	Name string   `json:"name"`
	Size string   `json:"size"`
	Kind FileKind `json:"kind"`
}

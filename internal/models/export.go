package models

// ExportFormat is a rendered export file type.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatCSV:
		return "text/csv"
	case ExportFormatPDF:
		return "application/pdf"
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// ExportView names the metric table being exported.
type ExportView string

const (
	ExportViewStudents ExportView = "students"
	ExportViewClasses  ExportView = "classes"
	ExportViewTeachers ExportView = "teachers"
	ExportViewProgram  ExportView = "program"
)

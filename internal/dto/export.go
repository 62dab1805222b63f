package dto

// ExportFile is a synchronously rendered download.
type ExportFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

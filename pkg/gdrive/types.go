package gdrive

// File represents a simplified Google Drive file
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime"`
}

// FileList is a single page of a files.list response
type FileList struct {
	Files []File
	// NextPageToken is set when Drive has more results than one page holds.
	NextPageToken string
}

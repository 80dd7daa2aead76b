package model

// File is a stored upload's metadata row. The blob itself lives in the
// configured filestore under NewFileName + Extension.
type File struct {
	ID          string `json:"id"`
	OldFileName string `json:"old_file_name"`
	NewFileName string `json:"new_file_name"`
	FileType    string `json:"file_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Extension   string `json:"extension"`
}

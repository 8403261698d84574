package models

// FileModel holds metadata for an uploaded artifact. The bytes themselves live
// in the object store; URL is the durable address and StorageKey the
// provider-assigned identifier (empty when the object was never stored
// remotely, e.g. legacy rows).
type FileModel struct {
	Base
	UserID     string `json:"userId"   gorm:"index;not null"`
	Name       string `json:"pdfName"  gorm:"not null"` // display name, keeps the historical JSON key
	URL        string `json:"filePath" gorm:"not null"`
	StorageKey string `json:"-"`
	Size       int64  `json:"fileSize"`
	MIME       string `json:"fileType"`
}

func (FileModel) TableName() string { return "files" }

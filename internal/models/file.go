package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

func ValidFileType(value string) bool {
	switch FileType(value) {
	case TypeFolder, TypeFile, TypeImage:
		return true
	default:
		return false
	}
}

// RootParent renders the root sentinel in API responses. Internally the root
// is the zero ObjectID so parent filters stay a single bson type.
const RootParent = "0"

type File struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Name     string             `bson:"name" json:"name"`
	Type     FileType           `bson:"type" json:"type"`
	IsPublic bool               `bson:"isPublic" json:"isPublic"`
	ParentID primitive.ObjectID `bson:"parentId" json:"parentId"`
	// LocalPath is set only for file/image entries and never serialized.
	LocalPath string `bson:"localPath,omitempty" json:"-"`
}

func (f *File) IsFolder() bool {
	return f.Type == TypeFolder
}

// FileResponse is the wire shape of an entry. The local storage path is
// deliberately absent.
type FileResponse struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId"`
	Name     string   `json:"name"`
	Type     FileType `json:"type"`
	IsPublic bool     `json:"isPublic"`
	ParentID string   `json:"parentId"`
}

func (f *File) Response() FileResponse {
	parent := RootParent
	if !f.ParentID.IsZero() {
		parent = f.ParentID.Hex()
	}
	return FileResponse{
		ID:       f.ID.Hex(),
		UserID:   f.UserID.Hex(),
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}

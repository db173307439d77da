package entity

import "strings"

// DocumentEntityType identifies which aggregate a document tree belongs to.
type DocumentEntityType string

const (
	DocumentEntityClient   DocumentEntityType = "clients"
	DocumentEntityCareHome DocumentEntityType = "care-homes"
)

// Valid reports whether the entity type is one of the two document roots.
func (t DocumentEntityType) Valid() bool {
	return t == DocumentEntityClient || t == DocumentEntityCareHome
}

// DocumentEntry is one node of the virtual file tree.
type DocumentEntry struct {
	Name         string `json:"name"`
	Type         string `json:"type"` // "file" or "dir"
	Size         int64  `json:"size"`
	RelativePath string `json:"relative_path"`
}

// ViewerKind classifies a document for the presentation layer, derived
// purely from the MIME string.
type ViewerKind string

const (
	ViewerText   ViewerKind = "text"
	ViewerImage  ViewerKind = "image"
	ViewerPDF    ViewerKind = "pdf"
	ViewerOffice ViewerKind = "office"
	ViewerBinary ViewerKind = "binary"
)

// DocumentContent is the readable form of a stored file. Office documents
// are rendered through an external online viewer using the signed URL.
type DocumentContent struct {
	Name        string     `json:"name"`
	MediaType   string     `json:"media_type"`
	Viewer      ViewerKind `json:"viewer"`
	ContentB64  string     `json:"content_base64,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	Size        int64      `json:"size"`
}

var officeMIMEs = []string{
	"application/msword",
	"application/vnd.ms-excel",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument",
	"application/vnd.oasis.opendocument",
}

// ClassifyViewer maps a MIME string onto a viewer kind.
func ClassifyViewer(mediaType string) ViewerKind {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case mt == "application/pdf":
		return ViewerPDF
	case strings.HasPrefix(mt, "image/"):
		return ViewerImage
	case strings.HasPrefix(mt, "text/"),
		mt == "application/json",
		mt == "application/xml",
		mt == "application/javascript":
		return ViewerText
	}
	for _, prefix := range officeMIMEs {
		if strings.HasPrefix(mt, prefix) {
			return ViewerOffice
		}
	}
	return ViewerBinary
}

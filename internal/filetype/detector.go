package filetype

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"github.com/local/booklet/internal/imposition"
)

// Kind is how a source document reaches the rasterizer.
type Kind int

const (
	Unsupported Kind = iota
	// PDF documents are rasterized directly.
	PDF
	// Office documents are converted to PDF with LibreOffice first.
	Office
)

func (k Kind) String() string {
	switch k {
	case PDF:
		return "pdf"
	case Office:
		return "office"
	default:
		return "unsupported"
	}
}

// Info contains detected file type information
type Info struct {
	MIMEType    string
	Extension   string
	Kind        Kind
	Description string
}

// Detector handles file type detection using magic bytes
type Detector struct{}

// New creates a new file type detector
func New() *Detector {
	return &Detector{}
}

var zipFormats = map[string]string{
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".odt":  "application/vnd.oasis.opendocument.text",
	".odp":  "application/vnd.oasis.opendocument.presentation",
	".ods":  "application/vnd.oasis.opendocument.spreadsheet",
}

var oleFormats = map[string]string{
	".doc": "application/msword",
	".ppt": "application/vnd.ms-powerpoint",
	".xls": "application/vnd.ms-excel",
}

var officeTypes = map[string]string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "Microsoft Word document",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "Microsoft PowerPoint presentation",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "Microsoft Excel spreadsheet",
	"application/msword":                              "Microsoft Word document (legacy)",
	"application/vnd.ms-powerpoint":                   "Microsoft PowerPoint presentation (legacy)",
	"application/vnd.ms-excel":                        "Microsoft Excel spreadsheet (legacy)",
	"application/vnd.oasis.opendocument.text":         "OpenDocument text",
	"application/vnd.oasis.opendocument.presentation": "OpenDocument presentation",
	"application/vnd.oasis.opendocument.spreadsheet":  "OpenDocument spreadsheet",
	"application/rtf":                                 "Rich Text Format",
}

// Detect detects the actual file type using magic bytes, not filename.
// Container formats (ZIP, OLE) are refined by extension.
func (d *Detector) Detect(filePath string) (*Info, error) {
	mtype, err := mimetype.DetectFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}

	info := &Info{MIMEType: mtype.String(), Extension: mtype.Extension()}
	ext := strings.ToLower(filepath.Ext(filePath))

	switch {
	case mtype.Is("application/zip"):
		if m, ok := zipFormats[ext]; ok {
			info.MIMEType, info.Extension = m, ext
		}
	case mtype.Is("application/x-ole-storage"):
		if m, ok := oleFormats[ext]; ok {
			info.MIMEType, info.Extension = m, ext
		}
	}
	if info.MIMEType != mtype.String() {
		log.Debug().Str("original", mtype.String()).Str("override", info.MIMEType).Msg("refined container type by extension")
	}

	d.classify(info)
	log.Debug().Str("mime", info.MIMEType).Str("kind", info.Kind.String()).Str("file", filePath).Msg("detected file type")
	return info, nil
}

func (d *Detector) classify(info *Info) {
	switch {
	case info.MIMEType == "application/pdf":
		info.Kind = PDF
		info.Description = "PDF document"
	case officeTypes[info.MIMEType] != "":
		info.Kind = Office
		info.Description = officeTypes[info.MIMEType]
	default:
		info.Kind = Unsupported
		info.Description = fmt.Sprintf("Unsupported file type: %s", info.MIMEType)
	}
}

// Require detects filePath and rejects types that cannot be imposed.
func (d *Detector) Require(filePath string) (*Info, error) {
	info, err := d.Detect(filePath)
	if err != nil {
		return nil, err
	}
	if info.Kind == Unsupported {
		return nil, &imposition.InputError{Reason: info.Description}
	}
	return info, nil
}

package immich

import "strings"

var mimeTypes = map[string]string{
	// images
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",

	// videos
	"mp4": "video/mp4",
	"mov": "video/quicktime",
	"avi": "video/x-msvideo",
	"mkv": "video/x-matroska",
	"wmv": "video/x-ms-wmv",
	"flv": "video/x-flv",
	"m4v": "video/x-m4v",
	"3gp": "video/3gpp",
}

// ContentTypeFor maps a file extension (with or without leading dot) to a
// MIME type. Unknown extensions get the generic binary type; a file is never
// rejected solely for an unrecognized type.
func ContentTypeFor(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}

package naming

import (
	"path"
	"strings"

	"github.com/backmassage/gltfastc/internal/astc"
)

// ASTCURI strips the extension of the final path element of uri and appends
// ".astc". A leading dot does not start an extension, so ".tex" becomes
// ".tex.astc".
//
//	textures/albedo.png  -> textures/albedo.astc
//	v1.2/normal          -> v1.2/normal.astc
//	tex0.astc            -> tex0.astc
func ASTCURI(uri string) string {
	return StripExt(uri) + astc.Extension
}

// StripExt removes the extension of the final path element of uri.
func StripExt(uri string) string {
	base := path.Base(uri)
	ext := path.Ext(base)
	if ext == base {
		return uri
	}
	return strings.TrimSuffix(uri, ext)
}

// IsConverted reports whether an entry already points at an ASTC 6x6 file:
// the uri has the .astc extension and the mimeType is image/astc-6x6.
func IsConverted(uri, mimeType string) bool {
	return strings.EqualFold(path.Ext(uri), astc.Extension) && mimeType == astc.MIMEType
}

package gltf

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

// URIKind classifies where an image entry's pixels live.
type URIKind int

const (
	URINone   URIKind = iota // No uri: the image lives in a bufferView.
	URIFile                  // Relative or absolute file path.
	URIData                  // Inline data: URI.
	URIRemote                // URI with a non-file scheme (http, https, …).
)

func (k URIKind) String() string {
	switch k {
	case URIFile:
		return "file"
	case URIData:
		return "data URI"
	case URIRemote:
		return "remote URI"
	default:
		return "bufferView"
	}
}

// Image is one entry of the document's images array. Only uri and mimeType
// are interpreted; all other fields are preserved.
type Image struct {
	// Index is the entry's position in the images array.
	Index int

	obj *object
}

// URI returns the entry's uri, or "" when it has none.
func (img *Image) URI() string {
	s, _, _ := img.obj.getString("uri")
	return s
}

// MIMEType returns the entry's mimeType, or "" when it has none.
func (img *Image) MIMEType() string {
	s, _, _ := img.obj.getString("mimeType")
	return s
}

// SetURI replaces the entry's uri.
func (img *Image) SetURI(uri string) { img.obj.setString("uri", uri) }

// SetMIMEType replaces (or adds) the entry's mimeType.
func (img *Image) SetMIMEType(mime string) { img.obj.setString("mimeType", mime) }

// Kind classifies the entry's uri.
func (img *Image) Kind() URIKind {
	if _, ok := img.obj.get("uri"); !ok {
		return URINone
	}
	return ClassifyURI(img.URI())
}

// Snapshot captures the entry's current fields for a later [Image.Restore].
func (img *Image) Snapshot() *Image {
	return &Image{Index: img.Index, obj: img.obj.clone()}
}

// Restore resets the entry's fields (including key order and keys added
// since) to those captured by snap.
func (img *Image) Restore(snap *Image) {
	c := snap.obj.clone()
	img.obj.keys = c.keys
	img.obj.values = c.values
}

// ClassifyURI reports whether uri names a local file, inline data, or a
// remote resource.
func ClassifyURI(uri string) URIKind {
	lower := strings.ToLower(uri)
	switch {
	case uri == "":
		return URINone
	case strings.HasPrefix(lower, "data:"):
		return URIData
	case strings.HasPrefix(lower, "file://"):
		return URIFile
	}
	// A scheme is letters followed by ':' before any '/'. Single letters are
	// Windows drive letters, not schemes.
	if i := strings.Index(uri, ":"); i > 1 && !strings.ContainsAny(uri[:i], "/\\") {
		return URIRemote
	}
	return URIFile
}

var errNotLocal = errors.New("uri does not reference a local file")

// URIToPath resolves a file uri against the directory of the document that
// references it. Percent-escapes are decoded (glTF uris are RFC 3986
// references); absolute paths and file:// uris are used as-is.
func URIToPath(docDir, uri string) (string, error) {
	if ClassifyURI(uri) != URIFile {
		return "", errNotLocal
	}
	if strings.HasPrefix(strings.ToLower(uri), "file://") {
		u, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.FromSlash(u.Path), nil
	}
	p, err := url.PathUnescape(uri)
	if err != nil {
		return "", err
	}
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return p, nil
	}
	return filepath.Join(docDir, p), nil
}

package pipeline

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/backmassage/gltfastc/internal/astc"
	"github.com/backmassage/gltfastc/internal/gltf"
	"github.com/backmassage/gltfastc/internal/naming"
)

// entryAction is the decision for one image entry.
type entryAction int

const (
	actionConvert entryAction = iota
	actionReuse               // Same source as an earlier entry; copy its result.
	actionSkip                // Nothing to do (embedded, remote, or already converted).
	actionFixMIME             // uri already names a valid 6x6 .astc file; only mimeType is stale.
)

// entryPlan holds everything needed to process one image entry.
type entryPlan struct {
	img    *gltf.Image
	action entryAction
	reason string // Skip reason for the log.
	quiet  bool   // Skip is routine (already converted); log at debug level.

	srcURI string
	dstURI string

	// Encoder arguments: relative to the document directory unless the
	// uri itself is absolute.
	srcArg string
	dstArg string

	// Filesystem paths used for probing, verification, and deletion.
	srcPath string
	dstPath string

	owner int // For actionReuse: index of the entry that converts the source.
}

// buildPlans decides, in document order, what to do with every image entry.
// Output names are resolved here (sequentially) so collision suffixes do not
// depend on encode scheduling.
func buildPlans(images []*gltf.Image, docDir string) []*entryPlan {
	resolver := naming.NewCollisionResolver(func(uri string) string {
		return outputKey(docDir, uri)
	})
	owners := make(map[string]int) // srcPath → index of converting entry
	plans := make([]*entryPlan, len(images))

	// Entries that already point at .astc files claim their names first so
	// no conversion overwrites them, whatever their position.
	for _, img := range images {
		uri := img.URI()
		if img.Kind() != gltf.URIFile || !strings.EqualFold(path.Ext(uri), astc.Extension) {
			continue
		}
		if p, err := gltf.URIToPath(docDir, uri); err == nil {
			resolver.Claim(p, uri)
		}
	}

	for i, img := range images {
		p := &entryPlan{img: img, srcURI: img.URI()}
		plans[i] = p

		switch kind := img.Kind(); kind {
		case gltf.URINone, gltf.URIData, gltf.URIRemote:
			p.action = actionSkip
			p.reason = "embedded or remote image (" + kind.String() + ")"
			continue
		}

		srcPath, err := gltf.URIToPath(docDir, p.srcURI)
		if err != nil {
			p.action = actionSkip
			p.reason = "invalid uri: " + err.Error()
			continue
		}
		p.srcPath = srcPath
		p.srcArg = encoderArg(p.srcURI, srcPath)

		if strings.EqualFold(path.Ext(p.srcURI), astc.Extension) {
			p.dstURI, p.dstPath = p.srcURI, srcPath
			if naming.IsConverted(p.srcURI, img.MIMEType()) {
				p.action = actionSkip
				p.reason = "already converted"
				p.quiet = true
			} else {
				p.action = actionFixMIME
			}
			continue
		}

		// Different uris can name one file ("a.png", "./a.png"); the
		// first entry converts it and the rest share its output.
		if owner, ok := owners[srcPath]; ok {
			p.action = actionReuse
			p.owner = owner
			p.dstURI, p.dstPath, p.dstArg = plans[owner].dstURI, plans[owner].dstPath, plans[owner].dstArg
			continue
		}

		dstURI, _ := resolver.Resolve(srcPath, naming.ASTCURI(p.srcURI))
		p.dstURI = dstURI
		// dstURI differs from srcURI only in its last element, so it
		// resolves whenever srcURI did.
		p.dstPath, _ = gltf.URIToPath(docDir, dstURI)
		p.dstArg = encoderArg(dstURI, p.dstPath)
		owners[srcPath] = i
		p.action = actionConvert
	}
	return plans
}

// outputKey identifies the file an output uri names, so different spellings
// of one path collide. Case is folded on platforms whose default
// filesystems are case-insensitive.
func outputKey(docDir, uri string) string {
	p, err := gltf.URIToPath(docDir, uri)
	if err != nil {
		return uri
	}
	if caseInsensitiveFS {
		p = strings.ToLower(p)
	}
	return p
}

var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// encoderArg returns the path handed to the encoder for uri: the decoded
// relative path when uri is relative (the encoder runs in the document
// directory), otherwise the resolved absolute path.
func encoderArg(uri, resolved string) string {
	if strings.HasPrefix(strings.ToLower(uri), "file://") {
		return resolved
	}
	p, err := url.PathUnescape(uri)
	if err != nil {
		return resolved
	}
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return resolved
	}
	return p
}

// fileSize returns the size of path, or 0 when it cannot be stat'ed.
func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

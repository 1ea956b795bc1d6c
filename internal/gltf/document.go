// Package gltf loads, edits, and writes back the JSON form of a glTF 2.0
// document. Only the images array is interpreted; every other key and value
// passes through unchanged and in its original order.
package gltf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Indent is the indentation used when the document is written back.
const Indent = "    "

// DocumentFormatError reports a document that could not be interpreted:
// malformed JSON or an images array of the wrong shape.
type DocumentFormatError struct {
	Path string
	Err  error
}

func (e *DocumentFormatError) Error() string {
	if e.Path == "" {
		return "invalid glTF document: " + e.Err.Error()
	}
	return fmt.Sprintf("invalid glTF document %s: %v", e.Path, e.Err)
}

func (e *DocumentFormatError) Unwrap() error { return e.Err }

// Document is an in-memory glTF document. It is loaded once, its image
// entries are mutated in place, and it is serialized once.
type Document struct {
	root      *object
	images    []*Image
	hasImages bool
}

// Load reads and parses the document at path. Any parse failure is returned
// as a *DocumentFormatError; I/O failures are returned as-is.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		var fe *DocumentFormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse decodes a document from its JSON bytes.
func Parse(data []byte) (*Document, error) {
	root := newObject()
	if err := json.Unmarshal(data, root); err != nil {
		return nil, &DocumentFormatError{Err: err}
	}

	doc := &Document{root: root}
	raw, ok := root.get("images")
	if !ok {
		return doc, nil
	}
	doc.hasImages = true

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &DocumentFormatError{Err: errors.New(`"images" is not an array`)}
	}
	for i, e := range entries {
		obj := newObject()
		if err := json.Unmarshal(e, obj); err != nil {
			return nil, &DocumentFormatError{Err: fmt.Errorf("images[%d]: %w", i, err)}
		}
		img := &Image{Index: i, obj: obj}
		if _, _, err := obj.getString("uri"); err != nil {
			return nil, &DocumentFormatError{Err: fmt.Errorf("images[%d]: %w", i, err)}
		}
		doc.images = append(doc.images, img)
	}
	return doc, nil
}

// Images returns the image entries in document order. A document without an
// images key has none.
func (d *Document) Images() []*Image {
	return d.images
}

// Marshal serializes the document with [Indent] and a trailing newline.
func (d *Document) Marshal() ([]byte, error) {
	if d.hasImages && len(d.images) > 0 {
		list := make([]*object, len(d.images))
		for i, img := range d.images {
			list[i] = img.obj
		}
		raw, err := marshalNoEscape(list)
		if err != nil {
			return nil, err
		}
		d.root.set("images", raw)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(d.root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save overwrites path with the serialized document, keeping the existing
// file mode.
func (d *Document) Save(path string) (err error) {
	data, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	mode := os.FileMode(0o644)
	if fi, statErr := os.Stat(path); statErr == nil {
		mode = fi.Mode().Perm()
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

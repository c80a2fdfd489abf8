package fedora2

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

// METSNamespace is the namespace of METS elements.
const METSNamespace = "http://www.loc.gov/METS/"

// node is a generic XML element.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []node     `xml:",any"`
}

// is reports whether n is the METS element local.
func (n *node) is(local string) bool {
	return n.XMLName.Space == METSNamespace && n.XMLName.Local == local
}

// attr returns the attribute with the given local name in any namespace.
func (n *node) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// child returns the first METS child element local whose attribute key
// equals value. An empty key matches any element local.
func (n *node) child(local, key, value string) *node {
	for i := range n.Children {
		c := &n.Children[i]
		if !c.is(local) {
			continue
		}
		if key == "" {
			return c
		}
		if v, ok := c.attr(key); ok && v == value {
			return c
		}
	}
	return nil
}

// walk calls fn for n and every descendant in document order.
func (n *node) walk(fn func(*node)) {
	fn(n)
	for i := range n.Children {
		n.Children[i].walk(fn)
	}
}

// structMap is the parts of a METS document describing a work's images.
type structMap struct {
	root *node
}

// parseMETS decodes a METS document.
func parseMETS(data []byte) (*structMap, error) {
	var root node
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse METS: %w", err)
	}
	if !root.is("mets") {
		return nil, fmt.Errorf("failed to parse METS: root element is %s", root.XMLName.Local)
	}
	return &structMap{root: &root}, nil
}

// imageEntry is one child of the logical "images" division.
type imageEntry struct {
	// Label is the explicit LABEL attribute; HasLabel is false when absent.
	Label    string
	HasLabel bool

	// Order is the ORDER attribute.
	Order string

	// FileIDs are the display files of the entry, in document order.
	FileIDs []string
}

// images returns the children of
//
//	mets/structMap[@TYPE="LOGICAL"]/div[@ID="images"]
//
// in document order. FileIDs are collected from every descendant
// div[@ID="DISPLAY"]/fptr.
func (m *structMap) images() []imageEntry {
	logical := m.root.child("structMap", "TYPE", "LOGICAL")
	if logical == nil {
		return nil
	}
	div := logical.child("div", "ID", "images")
	if div == nil {
		return nil
	}

	entries := make([]imageEntry, 0, len(div.Children))
	for i := range div.Children {
		c := &div.Children[i]

		var e imageEntry
		e.Label, e.HasLabel = c.attr("LABEL")
		e.Order, _ = c.attr("ORDER")

		collect := func(n *node) {
			if !n.is("div") {
				return
			}
			if id, _ := n.attr("ID"); id != "DISPLAY" {
				return
			}
			for j := range n.Children {
				fptr := &n.Children[j]
				if !fptr.is("fptr") {
					continue
				}
				if fileID, ok := fptr.attr("FILEID"); ok {
					e.FileIDs = append(e.FileIDs, fileID)
				}
			}
		}
		for k := range c.Children {
			c.Children[k].walk(collect)
		}

		entries = append(entries, e)
	}
	return entries
}

// location returns the href of the FLocat of
//
//	mets/fileSec/fileGrp/file[@ID=fileID]/FLocat
//
// which names the PID of the file's image object.
func (m *structMap) location(fileID string) (string, bool) {
	for i := range m.root.Children {
		fileSec := &m.root.Children[i]
		if !fileSec.is("fileSec") {
			continue
		}
		for j := range fileSec.Children {
			grp := &fileSec.Children[j]
			if !grp.is("fileGrp") {
				continue
			}
			file := grp.child("file", "ID", fileID)
			if file == nil {
				continue
			}
			if flocat := file.child("FLocat", "", ""); flocat != nil {
				if href, ok := flocat.attr("href"); ok {
					return href, true
				}
			}
		}
	}
	return "", false
}

// digits matches a page order attribute.
var digits = regexp.MustCompile(`^\d+$`)

// pageLabel returns the label of the entry at zero-based position: its
// LABEL, else "Page <ORDER>" for a numeric ORDER, else "Page <position+1>".
func pageLabel(e imageEntry, position int) string {
	if e.HasLabel {
		return e.Label
	}
	if order := strings.TrimSpace(e.Order); digits.MatchString(order) {
		return "Page " + order
	}
	return fmt.Sprintf("Page %d", position+1)
}

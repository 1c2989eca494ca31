package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakoblorz/go-expressgen/internal/filesystem"
	"github.com/jakoblorz/go-expressgen/internal/models"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// FileName is the package manifest written by the package manager
const FileName = "package.json"

var prettyOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// Op sets one key of the manifest.
// Key is a path of segments, e.g. ["scripts", "docker:build"].
type Op struct {
	Key      []string
	Value    interface{}
	IfAbsent bool
}

// Path returns the dotted form of the key, for display
func (o Op) Path() string {
	return strings.Join(o.Key, ".")
}

// Patch is an ordered list of key merges applied in a single write
type Patch struct {
	ops []Op
}

// NewPatch creates an empty Patch
func NewPatch() *Patch {
	return &Patch{}
}

// Set queues key = value, overwriting any existing value
func (p *Patch) Set(value interface{}, key ...string) *Patch {
	p.ops = append(p.ops, Op{Key: key, Value: value})
	return p
}

// SetIfAbsent queues key = value unless the manifest already has the key
func (p *Patch) SetIfAbsent(value interface{}, key ...string) *Patch {
	p.ops = append(p.ops, Op{Key: key, Value: value, IfAbsent: true})
	return p
}

// Ops returns the queued operations in order
func (p *Patch) Ops() []Op {
	return p.ops
}

// Len returns the number of queued operations
func (p *Patch) Len() int {
	return len(p.ops)
}

// Apply merges the patch into doc and returns the document indented with two spaces.
// Keys not named by the patch keep their values and order.
func (p *Patch) Apply(doc []byte) ([]byte, error) {
	if !gjson.ValidBytes(doc) {
		return nil, errors.New("document is not valid JSON")
	}
	if root := gjson.ParseBytes(doc); !root.IsObject() {
		return nil, errors.New("document is not a JSON object")
	}

	out := doc
	for _, op := range p.ops {
		path := escapePath(op.Key)
		if op.IfAbsent && gjson.GetBytes(out, path).Exists() {
			continue
		}

		var err error
		out, err = sjson.SetBytes(out, path, op.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", op.Path(), err)
		}
	}

	return pretty.PrettyOptions(out, prettyOptions), nil
}

// ApplyFile reads the manifest at path, applies the patch and rewrites it.
// A document that is not valid JSON yields *models.ManifestParseError.
func (p *Patch) ApplyFile(gw *filesystem.Gateway, path string) error {
	content, err := gw.ReadFile(path)
	if err != nil {
		return err
	}

	patched, err := p.Apply([]byte(content))
	if err != nil {
		return &models.ManifestParseError{Path: path, Err: err}
	}

	return gw.WriteFile(path, string(patched))
}

// escapePath joins key segments into a gjson/sjson path, escaping characters
// that carry meaning in the path syntax.
func escapePath(key []string) string {
	parts := make([]string, len(key))
	for i, segment := range key {
		var b strings.Builder
		for _, r := range segment {
			switch r {
			case '.', '*', '?', '@', '|', '#', '\\', '!', '=', '<', '>', '%', ':':
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ".")
}

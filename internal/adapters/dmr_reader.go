package adapters

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"golang.org/x/text/encoding/ianaindex"

	"granule-varinfo/internal/ports"
	"granule-varinfo/internal/shared"
	"granule-varinfo/internal/types"
)

const (
	dmrDatasetTag   = "Dataset"
	dmrGroupTag     = "Group"
	dmrAttributeTag = "Attribute"
	dmrValueTag     = "Value"
	dmrDimTag       = "Dim"
	dmrGlobalName   = "HDF5_GLOBAL"
	dmrContainer    = "container"
)

// dap4VariableTypes are the DAP4 element names that declare a variable.
var dap4VariableTypes = map[string]struct{}{
	"Byte": {}, "Char": {}, "Int8": {}, "UInt8": {}, "Int16": {}, "UInt16": {},
	"Int32": {}, "UInt32": {}, "Int64": {}, "UInt64": {}, "Float32": {},
	"Float64": {}, "String": {}, "URL": {},
}

// DMRReaderAdapter reads OPeNDAP DMR documents. Parsed granules are cached
// by path and invalidated when the file modification time changes.
type DMRReaderAdapter struct {
	mu    sync.Mutex
	cache map[string]dmrCacheEntry
}

func NewDMRReaderAdapter() *DMRReaderAdapter {
	return &DMRReaderAdapter{cache: map[string]dmrCacheEntry{}}
}

type dmrCacheEntry struct {
	modTime time.Time
	granule types.GranuleDescription
}

// dmrElement is a namespace-free view of one XML element.
type dmrElement struct {
	tag      string
	space    string
	attrs    map[string]string
	children []*dmrElement
	text     strings.Builder
}

func (e *dmrElement) attr(name string) string { return e.attrs[name] }

func (e *dmrElement) childrenByTag(tag string) []*dmrElement {
	var out []*dmrElement
	for _, child := range e.children {
		if child.tag == tag {
			out = append(out, child)
		}
	}
	return out
}

func (a *DMRReaderAdapter) ReadGranule(ctx context.Context, path string) (types.GranuleDescription, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.GranuleDescription{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read dmr %s", path)).
			WithCause(err)
	}

	a.mu.Lock()
	if entry, ok := a.cache[path]; ok && entry.modTime.Equal(info.ModTime()) {
		a.mu.Unlock()
		log.Ctx(ctx).Debug().Str("path", path).Msg("dmr served from cache")
		return entry.granule, nil
	}
	a.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return types.GranuleDescription{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read dmr %s", path)).
			WithCause(err)
	}
	granule, err := ParseDMR(data)
	if err != nil {
		return types.GranuleDescription{}, err
	}

	a.mu.Lock()
	a.cache[path] = dmrCacheEntry{modTime: info.ModTime(), granule: granule}
	a.mu.Unlock()

	log.Ctx(ctx).Debug().
		Str("path", path).
		Int("variables", len(granule.Variables)).
		Msg("dmr parsed")
	return granule, nil
}

// ParseDMR converts a DMR document into a granule description.
func ParseDMR(data []byte) (types.GranuleDescription, error) {
	root, err := decodeDMR(data)
	if err != nil {
		return types.GranuleDescription{}, err
	}
	if root.tag != dmrDatasetTag {
		return types.GranuleDescription{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("dmr root element is %s, expected %s", root.tag, dmrDatasetTag))
	}

	globals, err := dmrGlobalAttributes(root)
	if err != nil {
		return types.GranuleDescription{}, err
	}
	granule := types.GranuleDescription{
		Format:           types.GranuleFormatDMR,
		Namespace:        root.space,
		GlobalAttributes: globals,
	}
	err = shared.WalkGroups(root, dmrGroups, func(group *dmrElement, groupPath string) error {
		for _, child := range group.children {
			if _, ok := dap4VariableTypes[child.tag]; !ok {
				continue
			}
			name := strings.TrimSpace(child.attr("name"))
			if name == "" {
				log.Warn().Str("group", groupPath).Str("type", child.tag).Msg("skipping unnamed dmr variable")
				continue
			}
			granule.Variables = append(granule.Variables, dmrVariable(child, groupPath+"/"+name))
		}
		return nil
	})
	if err != nil {
		return types.GranuleDescription{}, err
	}
	return granule, nil
}

func decodeDMR(data []byte) (*dmrElement, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = dmrCharsetReader
	var stack []*dmrElement
	var root *dmrElement
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to parse dmr xml").
				WithCause(err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			element := &dmrElement{tag: tok.Name.Local, space: tok.Name.Space, attrs: map[string]string{}}
			for _, attr := range tok.Attr {
				element.attrs[attr.Name.Local] = attr.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errbuilder.New().
						WithCode(errbuilder.CodeInvalidArgument).
						WithMsg("dmr has more than one root element")
				}
				root = element
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, element)
			}
			stack = append(stack, element)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(tok)
			}
		}
	}
	if root == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dmr document is empty")
	}
	return root, nil
}

// dmrCharsetReader decodes documents declared in a non UTF-8 encoding,
// usually ISO-8859-1 for DMRs served by Hyrax.
func dmrCharsetReader(label string, input io.Reader) (io.Reader, error) {
	encoding, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if encoding == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return encoding.NewDecoder().Reader(input), nil
}

func dmrGroups(element *dmrElement) ([]shared.NamedGroup[*dmrElement], error) {
	var groups []shared.NamedGroup[*dmrElement]
	for _, child := range element.childrenByTag(dmrGroupTag) {
		name := strings.TrimSpace(child.attr("name"))
		if name == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("dmr group without a name")
		}
		groups = append(groups, shared.NamedGroup[*dmrElement]{Name: name, Node: child})
	}
	return groups, nil
}

func dmrVariable(element *dmrElement, path string) types.RawVariable {
	variable := types.RawVariable{
		Path:       path,
		DataType:   strings.ToLower(element.tag),
		Attributes: dmrAttributes(element),
	}
	for _, dim := range element.childrenByTag(dmrDimTag) {
		if name := strings.TrimSpace(dim.attr("name")); name != "" {
			variable.Dimensions = append(variable.Dimensions, name)
		}
	}
	return variable
}

// dmrGlobalAttributes prefers the HDF5_GLOBAL container. Without it the
// root attributes are used, with group attributes nested by group path.
func dmrGlobalAttributes(root *dmrElement) (map[string]any, error) {
	for _, attribute := range root.childrenByTag(dmrAttributeTag) {
		if attribute.attr("name") == dmrGlobalName {
			return dmrAttributes(attribute), nil
		}
	}

	globals := map[string]any{}
	err := shared.WalkGroups(root, dmrGroups, func(group *dmrElement, groupPath string) error {
		target := globals
		for _, key := range shared.SplitAttributePath(groupPath) {
			nested, ok := target[key].(map[string]any)
			if !ok {
				nested = map[string]any{}
				target[key] = nested
			}
			target = nested
		}
		for name, value := range dmrAttributes(group) {
			target[name] = value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return globals, nil
}

// dmrAttributes reads the direct Attribute children of an element.
// Containers become nested maps and attributes without a value are left
// out.
func dmrAttributes(element *dmrElement) map[string]any {
	attributes := map[string]any{}
	for _, attribute := range element.childrenByTag(dmrAttributeTag) {
		name := attribute.attr("name")
		if name == "" {
			continue
		}
		if strings.EqualFold(attribute.attr("type"), dmrContainer) {
			attributes[name] = dmrAttributes(attribute)
			continue
		}
		values := attribute.childrenByTag(dmrValueTag)
		switch len(values) {
		case 0:
			continue
		case 1:
			attributes[name] = castDAP4(attribute.attr("type"), values[0].text.String())
		default:
			list := make([]any, 0, len(values))
			for _, value := range values {
				list = append(list, castDAP4(attribute.attr("type"), value.text.String()))
			}
			attributes[name] = list
		}
	}
	return attributes
}

// castDAP4 converts a DAP4 attribute value to a Go value. Unknown types
// and values that do not parse are kept as strings.
func castDAP4(dap4Type string, raw string) any {
	value := strings.TrimSpace(raw)
	switch dap4Type {
	case "Int8", "Int16", "Int32", "Int64":
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	case "Byte", "UInt8", "UInt16", "UInt32", "UInt64":
		if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
			return parsed
		}
	case "Float32", "Float64":
		if parsed, err := cast.ToFloat64E(value); err == nil {
			return parsed
		}
	}
	return value
}

var _ ports.GranuleReaderPort = (*DMRReaderAdapter)(nil)

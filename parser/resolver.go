package parser

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/internal/pathutil"
	"github.com/erraggy/apimfix/oaserrors"
)

const (
	// DefaultMaxRefDepth is the default maximum nesting of reference expansions
	DefaultMaxRefDepth = 100
	// DefaultMaxCachedDocuments is the default maximum number of external documents to cache
	DefaultMaxCachedDocuments = 100
	// DefaultMaxFileSize is the default maximum size of a fetched document (10MB)
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// RefResolver bundles a document by inlining every external $ref.
//
// Same-document references ("#/...") in the root document are left exactly
// as written. Same-document references found inside an external document
// point into that document, so they are inlined as well. An external
// reference that resolves back to the root document is rewritten to the
// equivalent same-document reference.
type RefResolver struct {
	// Fetch retrieves external documents. Required.
	Fetch Fetcher
	// Logger receives debug output. Nil means no logging.
	Logger Logger
	// MaxRefDepth is the maximum nesting of reference expansions (0 means DefaultMaxRefDepth)
	MaxRefDepth int
	// MaxCachedDocuments is the maximum number of external documents (0 means DefaultMaxCachedDocuments)
	MaxCachedDocuments int
	// MaxFileSize is the maximum size of a fetched document in bytes (0 means DefaultMaxFileSize)
	MaxFileSize int64

	rootLocation string
	root         *yaml.Node
	documents    map[string]*yaml.Node
	// expanding holds the references on the current expansion path.
	expanding map[string]bool
	stats     BundleStats
}

// BundleStats summarizes a bundling run.
type BundleStats struct {
	// ExternalRefs is the number of external references inlined
	ExternalRefs int
	// InternalRefs is the number of same-document references inlined from external documents
	InternalRefs int
	// PreservedRefs is the number of same-document references left in place
	PreservedRefs int
	// RewrittenRefs is the number of external references that pointed back at the root
	RewrittenRefs int
	// Documents is the number of external documents fetched
	Documents int
}

// NewRefResolver creates a resolver for the document stored at rootLocation.
// rootLocation may be a URL, a file path, or empty when the document has no
// location (relative references then resolve against the working directory).
func NewRefResolver(rootLocation string, fetch Fetcher) *RefResolver {
	return &RefResolver{
		Fetch:        fetch,
		rootLocation: rootLocation,
		documents:    make(map[string]*yaml.Node),
		expanding:    make(map[string]bool),
	}
}

// Stats returns statistics about the last Bundle call.
func (r *RefResolver) Stats() BundleStats {
	return r.stats
}

func (r *RefResolver) log() Logger {
	if r.Logger == nil {
		return NopLogger{}
	}
	return r.Logger
}

func (r *RefResolver) maxRefDepth() int {
	if r.MaxRefDepth > 0 {
		return r.MaxRefDepth
	}
	return DefaultMaxRefDepth
}

func (r *RefResolver) maxCachedDocuments() int {
	if r.MaxCachedDocuments > 0 {
		return r.MaxCachedDocuments
	}
	return DefaultMaxCachedDocuments
}

func (r *RefResolver) maxFileSize() int64 {
	if r.MaxFileSize > 0 {
		return r.MaxFileSize
	}
	return DefaultMaxFileSize
}

// Bundle returns a copy of root with every external reference replaced by
// the content it points to. root itself is not modified.
func (r *RefResolver) Bundle(root *yaml.Node) (*yaml.Node, error) {
	if r.Fetch == nil {
		return nil, &oaserrors.ConfigError{Option: "fetcher", Message: "no fetcher configured"}
	}
	r.stats = BundleStats{}
	if r.documents == nil {
		r.documents = make(map[string]*yaml.Node)
	}
	r.expanding = make(map[string]bool)

	original := Resolve(root)
	r.root = original
	resolved, err := r.expand(DeepCopy(original), original, r.rootLocation, 0)
	if err != nil {
		return nil, err
	}
	r.stats.Documents = len(r.documents)
	r.log().Debug("bundled document",
		"external", r.stats.ExternalRefs,
		"internal", r.stats.InternalRefs,
		"preserved", r.stats.PreservedRefs,
		"rewritten", r.stats.RewrittenRefs,
		"documents", r.stats.Documents)
	return RestoreLocalRefs(resolved, original), nil
}

// expand replaces reference nodes below n. doc and base identify the
// document n belongs to; depth counts nested reference expansions.
func (r *RefResolver) expand(n, doc *yaml.Node, base string, depth int) (*yaml.Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return r.expand(DeepCopy(n.Alias), doc, base, depth)

	case yaml.SequenceNode:
		for i, child := range n.Content {
			expanded, err := r.expand(child, doc, base, depth)
			if err != nil {
				return nil, err
			}
			n.Content[i] = expanded
		}
		return n, nil

	case yaml.MappingNode:
		if ref, ok := RefValue(n); ok {
			return r.expandRef(n, ref, doc, base, depth)
		}
		for i := 1; i < len(n.Content); i += 2 {
			expanded, err := r.expand(n.Content[i], doc, base, depth)
			if err != nil {
				return nil, err
			}
			n.Content[i] = expanded
		}
		return n, nil

	default:
		return n, nil
	}
}

func (r *RefResolver) expandRef(n *yaml.Node, ref string, doc *yaml.Node, base string, depth int) (*yaml.Node, error) {
	if pathutil.IsLocalRef(ref) && base == r.rootLocation {
		r.stats.PreservedRefs++
		return n, nil
	}

	location, fragment := pathutil.SplitRef(ref)
	target := doc
	refType := "local"
	if location != "" {
		abs, err := resolveLocation(base, location)
		if err != nil {
			return nil, &oaserrors.ReferenceError{Ref: ref, RefType: refTypeOf(location), Message: "invalid location", Cause: err}
		}
		if abs == r.rootLocation {
			local, err := r.rootFragment(ref, fragment)
			if err != nil {
				return nil, err
			}
			r.stats.RewrittenRefs++
			r.log().Debug("rewriting reference to root document", "ref", ref, "pointer", "#"+local)
			return NewMapping(pathutil.RefKey, "#"+local), nil
		}
		location = abs
		refType = refTypeOf(abs)
		target, err = r.load(abs)
		if err != nil {
			return nil, &oaserrors.ReferenceError{Ref: ref, RefType: refType, Message: "failed to load " + abs, Cause: err}
		}
	} else {
		location = base
	}

	if depth >= r.maxRefDepth() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(r.maxRefDepth()),
			Actual:       int64(depth + 1),
			Message:      "reference " + ref + " nested too deeply",
		}
	}

	key := location + "#" + fragment
	if r.expanding[key] {
		return nil, &oaserrors.ReferenceError{Ref: ref, RefType: refType, IsCircular: true, Message: "expands into itself via " + key}
	}

	node, err := ResolvePointer(target, fragment)
	if err != nil {
		return nil, &oaserrors.ReferenceError{Ref: ref, RefType: refType, Message: "target not found in " + displayLocation(location), Cause: err}
	}

	r.expanding[key] = true
	defer delete(r.expanding, key)

	if refType == "local" {
		r.stats.InternalRefs++
	} else {
		r.stats.ExternalRefs++
	}
	r.log().Debug("inlining reference", "ref", ref, "location", location, "depth", depth+1)
	return r.expand(DeepCopy(node), target, location, depth+1)
}

// rootFragment returns the same-document pointer equivalent to fragment in
// the root. Same-document references in the root are kept as written, so a
// pointer that walks through one is redirected to that reference's target.
// Walking into an external reference needs no change: it is inlined in place.
func (r *RefResolver) rootFragment(ref, fragment string) (string, error) {
	tokens, err := pathutil.PointerTokens(fragment)
	if err != nil {
		return "", &oaserrors.ReferenceError{Ref: ref, RefType: "local", Message: "invalid JSON pointer", Cause: err}
	}

	redirected := false
	for hops := 0; ; hops++ {
		if hops > r.maxRefDepth() {
			return "", &oaserrors.ReferenceError{Ref: ref, RefType: "local", IsCircular: true, Message: "pointer loops through same-document references"}
		}
		next, done, err := r.redirect(ref, tokens)
		if err != nil {
			return "", err
		}
		if done {
			break
		}
		tokens = next
		redirected = true
	}
	if !redirected {
		return fragment, nil
	}
	if len(tokens) == 0 {
		return "", nil
	}
	escaped := make([]string, len(tokens))
	for i, tok := range tokens {
		escaped[i] = pathutil.EscapePointerToken(tok)
	}
	return "/" + strings.Join(escaped, "/"), nil
}

// redirect walks tokens through the root. When an intermediate node is a
// reference into the root, it returns the pointer rebased onto that
// reference's target; done reports that no rebasing was needed.
func (r *RefResolver) redirect(ref string, tokens []string) (next []string, done bool, err error) {
	current := r.root
	for i, tok := range tokens {
		if target, ok := RefValue(Resolve(current)); ok {
			location, fragment := pathutil.SplitRef(target)
			if location != "" {
				abs, locErr := resolveLocation(r.rootLocation, location)
				if locErr != nil || abs != r.rootLocation {
					return nil, true, nil
				}
			}
			head, ptrErr := pathutil.PointerTokens(fragment)
			if ptrErr != nil {
				return nil, false, &oaserrors.ReferenceError{Ref: target, RefType: "local", Message: "invalid JSON pointer", Cause: ptrErr}
			}
			return append(head, tokens[i:]...), false, nil
		}
		current = childAt(current, tok)
		if current == nil {
			return nil, false, &oaserrors.ReferenceError{
				Ref:     ref,
				RefType: "local",
				Message: fmt.Sprintf("path segment %q not found in root document at position %d", tok, i),
			}
		}
	}
	return nil, true, nil
}

// load fetches and parses the document at an absolute location, caching it
// for the rest of the run.
func (r *RefResolver) load(location string) (*yaml.Node, error) {
	if doc, ok := r.documents[location]; ok {
		return doc, nil
	}
	if len(r.documents) >= r.maxCachedDocuments() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        int64(r.maxCachedDocuments()),
			Actual:       int64(len(r.documents) + 1),
		}
	}

	r.log().Debug("fetching external document", "location", location)
	data, err := r.Fetch(location)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.maxFileSize() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        r.maxFileSize(),
			Actual:       int64(len(data)),
			Message:      location,
		}
	}
	doc, _, err := decodeNode(data, location)
	if err != nil {
		return nil, err
	}
	r.documents[location] = doc
	return doc, nil
}

func refTypeOf(location string) string {
	if isURL(location) {
		return "http"
	}
	return "file"
}

func displayLocation(location string) string {
	if location == "" {
		return "root document"
	}
	return fmt.Sprintf("%q", location)
}

// Package pathutil provides path helpers for walking document trees.
//
// [PathBuilder] builds dot/bracket paths ("components.schemas.Pet.oneOf[0]")
// incrementally with push/pop semantics, so recursive walkers only pay for
// the string when they actually report something:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("properties")
//	path.PushIndex(0)
//	// ... recurse ...
//	path.Pop()
//	path.Pop()
//
// The JSON Pointer helpers split "$ref" values into a document location and
// a fragment and decode pointer tokens per RFC 6901:
//
//	loc, frag := pathutil.SplitRef("other.json#/components/schemas/Pet")
//	tokens, err := pathutil.PointerTokens(frag) // ["components", "schemas", "Pet"]
//
// [SanitizeOutputPath] cleans output file paths and rejects symlinks.
package pathutil

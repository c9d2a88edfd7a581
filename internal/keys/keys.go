// Package keys owns storage-key composition. Both addressing modes live in
// one physical keyspace, isolated by a namespace and a mode tag:
//
//	<ns>:k:<key>         flat entries
//	<ns>:h:<collection>  hash collections
//
// Flat stores without native hashes additionally join (collection, member)
// with Sep. Sep is the ASCII unit separator; components containing it are
// rejected at the driver boundary, so the composition is always reversible.
package keys

import "strings"

// Sep joins collection and member key when a flat store emulates
// hash-scoped addressing.
const Sep = "\x1f"

// Flat returns the storage key for a flat entry.
func Flat(ns, key string) string { return ns + ":k:" + key }

// Collection returns the storage key of a hash collection.
func Collection(ns, collection string) string { return ns + ":h:" + collection }

// Prefix returns the namespace prefix covering every key this driver
// instance may have written (both modes).
func Prefix(ns string) string { return ns + ":" }

// Join composes a collection storage key and a member key into one flat key.
func Join(collection, member string) string { return collection + Sep + member }

// Split reverses Join. ok is false if composed was not produced by Join.
func Split(composed string) (collection, member string, ok bool) {
	return strings.Cut(composed, Sep)
}

// Valid reports whether a user-supplied component may take part in hash
// composition.
func Valid(component string) bool {
	return component != "" && !strings.Contains(component, Sep)
}

// ValidNamespace reports whether ns may scope a driver. Namespaces must not
// contain ":" - otherwise Prefix("app") would also cover namespace "app:eu"
// and Clear on one driver could delete a sibling's data. Sep is excluded for
// the same reason it is in hash components.
func ValidNamespace(ns string) bool {
	return ns != "" && !strings.ContainsAny(ns, ":"+Sep)
}

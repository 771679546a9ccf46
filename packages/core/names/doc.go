// Package names canonicalizes test identifiers and resolves the references
// tests pass to Context.Requires.
//
// A key has the form [namespace\]Class::method for group members and
// [namespace\]function for free functions. Resolution is relative to the
// caller: its own class and namespace are searched before the global
// namespace, and a leading backslash anchors a reference to the global
// namespace.
package names

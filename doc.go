// Package langident implements byte-level n-gram language
// identification against a packed, multi-language trie loaded from a
// single model file.
package langident

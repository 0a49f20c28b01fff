// Package prompt drives a setup run with line-oriented huh forms. It is
// used when no terminal is attached or when an accessible interface is
// requested.
package prompt

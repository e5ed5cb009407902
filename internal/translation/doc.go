// Package translation defines the boundary between the application core and
// the external language-analysis service. It contains the Translator
// interface and the sentinel errors implementations report through, keeping
// the core independent of any concrete LLM client.
package translation

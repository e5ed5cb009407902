// Package domain contains the core business entities and value objects of
// the application: translations, their senses, and the validation and
// sanitization rules they carry. It is independent of any specific
// infrastructure or delivery mechanism.
package domain

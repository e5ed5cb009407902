// Package bot contains the orchestration core: it validates inbound
// requests, drives the translator, caches results behind short correlation
// tokens so they fit Telegram's callback-data limit, and materializes cached
// translations as Anki cards through scoped sync sessions. Transport and
// external services are reached only through the Messenger, Translator and
// SessionFactory boundaries, keeping the package fully testable with fakes.
package bot

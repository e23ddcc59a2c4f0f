// Package logging configures zerolog for spritebatch and carries loggers and
// run IDs through context.Context.
//
// Every command builds one root logger from configuration, tags it with a
// ULID run ID, and stores it in the command context. Packages retrieve it with
// FromContext and add a component field with ComponentLogger.
package logging

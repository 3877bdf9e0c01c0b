// Package internal holds the rewrite engine behind the command line tool.
//
// Engine runs a registry of rules over Java files. Each rule receives a
// parsed and resolved SourceFile and returns the rewritten text together with
// one Issue per applied change; rules can be switched off by name or through
// the configured severity, and paths can be ignored with glob patterns.
// Statements marked with a nolint comment are left alone (see package nolint).
//
// Results can be cached on disk (Cache) and the engine can watch directories
// and re-run on every write of a .java file (StartWatching).
//
// Usage:
//
//	engine, err := internal.NewEngine(rules, internal.WithIndex(index))
//	if err != nil {
//	    // handle error
//	}
//	res, err := engine.Run("src/main/java/app/Main.java")
package internal

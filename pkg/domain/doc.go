/*
Package domain contains the core value types of the autoclicker: key
identities, slot statuses, update outcomes, and the sentinel errors shared
across the engine and the update pipeline.

The types here are deliberately free of dependencies on adapters or the
engine so they can cross every boundary (config files, HTTP responses,
notifications) without dragging behavior along.
*/
package domain

/*
Package memory provides in-memory implementations of the engine's ports.

They back the test suites of the engine, the update pipeline, and the HTTP
surface, and they double as reference implementations of the port
contracts: no OS hooks, no network, fully deterministic.
*/
package memory

// Package sequence builds exhaustive transition sequences for discrete axes.
//
// Generate returns an Eulerian circuit on the complete directed graph over
// positions 1..n: every ordered pair of distinct positions appears exactly
// once and the walk returns to its start. Cursor replays such a sequence
// cyclically, one transition per call.
//
// Import rules:
//   - CAN import: internal/domain, internal/errors, std lib
//   - MUST NOT import: internal/catalog, internal/selector, internal/cli
package sequence

// Package graphdoc defines the canonical serialization format for task
// graphs.
//
// A [Document] captures graph metadata, the full node and edge collections,
// and derived counts. The format is designed for round-trip fidelity: export
// followed by re-import reproduces an identical edge set and node count. The
// same struct carries both json and bson tags so it serves file export, the
// HTTP API, and the MongoDB store without a second mapping layer.
package graphdoc

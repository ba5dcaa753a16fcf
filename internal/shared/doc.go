// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides the buffered slog handler used for
// log assertions and the CSV fixtures shared by the parser, exporter,
// service and command tests.
package shared

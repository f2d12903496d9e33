// Package domain holds the core types of the feedgate client: content
// channels, version snapshots, feed records, and the error taxonomy shared
// by the transport, redemption, and synchronization layers.
//
// The package has no dependencies outside the standard library so that every
// other layer can import it freely.
package domain

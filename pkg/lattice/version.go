// Package lattice carries module-level metadata.
package lattice

// Version is the lattice release version.
const Version = "0.1.0"

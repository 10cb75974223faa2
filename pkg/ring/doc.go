// Package ring provides the bounded circular queue used for
// bit-level transmit and receive buffers.
package ring

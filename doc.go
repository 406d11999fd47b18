// Package flif implements a decoder for the FLIF (Free Lossless Image
// Format) bitstream.
//
// FLIF combines a container header, zero or more deflate-compressed
// ancillary metadata chunks, a 24-bit range coder, and a context-adaptive
// (MANIAC) entropy model that drives predictive pixel reconstruction. This
// package covers everything through the range-coder/entropy layer: header
// interpretation, metadata extraction, range-coder initialization, uniform
// symbol decoding, and the geometry/bitchance resolution that precedes
// per-pixel decoding. Decoding pixel data itself is out of scope; Decode
// returns the live entropy state a pixel decoder would consume next.
//
// Basic usage:
//
//	dec, err := flif.Decode(reader)
//	if err != nil {
//		// handle err
//	}
//	fmt.Println(dec.Info.Width, dec.Info.Height)
//
// To read just the header, without resolving decode geometry:
//
//	info, err := flif.GetInfo(reader)
package flif

// Package export groups the driven.TableCodec implementations. Each
// subpackage writes one file format and can read its own output back.
package export

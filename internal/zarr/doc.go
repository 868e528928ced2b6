// Package zarr reads version-2 chunked-array stores over a minimal read-only
// key/value interface.
//
// A store splits each large array into independently addressable, compressed
// chunks plus small JSON metadata documents (".zarray", ".zattrs", and the
// consolidated ".zmetadata"). Opening an array or group reads metadata only.
// Array values are exposed through a two-phase contract: Values() builds a
// description of the read, and Compute() forces it, fetching and decoding
// every chunk into a dense grid. Nothing reads chunk bytes before Compute,
// which keeps opening remote multi-gigabyte arrays cheap.
//
// Scope is what the HRRR analysis archive needs: 1-D and 2-D row-major
// arrays, numeric dtypes, and the null/zlib/gzip/zstd codecs.
package zarr

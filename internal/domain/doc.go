// Package domain models references into the HRRR Zarr analysis archive and
// the inputs/outputs of the contour-map pipeline.
//
// # Data Source
//
// The High-Resolution Rapid Refresh (HRRR) model output is mirrored to a
// public, anonymously readable object-store bucket in Zarr layout. The archive
// was converted from the original GRIB2 files one variable at a time, which
// left an asymmetry: the group at
//
//	sfc/<date>/<date>_<hour>z_anl.zarr/<level>/<variable>
//
// carries the grid's dimension and coordinate arrays, while the nested group
//
//	sfc/<date>/<date>_<hour>z_anl.zarr/<level>/<variable>/<level>
//
// carries the variable's data array. Both must be opened and combined to get a
// usable dataset, and both must reference the same date, hour, and level or
// the grids will not align.
//
// # Key Conventions
//
//	date:     YYYYMMDD, e.g. "20210214"
//	hour:     two-digit UTC analysis hour, "00".."23"
//	level:    archive vocabulary code, e.g. "2m_above_ground", "surface"
//	variable: GRIB2 short name, e.g. "TMP", "DPT", "WIND"
//
// Example for the 2m temperature analysis at 12Z on 2021-02-14:
//
//	sfc/20210214/20210214_12z_anl.zarr/2m_above_ground/TMP                    (coordinates)
//	sfc/20210214/20210214_12z_anl.zarr/2m_above_ground/TMP/2m_above_ground    (data)
//
// The grid itself is a Lambert conformal conic projection over a spherical
// earth; its parameters are published separately as a small JSON document and
// are reconstructed by the projection package. Coordinate arrays are in
// projection-native metres, not latitude/longitude.
package domain

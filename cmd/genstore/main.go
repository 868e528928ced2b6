// Command genstore writes a small synthetic analysis store to a local
// directory, in the same split coordinate/data layout as the public archive.
// It goes through the real zarr writer types so fixtures exercise the same
// metadata and chunk encoding the reader consumes. Useful for offline
// development:
//
//	go run ./cmd/genstore -dir ./testdata/store -date 20210214 -hour 12
//	HRRR_S3_ENDPOINT=... hrrrmap ...            # or point tests at the dir
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/cloudrift/hrrrmap/internal/domain"
	"github.com/cloudrift/hrrrmap/internal/zarr"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dir := flag.String("dir", "", "output directory for the store")
	date := flag.String("date", "20210214", "analysis date, YYYYMMDD")
	hour := flag.String("hour", "12", "two-digit UTC hour")
	variable := flag.String("variable", "TMP", "variable short name")
	level := flag.String("level", "2m_above_ground", "level code")
	nx := flag.Int("nx", 60, "grid columns")
	ny := flag.Int("ny", 40, "grid rows")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -dir")
	}

	store, err := zarr.NewLocalStore(*dir)
	if err != nil {
		return err
	}

	coordRef, err := domain.CoordRef("hrrrzarr", *date, *hour, *level, *variable)
	if err != nil {
		return err
	}
	dataRef, err := domain.DataRef("hrrrzarr", *date, *hour, *level, *variable)
	if err != nil {
		return err
	}

	if err := writeCoordGroup(store, coordRef.Key, *nx, *ny); err != nil {
		return err
	}
	if err := writeDataGroup(store, dataRef.Key, *variable, *nx, *ny); err != nil {
		return err
	}

	log.Printf("store written: %s (%dx%d grid)", *dir, *nx, *ny)
	log.Printf("coordinate group: %s", coordRef.Key)
	log.Printf("data group: %s", dataRef.Key)
	return nil
}

// writeCoordGroup writes the projection x/y coordinate arrays: evenly spaced
// metres centered on the projection origin, 3 km spacing like the real grid.
func writeCoordGroup(store zarr.WritableStore, path string, nx, ny int) error {
	w := zarr.NewGroupWriter(store, path)

	const spacing = 3000.0
	if err := w.WriteArray("projection_x_coordinate",
		coordMeta(nx), zarr.Attributes{"units": "m"}, coordValues(nx, spacing)); err != nil {
		return err
	}
	if err := w.WriteArray("projection_y_coordinate",
		coordMeta(ny), zarr.Attributes{"units": "m"}, coordValues(ny, spacing)); err != nil {
		return err
	}
	return w.Finish()
}

// writeDataGroup writes the variable array: a smooth temperature-like field
// in Kelvin with a gradient and a bump, chunked smaller than the grid so the
// reader's chunk assembly is exercised.
func writeDataGroup(store zarr.WritableStore, path, variable string, nx, ny int) error {
	w := zarr.NewGroupWriter(store, path)

	values := make([]float64, ny*nx)
	for r := 0; r < ny; r++ {
		for c := 0; c < nx; c++ {
			lat := float64(r) / float64(ny)
			bump := 8 * math.Exp(-math.Pow(float64(c-nx/2)/10, 2)-math.Pow(float64(r-ny/2)/8, 2))
			values[r*nx+c] = 258 + 25*lat + bump
		}
	}

	meta := &zarr.ArrayMeta{
		ZarrFormat: 2,
		Shape:      []int{ny, nx},
		Chunks:     []int{16, 16},
		DtypeStr:   "<f4",
		Compressor: &zarr.CompressorMeta{ID: "gzip"},
		FillValue:  "NaN",
		Order:      "C",
	}
	if err := w.WriteArray(variable, meta, zarr.Attributes{"units": "K"}, values); err != nil {
		return err
	}
	return w.Finish()
}

func coordMeta(n int) *zarr.ArrayMeta {
	return &zarr.ArrayMeta{
		ZarrFormat: 2,
		Shape:      []int{n},
		Chunks:     []int{n},
		DtypeStr:   "<f8",
		Compressor: nil,
		Order:      "C",
	}
}

func coordValues(n int, spacing float64) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = (float64(i) - float64(n)/2) * spacing
	}
	return vals
}

package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateRe matches the archive's YYYYMMDD date component.
var dateRe = regexp.MustCompile(`^\d{8}$`)

// codeRe matches archive vocabulary codes (level and variable names).
var codeRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ObjectRef identifies one addressable blob prefix in the object store.
// It is immutable once constructed; both the coordinate and data refs for a
// request are derived from the same date/hour/level so they always describe
// the same grid.
type ObjectRef struct {
	Bucket string
	Key    string
}

// URI renders the ref in s3://<bucket>/<key> form.
func (r ObjectRef) URI() string {
	return "s3://" + r.Bucket + "/" + r.Key
}

// CoordRef builds the reference to the group holding the grid's dimension and
// coordinate arrays.
func CoordRef(bucket, date, hour, level, variable string) (ObjectRef, error) {
	key, err := analysisKey(date, hour, level, variable)
	if err != nil {
		return ObjectRef{}, err
	}
	if bucket == "" {
		return ObjectRef{}, fmt.Errorf("object ref: bucket is required")
	}
	return ObjectRef{Bucket: bucket, Key: key}, nil
}

// DataRef builds the reference to the nested group holding the variable's
// data array. The trailing level component repeats because of how the archive
// was converted from GRIB2.
func DataRef(bucket, date, hour, level, variable string) (ObjectRef, error) {
	ref, err := CoordRef(bucket, date, hour, level, variable)
	if err != nil {
		return ObjectRef{}, err
	}
	ref.Key = ref.Key + "/" + level
	return ref, nil
}

// analysisKey builds the sfc/<date>/<date>_<hour>z_anl.zarr/<level>/<variable>
// key shared by both refs.
func analysisKey(date, hour, level, variable string) (string, error) {
	if !dateRe.MatchString(date) {
		return "", fmt.Errorf("object ref: date %q is not YYYYMMDD", date)
	}
	if _, err := time.Parse("20060102", date); err != nil {
		return "", fmt.Errorf("object ref: date %q is not a calendar date", date)
	}
	h, err := strconv.Atoi(hour)
	if err != nil || len(hour) != 2 || h < 0 || h > 23 {
		return "", fmt.Errorf("object ref: hour %q is not a two-digit UTC hour", hour)
	}
	if !codeRe.MatchString(level) {
		return "", fmt.Errorf("object ref: level code %q is invalid", level)
	}
	if !codeRe.MatchString(variable) {
		return "", fmt.Errorf("object ref: variable code %q is invalid", variable)
	}
	return strings.Join([]string{
		"sfc", date, fmt.Sprintf("%s_%sz_anl.zarr", date, hour), level, variable,
	}, "/"), nil
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const opsHeaderLine = "UNIT,DATE,AC_TYPE,AC_DISPATCHED,TOTAL_MUNITIONS_LBS,BULLETS,ROCKETS,AC_DESTROYED,CASUALTIES,AC_LOST,AC_DAMAGED,AC_EFFECTIVE\n"

func writeFixtures(t *testing.T, geo, ops string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GeoData.csv"), []byte(geo), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "KoreanWarOps.csv"), []byte(ops), 0o600))
	return dir
}

func TestRun_Passes(t *testing.T) {
	dir := writeFixtures(t,
		"lat,lon,DATE\n39.0,125.7,1951-06-02\n38.5,127.1,1951-06-03\n",
		opsHeaderLine+
			"3 BW,1951-06-02,B-26,12,24000,100,4,0,0,0,1,11\n"+
			",1951-06-03,,6,,,,,,,,\n",
	)

	var out bytes.Buffer
	code := run(&out, dir, "GeoData.csv", "KoreanWarOps.csv")

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "Records: 2 geographic, 2 operations")
	assert.Contains(t, out.String(), `grouped under "NA"`)
	assert.Contains(t, out.String(), "default picker date 2051-06-02 matches 1 point(s)")
}

func TestRun_NegativeStatisticFails(t *testing.T) {
	dir := writeFixtures(t,
		"lat,lon,DATE\n39.0,125.7,1951-06-02\n",
		opsHeaderLine+"3 BW,1951-06-02,B-26,12,-5,0,0,0,0,0,0,0\n",
	)

	var out bytes.Buffer
	code := run(&out, dir, "GeoData.csv", "KoreanWarOps.csv")

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "TOTAL_MUNITIONS_LBS is negative")
	assert.Contains(t, out.String(), "Validation FAILED.")
}

func TestRun_OutOfRangeLatitudeFails(t *testing.T) {
	dir := writeFixtures(t,
		"lat,lon,DATE\n91.0,125.7,1951-06-02\n",
		opsHeaderLine+"3 BW,1951-06-02,B-26,1,0,0,0,0,0,0,0,1\n",
	)

	var out bytes.Buffer
	assert.Equal(t, 1, run(&out, dir, "GeoData.csv", "KoreanWarOps.csv"))
	assert.Contains(t, out.String(), "latitude 91 out of range")
}

func TestRun_MissingFileIsFatal(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	assert.Equal(t, 1, run(&out, dir, "GeoData.csv", "KoreanWarOps.csv"))
	assert.Contains(t, out.String(), "FATAL: load GeoData.csv")
}

// Package scenario holds the IAM scenario dataset: a (region × year ×
// variable) cube of real values, with exact-year selection, arbitrary-year
// interpolation and forward-window averaging.
package scenario

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// Cube is an immutable 3-axis array of scenario values. The year axis is
// sorted; lookups outside the year bounds extrapolate linearly from the two
// nearest samples.
type Cube struct {
	years     []int
	variables []string
	varIdx    map[string]int
	// values[region][variable] is a series aligned with years.
	values map[string][][]float64
}

// NewCube creates an empty cube over the given year and variable axes.
func NewCube(years []int, variables []string) *Cube {
	ys := append([]int(nil), years...)
	sort.Ints(ys)
	c := &Cube{
		years:     ys,
		variables: append([]string(nil), variables...),
		varIdx:    make(map[string]int, len(variables)),
		values:    make(map[string][][]float64),
	}
	for i, v := range c.variables {
		c.varIdx[v] = i
	}
	return c
}

// Variables returns the variable axis in declaration order.
func (c *Cube) Variables() []string { return c.variables }

// Years returns the sorted year axis.
func (c *Cube) Years() []int { return c.years }

// HasRegion reports whether the cube carries data for the region.
func (c *Cube) HasRegion(region string) bool {
	_, ok := c.values[region]
	return ok
}

// Set stores a value at an exact (region, year, variable) coordinate.
func (c *Cube) Set(region string, year int, variable string, v float64) error {
	vi, ok := c.varIdx[variable]
	if !ok {
		return fmt.Errorf("scenario: unknown variable %q", variable)
	}
	yi := c.yearIndex(year)
	if yi < 0 {
		return fmt.Errorf("scenario: year %d not on axis", year)
	}
	series, ok := c.values[region]
	if !ok {
		series = make([][]float64, len(c.variables))
		for i := range series {
			series[i] = make([]float64, len(c.years))
		}
		c.values[region] = series
	}
	series[vi][yi] = v
	return nil
}

func (c *Cube) yearIndex(year int) int {
	for i, y := range c.years {
		if y == year {
			return i
		}
	}
	return -1
}

// Value returns the exact sample at (region, year, variable).
func (c *Cube) Value(region string, year int, variable string) (float64, error) {
	series, vi, err := c.series(region, variable)
	if err != nil {
		return 0, err
	}
	yi := c.yearIndex(year)
	if yi < 0 {
		return 0, fmt.Errorf("scenario: year %d not on axis", year)
	}
	return series[vi][yi], nil
}

// Interp returns the value at an arbitrary year, linearly interpolated
// between samples and extrapolated from the edge slope beyond the axis.
func (c *Cube) Interp(region string, year float64, variable string) (float64, error) {
	series, vi, err := c.series(region, variable)
	if err != nil {
		return 0, err
	}
	return interp(c.years, series[vi], year), nil
}

func (c *Cube) series(region, variable string) ([][]float64, int, error) {
	series, ok := c.values[region]
	if !ok {
		return nil, 0, fmt.Errorf("scenario: unknown region %q", region)
	}
	vi, ok := c.varIdx[variable]
	if !ok {
		return nil, 0, fmt.Errorf("scenario: unknown variable %q", variable)
	}
	return series, vi, nil
}

func interp(years []int, samples []float64, year float64) float64 {
	n := len(years)
	if n == 1 {
		return samples[0]
	}
	// segment used for both interpolation and edge extrapolation
	hi := 1
	for hi < n-1 && year > float64(years[hi]) {
		hi++
	}
	lo := hi - 1
	y0, y1 := float64(years[lo]), float64(years[hi])
	v0, v1 := samples[lo], samples[hi]
	return v0 + (v1-v0)*(year-y0)/(y1-y0)
}

// LoadCSV reads a cube from a long-format CSV (region, year, variable, value)
// with a header row. Axes are derived from the data.
func LoadCSV(r io.Reader) (*Cube, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("scenario: read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("scenario: csv has no data rows")
	}

	type cell struct {
		region   string
		year     int
		variable string
		value    float64
	}
	var cells []cell
	yearSet := map[int]bool{}
	varSeen := map[string]bool{}
	var variables []string

	for i, row := range rows[1:] {
		if len(row) < 4 {
			return nil, fmt.Errorf("scenario: row %d: want 4 columns, got %d", i+2, len(row))
		}
		year, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("scenario: row %d: year: %w", i+2, err)
		}
		value, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("scenario: row %d: value: %w", i+2, err)
		}
		cells = append(cells, cell{row[0], year, row[2], value})
		yearSet[year] = true
		if !varSeen[row[2]] {
			varSeen[row[2]] = true
			variables = append(variables, row[2])
		}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	cube := NewCube(years, variables)
	for _, cl := range cells {
		if err := cube.Set(cl.region, cl.year, cl.variable, cl.value); err != nil {
			return nil, err
		}
	}
	return cube, nil
}

// LoadCSVFile reads a cube from a long-format CSV file.
func LoadCSVFile(path string) (*Cube, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadCSV(f)
}

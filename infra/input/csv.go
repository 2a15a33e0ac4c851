// Package input loads the run's tabular inputs from CSV: the generator
// fleet, the demand series, variable capacity factors and the reactor
// physics tables.
package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/physics"
)

// table is a header-indexed CSV.
type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(r io.Reader) (*table, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input: empty table")
	}
	t := &table{cols: make(map[string]int, len(rows[0])), rows: rows[1:]}
	for i, name := range rows[0] {
		t.cols[name] = i
	}
	return t, nil
}

func readFile(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t *table) str(row []string, col string) (string, error) {
	i, ok := t.cols[col]
	if !ok {
		return "", fmt.Errorf("input: missing column %s", col)
	}
	return row[i], nil
}

func (t *table) float(row []string, col string) (float64, error) {
	s, err := t.str(row, col)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

func (t *table) int(row []string, col string) (int, error) {
	s, err := t.str(row, col)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// LoadFleet reads the generator registry. Row order defines fleet order.
func LoadFleet(path string) (model.Fleet, error) {
	t, err := readFile(path)
	if err != nil {
		return nil, err
	}
	fleet := make(model.Fleet, 0, len(t.rows))
	for _, row := range t.rows {
		var g model.Generator
		var res string
		if res, err = t.str(row, "resource"); err == nil {
			g.Resource = model.ResourceType(res)
		}
		if err == nil {
			g.ID, err = t.str(row, "r_id")
		}
		if err == nil {
			g.CapacityMW, err = t.float(row, "existing_cap_mw")
		}
		if err == nil {
			g.MinPower, err = t.float(row, "min_power")
		}
		if err == nil {
			g.RampUp, err = t.float(row, "ramp_up")
		}
		if err == nil {
			g.RampDown, err = t.float(row, "ramp_down")
		}
		if err == nil {
			g.HeatRate, err = t.float(row, "heat_rate")
		}
		if err == nil {
			g.FuelCost, err = t.float(row, "fuel_cost")
		}
		if err == nil {
			g.VOMCost, err = t.float(row, "vom_cost")
		}
		if err == nil {
			g.StartCost, err = t.float(row, "start_cost")
		}
		if err == nil {
			g.ShutdownCost, err = t.float(row, "shutdown_cost")
		}
		if err == nil {
			g.MinUpHours, err = t.int(row, "min_up_hours")
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		g.Thermal = g.MinUpHours > 0
		g.Variable = g.Resource == model.ResourceWind || g.Resource == model.ResourceSolar
		fleet = append(fleet, g)
	}
	if err := fleet.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fleet, nil
}

// LoadSeries reads an hour-keyed value series, sorted by hour.
func LoadSeries(path, valueCol string) ([]float64, error) {
	t, err := readFile(path)
	if err != nil {
		return nil, err
	}
	type hv struct {
		hour int
		val  float64
	}
	vals := make([]hv, 0, len(t.rows))
	for _, row := range t.rows {
		h, err := t.int(row, "hour")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		v, err := t.float(row, valueCol)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		vals = append(vals, hv{h, v})
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].hour < vals[j].hour })
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v.val
	}
	return out, nil
}

// LoadCapacityFactors reads the long-form (r_id, hour, cf) profile table
// into per-generator hour-ordered series.
func LoadCapacityFactors(path string) (map[string][]float64, error) {
	t, err := readFile(path)
	if err != nil {
		return nil, err
	}
	type hv struct {
		hour int
		cf   float64
	}
	byGen := make(map[string][]hv)
	for _, row := range t.rows {
		id, err := t.str(row, "r_id")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		h, err := t.int(row, "hour")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cf, err := t.float(row, "cf")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		byGen[id] = append(byGen[id], hv{h, cf})
	}
	out := make(map[string][]float64, len(byGen))
	for id, vals := range byGen {
		sort.Slice(vals, func(i, j int) bool { return vals[i].hour < vals[j].hour })
		series := make([]float64, len(vals))
		for i, v := range vals {
			series[i] = v.cf
		}
		out[id] = series
	}
	return out, nil
}

// LoadDeadtimeTable reads per-family (resource, k, downtime_hours) rows.
func LoadDeadtimeTable(path string) (physics.DeadtimeTable, error) {
	t, err := readFile(path)
	if err != nil {
		return physics.DeadtimeTable{}, err
	}
	families := make(map[model.ResourceType][]physics.DeadtimePoint)
	for _, row := range t.rows {
		res, err := t.str(row, "resource")
		if err != nil {
			return physics.DeadtimeTable{}, fmt.Errorf("%s: %w", path, err)
		}
		k, err := t.float(row, "k")
		if err != nil {
			return physics.DeadtimeTable{}, fmt.Errorf("%s: %w", path, err)
		}
		d, err := t.int(row, "downtime_hours")
		if err != nil {
			return physics.DeadtimeTable{}, fmt.Errorf("%s: %w", path, err)
		}
		fam := model.ResourceType(res)
		families[fam] = append(families[fam], physics.DeadtimePoint{K: k, DowntimeHours: d})
	}
	return physics.NewDeadtimeTable(families), nil
}

// LoadReactivityLimits reads per-family (resource, max_reactivity_xe, p0)
// rows.
func LoadReactivityLimits(path string) (physics.ReactivityLimitTable, error) {
	t, err := readFile(path)
	if err != nil {
		return physics.ReactivityLimitTable{}, err
	}
	families := make(map[model.ResourceType][]physics.LimitPoint)
	for _, row := range t.rows {
		res, err := t.str(row, "resource")
		if err != nil {
			return physics.ReactivityLimitTable{}, fmt.Errorf("%s: %w", path, err)
		}
		reac, err := t.float(row, "max_reactivity_xe")
		if err != nil {
			return physics.ReactivityLimitTable{}, fmt.Errorf("%s: %w", path, err)
		}
		p0, err := t.float(row, "p0")
		if err != nil {
			return physics.ReactivityLimitTable{}, fmt.Errorf("%s: %w", path, err)
		}
		fam := model.ResourceType(res)
		families[fam] = append(families[fam], physics.LimitPoint{MaxReactivityXe: reac, P0: p0})
	}
	return physics.NewReactivityLimitTable(families), nil
}

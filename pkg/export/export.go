// Package export renders solved windows into the report tables consumed by
// downstream analysis: wide per-hour dispatch and commitment tables and a
// per-hour curtailment summary, in CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/rolling"
)

func ff(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteDispatchCSV writes one row per hour with a dispatch column per
// generator, plus storage exchange and non-served energy.
func WriteDispatchCSV(w io.Writer, fleet model.Fleet, res *rolling.Result) error {
	cw := csv.NewWriter(w)
	head := []string{"hour"}
	for _, g := range fleet {
		head = append(head, g.ID)
	}
	head = append(head, "charge", "discharge", "soc", "nse")
	if err := cw.Write(head); err != nil {
		return err
	}
	for t, hour := range res.Horizon {
		rec := []string{strconv.Itoa(hour)}
		for _, g := range fleet {
			rec = append(rec, ff(res.Gen[g.ID][t]))
		}
		rec = append(rec, ff(res.Charge[t]), ff(res.Discharge[t]), ff(res.SOC[t]), ff(res.NSE[t]))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCommitmentCSV writes one row per hour with 0/1 commitment columns
// for every generator.
func WriteCommitmentCSV(w io.Writer, fleet model.Fleet, res *rolling.Result) error {
	return writeIndicatorCSV(w, fleet, res, res.Commit)
}

// WriteStartCSV writes one row per hour with 0/1 start indicators for every
// generator.
func WriteStartCSV(w io.Writer, fleet model.Fleet, res *rolling.Result) error {
	return writeIndicatorCSV(w, fleet, res, res.Start)
}

// WriteShutdownCSV writes one row per hour with 0/1 shutdown indicators for
// every generator.
func WriteShutdownCSV(w io.Writer, fleet model.Fleet, res *rolling.Result) error {
	return writeIndicatorCSV(w, fleet, res, res.Shut)
}

func writeIndicatorCSV(w io.Writer, fleet model.Fleet, res *rolling.Result, series map[string][]bool) error {
	cw := csv.NewWriter(w)
	head := []string{"hour"}
	for _, g := range fleet {
		head = append(head, g.ID)
	}
	if err := cw.Write(head); err != nil {
		return err
	}
	for t, hour := range res.Horizon {
		rec := []string{strconv.Itoa(hour)}
		for _, g := range fleet {
			v := "0"
			if series[g.ID][t] {
				v = "1"
			}
			rec = append(rec, v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CurtailmentRow is the per-hour curtailment summary split by technology.
type CurtailmentRow struct {
	Hour          int     `json:"hour"`
	WindPossible  float64 `json:"wind_possible"`
	SolarPossible float64 `json:"solar_possible"`
	WindGen       float64 `json:"gen_wind"`
	SolarGen      float64 `json:"gen_solar"`
	WindCurtail   float64 `json:"wind_curtail"`
	SolarCurtail  float64 `json:"solar_curtail"`
	Curtail       float64 `json:"curt"`
}

// Curtailment computes the per-hour summary from the solved window.
// Available potential is actual dispatch plus the tracked curtailment, so
// no separate capacity-factor table is needed.
func Curtailment(fleet model.Fleet, res *rolling.Result) []CurtailmentRow {
	rows := make([]CurtailmentRow, len(res.Horizon))
	for t, hour := range res.Horizon {
		row := CurtailmentRow{Hour: hour}
		for _, g := range fleet {
			if !g.Variable {
				continue
			}
			gen := res.Gen[g.ID][t]
			curt := res.Curtail[g.ID][t]
			switch g.Resource {
			case model.ResourceWind:
				row.WindGen += gen
				row.WindCurtail += curt
				row.WindPossible += gen + curt
			case model.ResourceSolar:
				row.SolarGen += gen
				row.SolarCurtail += curt
				row.SolarPossible += gen + curt
			}
			row.Curtail += curt
		}
		rows[t] = row
	}
	return rows
}

// WriteCurtailmentCSV writes the curtailment summary.
func WriteCurtailmentCSV(w io.Writer, fleet model.Fleet, res *rolling.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"hour", "wind_possible", "solar_possible", "gen_wind", "gen_solar",
		"wind_curtail", "solar_curtail", "curt",
	}); err != nil {
		return err
	}
	for _, r := range Curtailment(fleet, res) {
		rec := []string{
			strconv.Itoa(r.Hour),
			ff(r.WindPossible), ff(r.SolarPossible),
			ff(r.WindGen), ff(r.SolarGen),
			ff(r.WindCurtail), ff(r.SolarCurtail),
			ff(r.Curtail),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCurtailmentJSON writes the curtailment summary in JSON format.
func WriteCurtailmentJSON(w io.Writer, fleet model.Fleet, res *rolling.Result) error {
	enc := json.NewEncoder(w)
	return enc.Encode(Curtailment(fleet, res))
}

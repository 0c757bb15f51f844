package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/contnet/internal/tensor"
)

type ExportData struct {
	Model   string             `json:"model"`
	Scheme  string             `json:"scheme"`
	NStep   int                `json:"n_step"`
	Seed    int64              `json:"seed"`
	Shape   []int              `json:"shape"`
	Steps   int                `json:"steps"`
	Times   []float64          `json:"times"`
	States  [][]float64        `json:"states"`
	Metrics map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, traj Trajectory) error {
	data := ExportData{
		Model:   meta.Model,
		Scheme:  meta.Scheme,
		NStep:   meta.NStep,
		Seed:    meta.Seed,
		Shape:   meta.Shape,
		Steps:   len(traj.Times),
		Times:   traj.Times,
		States:  make([][]float64, len(traj.States)),
		Metrics: meta.Metrics,
	}
	for i, s := range traj.States {
		data.States[i] = s.Data()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes a trajectory as rows of time,x0,...,xn with states
// flattened in row-major order.
func ExportCSV(w io.Writer, traj Trajectory) error {
	if err := traj.validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	if len(traj.States) == 0 {
		cw.Flush()
		return cw.Error()
	}

	header := []string{"time"}
	for i := 0; i < traj.States[0].Len(); i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, s := range traj.States {
		row := []string{strconv.FormatFloat(traj.Times[i], 'g', -1, 64)}
		for _, val := range s.Data() {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the output of ExportCSV, shaping every row as shape.
func ReadCSV(r io.Reader, shape []int) (Trajectory, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return Trajectory{}, err
	}
	if len(records) < 2 {
		return Trajectory{}, nil
	}

	traj := Trajectory{
		Times:  make([]float64, 0, len(records)-1),
		States: make([]tensor.Tensor, 0, len(records)-1),
	}
	for i, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return Trajectory{}, fmt.Errorf("%w: row %d: %v", ErrBadTrajectory, i+1, err)
		}

		data := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Trajectory{}, fmt.Errorf("%w: row %d: %v", ErrBadTrajectory, i+1, err)
			}
			data = append(data, val)
		}

		x, err := tensor.New(shape, data)
		if err != nil {
			return Trajectory{}, fmt.Errorf("%w: row %d: %v", ErrBadTrajectory, i+1, err)
		}
		traj.Times = append(traj.Times, t)
		traj.States = append(traj.States, x)
	}
	return traj, nil
}

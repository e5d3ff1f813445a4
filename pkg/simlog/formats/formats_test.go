package formats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simlog/simlog-go/pkg/simlog"
	"github.com/simlog/simlog-go/pkg/simlog/formats"
	"github.com/simlog/simlog-go/pkg/simlog/value"
)

func TestBuiltinsValidate(t *testing.T) {
	for _, name := range formats.Names() {
		t.Run(name, func(t *testing.T) {
			f, err := formats.ByName(name)
			require.NoError(t, err)
			assert.NoError(t, f.Validate())
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	_, err := formats.ByName("lf9")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		suffix string
		steady bool
		want   string
		ok     bool
	}{
		{"lf1", false, "lf1-unsteady", true},
		{"lf1", true, "lf1-steady", true},
		{"lf2", true, "lf2", true},
		{"lf2", false, "", false},
		{"lf3", false, "", false},
	}
	for _, tt := range tests {
		f, err := formats.Lookup(tt.suffix, tt.steady)
		if !tt.ok {
			assert.Error(t, err, "%s steady=%v", tt.suffix, tt.steady)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, f.Name)
	}
}

// A condensed but structurally faithful unsteady run log: header, two
// timesteps, completion summary.
var lf1UnsteadyLog = []string{
	"!!Info1 version1d  4.6.0.1",
	"!!output1  Number of 1D river nodes in model:    12",
	"!!Info1 qtol =  0.01",
	"!!Info1 htol =  0.01",
	"!!Info1 Start Time: 0.0hrs",
	"!!Info1 End Time: 2.0hrs",
	"!!Info1 Ran at  09:00:01 on 01/01/2025",
	"!!Info1 maxitr =  11",
	"!!Info1 minitr =  3",
	"",
	"!!Progress1   50%",
	"!!Info1 Timestep        10.0s",
	"!!Info1 Simulated      1:00:00",
	"!!Info1 EFT:           calculating...",
	"!!Info1 ETR:           ...",
	"!!Info1 Elapsed            0:00:02",
	"!!PlotI1  1.000000 2.0 1.0",
	"!!PlotC1  1.000000 0.001 0.002",
	"!!PlotF1  1.000000 12.25 13.1",
	"!!Info1 Mass %error =     0.02%",
	"!!Progress1  100%",
	"!!Info1 Timestep        10.0s",
	"!!Info1 Simulated      2:00:00",
	"!!Info1 EFT:           09:02:05",
	"!!Info1 ETR:           0:00:00",
	"!!Info1 Elapsed            0:00:04",
	"!!PlotI1  2.000000 3.0 1.0",
	"!!PlotC1  2.000000 0.002 0.001",
	"!!PlotF1  2.000000 14.5 14.2",
	"!!Info1 Mass %error =     0.01%",
	"",
	"!!output1 Simulation time elapsed (s):    4.1",
	"!!output1  Number of unconverged timesteps:    0",
	"!!output1  Proportion of simulation unconverged:   0.0%",
	"!!output1  Initial volume:   1000.0m3",
	"!!output1  Final volume:   1020.0m3",
}

func TestLF1UnsteadyParsesRunLog(t *testing.T) {
	s, err := simlog.NewSession(formats.LF1Unsteady())
	require.NoError(t, err)

	require.NoError(t, s.Process(lf1UnsteadyLog))
	require.NoError(t, s.Finalize())

	assert.Equal(t, 2, s.Iterations())

	pct, err := s.Progress()
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)

	v, ok := s.Latest("version")
	require.True(t, ok)
	assert.Equal(t, "4.6.0.1", v.Str)

	v, ok = s.Latest("end_time")
	require.True(t, ok)
	assert.True(t, v.Equal(value.Duration(2*time.Hour)))

	v, ok = s.Latest("ran_at")
	require.True(t, ok)
	assert.Equal(t, 2025, v.Time.Year())

	v, ok = s.Latest("final_volume")
	require.True(t, ok)
	assert.True(t, v.Equal(value.Float(1020.0)))

	tbl, err := s.Table()
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	// The first EFT/ETR were still "calculating" and must come through as
	// missing rather than errors.
	eft, ok := tbl.Column("estimated_finish_time")
	require.True(t, ok)
	assert.True(t, eft[0].IsMissing())
	assert.False(t, eft[1].IsMissing())

	etr, ok := tbl.Column("estimated_time_remaining")
	require.True(t, ok)
	assert.True(t, etr[0].IsMissing())
	assert.True(t, etr[1].Equal(value.Duration(0)))

	// Multi-value plot lines expand into their named columns, with the
	// leading entry reinterpreted as simulated time.
	sim, ok := tbl.Column("simulated_flow")
	require.True(t, ok)
	assert.True(t, sim[0].Equal(value.Duration(time.Hour)))
	assert.True(t, sim[1].Equal(value.Duration(2*time.Hour)))

	inflow, ok := tbl.Column("inflow")
	require.True(t, ok)
	assert.True(t, inflow[0].Equal(value.Float(12.25)))
	assert.True(t, inflow[1].Equal(value.Float(14.5)))

	mass, ok := tbl.Column("mass_error")
	require.True(t, ok)
	assert.True(t, mass[1].Equal(value.Float(0.01)))

	// The field itself is not a column once expanded.
	_, ok = tbl.Column("flow")
	assert.False(t, ok)
}

func TestLF1SteadyHasNoProgress(t *testing.T) {
	s, err := simlog.NewSession(formats.LF1Steady())
	require.NoError(t, err)

	_, err = s.Progress()
	assert.ErrorIs(t, err, simlog.ErrProgressUnsupported)

	require.NoError(t, s.Process([]string{
		"!!output1  was largest change in split from last iteration     0.125",
		"!!output1  network iteration     1",
		"!!output1  was largest change in split from last iteration     0.016",
		"!!output1  network iteration     2",
	}))
	require.NoError(t, s.Finalize())

	tbl, err := s.Table()
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	it, ok := tbl.Column("network_iteration")
	require.True(t, ok)
	assert.True(t, it[1].Equal(value.Float(2)))
}

func TestLF2ParsesUrbanLog(t *testing.T) {
	s, err := simlog.NewSession(formats.LF2())
	require.NoError(t, err)

	require.NoError(t, s.Process([]string{
		"!!Info2 version2d  3.1",
		"!!output2  Number of 2D domains:    1",
		"!!Progress2   25%",
		"!!Info2 Timestep        2.0s",
		"!!Info2 Simulated      0:30:00",
		"!!Info2 Elapsed            0:00:10",
		"!!PlotG2  0.500000 120.0 1.5 1.2",
	}))
	require.NoError(t, s.Finalize())

	pct, err := s.Progress()
	require.NoError(t, err)
	assert.Equal(t, 25.0, pct)

	tbl, err := s.Table()
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	wet, ok := tbl.Column("wet_cells")
	require.True(t, ok)
	assert.True(t, wet[0].Equal(value.Float(120.0)))

	out, ok := tbl.Column("2D_boundary_outflow")
	require.True(t, ok)
	assert.True(t, out[0].Equal(value.Float(1.2)))
}

// Package formats provides the built-in field tables for the supported
// simulation log variants: unsteady and steady 1D river run logs (.lf1)
// and 1D urban run logs (.lf2). Each table is ordinary configuration; the
// parsing core has no knowledge of these fields.
package formats

import (
	"fmt"

	"github.com/simlog/simlog-go/pkg/simlog"
)

// Time layouts used by the engine's status lines.
const (
	// ranAtLayout matches "09:00:01 on 01/01/2025".
	ranAtLayout = "15:04:05 on 02/01/2006"
	// clockLayout matches bare "09:00:01" estimates.
	clockLayout = "15:04:05"
)

// LF1Unsteady returns the field table for unsteady 1D river run logs.
// The elapsed line marks the end of each timestep; the !!Plot lines carry
// the per-timestep solver diagnostics that form the bulk of the table.
func LF1Unsteady() simlog.Format {
	return simlog.Format{
		Name:          "lf1-unsteady",
		ProgressField: "progress",
		Fields: []simlog.FieldSpec{
			{Name: "version", Prefix: "!!Info1 version1d", Kind: simlog.KindString, Retention: simlog.RetainLatest},
			{Name: "number_of_1D_river_nodes", Prefix: "!!output1  Number of 1D river nodes in model:", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
			{Name: "qtol", Prefix: "!!Info1 qtol =", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
			{Name: "htol", Prefix: "!!Info1 htol =", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
			{Name: "start_time", Prefix: "!!Info1 Start Time:", Kind: simlog.KindDurationHours, Retention: simlog.RetainLatest},
			{Name: "end_time", Prefix: "!!Info1 End Time:", Kind: simlog.KindDurationHours, Retention: simlog.RetainLatest},
			{Name: "ran_at", Prefix: "!!Info1 Ran at", Kind: simlog.KindTimestamp, Layout: ranAtLayout, Retention: simlog.RetainLatest},
			{Name: "max_itr", Prefix: "!!Info1 maxitr =", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
			{Name: "min_itr", Prefix: "!!Info1 minitr =", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
			{Name: "progress", Prefix: "!!Progress1", Kind: simlog.KindFloatSplit, Delimiter: "%", Retention: simlog.RetainLatest},

			{Name: "timestep", Prefix: "!!Info1 Timestep", Kind: simlog.KindDurationSeconds, Retention: simlog.RetainAll, BeforeMarker: true},
			{Name: "simulated", Prefix: "!!Info1 Simulated", Kind: simlog.KindDurationHMS, Retention: simlog.RetainAll, BeforeMarker: true},
			{Name: "estimated_finish_time", Prefix: "!!Info1 EFT:", Kind: simlog.KindTimestamp, Layout: clockLayout, Retention: simlog.RetainAll,
				BeforeMarker: true, Exclude: []string{"calculating..."}},
			{Name: "estimated_time_remaining", Prefix: "!!Info1 ETR:", Kind: simlog.KindDurationHMS, Retention: simlog.RetainAll,
				BeforeMarker: true, Exclude: []string{"..."}},
			{Name: "elapsed", Prefix: "!!Info1 Elapsed", Kind: simlog.KindDurationHMS, Retention: simlog.RetainAll, Marker: true},
			{Name: "iterations", Prefix: "!!PlotI1", Kind: simlog.KindTimeFloatMult, Retention: simlog.RetainAll,
				Subnames: []string{"simulated_iter", "iter", "log_dt"}},
			{Name: "convergence", Prefix: "!!PlotC1", Kind: simlog.KindTimeFloatMult, Retention: simlog.RetainAll,
				Subnames: []string{"simulated_conv", "convergence_flow", "convergence_level"}},
			{Name: "flow", Prefix: "!!PlotF1", Kind: simlog.KindTimeFloatMult, Retention: simlog.RetainAll,
				Subnames: []string{"simulated_flow", "inflow", "outflow"}},
			{Name: "mass_error", Prefix: "!!Info1 Mass %error =", Kind: simlog.KindFloatSplit, Delimiter: "%", Retention: simlog.RetainAll},

			{Name: "simulation_time_elapsed", Prefix: "!!output1 Simulation time elapsed (s):", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
			{Name: "number_of_unconverged_timesteps", Prefix: "!!output1  Number of unconverged timesteps:", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
			{Name: "proportion_of_simulation_unconverged", Prefix: "!!output1  Proportion of simulation unconverged:", Kind: simlog.KindFloatSplit, Delimiter: "%", Retention: simlog.RetainLatest},
			{Name: "initial_volume", Prefix: "!!output1  Initial volume:", Kind: simlog.KindFloatSplit, Delimiter: "m3", Retention: simlog.RetainLatest},
			{Name: "final_volume", Prefix: "!!output1  Final volume:", Kind: simlog.KindFloatSplit, Delimiter: "m3", Retention: simlog.RetainLatest},
		},
	}
}

// LF1Steady returns the field table for steady-state 1D river run logs.
// Steady runs iterate the network solution to convergence and never emit a
// progress percentage, so the format has no progress field.
func LF1Steady() simlog.Format {
	return simlog.Format{
		Name: "lf1-steady",
		Fields: []simlog.FieldSpec{
			{Name: "version", Prefix: "!!Info1 version1d", Kind: simlog.KindString, Retention: simlog.RetainLatest},
			{Name: "number_of_1D_river_nodes", Prefix: "!!output1  Number of 1D river nodes in model:", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
			{Name: "ran_at", Prefix: "!!Info1 Ran at", Kind: simlog.KindTimestamp, Layout: ranAtLayout, Retention: simlog.RetainLatest},

			{Name: "largest_change_in_split_from_last_iteration", Prefix: "!!output1  was largest change in split from last iteration", Kind: simlog.KindFloat, Retention: simlog.RetainAll, BeforeMarker: true},
			{Name: "network_iteration", Prefix: "!!output1  network iteration", Kind: simlog.KindFloat, Retention: simlog.RetainAll, Marker: true},

			{Name: "simulation_time_elapsed", Prefix: "!!output1 Simulation time elapsed (s):", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
		},
	}
}

// LF2 returns the field table for 1D urban run logs.
func LF2() simlog.Format {
	return simlog.Format{
		Name:          "lf2",
		ProgressField: "progress",
		Fields: []simlog.FieldSpec{
			{Name: "version", Prefix: "!!Info2 version2d", Kind: simlog.KindString, Retention: simlog.RetainLatest},
			{Name: "number_of_2D_domains", Prefix: "!!output2  Number of 2D domains:", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
			{Name: "model_time_zero", Prefix: "!!Info2 Model time zero:", Kind: simlog.KindString, Retention: simlog.RetainLatest},
			{Name: "start_time", Prefix: "!!Info2 Start Time:", Kind: simlog.KindDurationHours, Retention: simlog.RetainLatest},
			{Name: "end_time", Prefix: "!!Info2 End Time:", Kind: simlog.KindDurationHours, Retention: simlog.RetainLatest},
			{Name: "ran_at", Prefix: "!!Info2 Ran at", Kind: simlog.KindTimestamp, Layout: ranAtLayout, Retention: simlog.RetainLatest},
			{Name: "progress", Prefix: "!!Progress2", Kind: simlog.KindFloatSplit, Delimiter: "%", Retention: simlog.RetainLatest},

			{Name: "timestep", Prefix: "!!Info2 Timestep", Kind: simlog.KindDurationSeconds, Retention: simlog.RetainAll, BeforeMarker: true},
			{Name: "simulated", Prefix: "!!Info2 Simulated", Kind: simlog.KindDurationHMS, Retention: simlog.RetainAll, BeforeMarker: true},
			{Name: "estimated_finish_time", Prefix: "!!Info2 EFT:", Kind: simlog.KindTimestamp, Layout: clockLayout, Retention: simlog.RetainAll,
				BeforeMarker: true, Exclude: []string{"calculating..."}},
			{Name: "estimated_time_remaining", Prefix: "!!Info2 ETR:", Kind: simlog.KindDurationHMS, Retention: simlog.RetainAll,
				BeforeMarker: true, Exclude: []string{"..."}},
			{Name: "elapsed", Prefix: "!!Info2 Elapsed", Kind: simlog.KindDurationHMS, Retention: simlog.RetainAll, Marker: true},
			{Name: "wet_cells", Prefix: "!!PlotG2", Kind: simlog.KindTimeFloatMult, Retention: simlog.RetainAll,
				Subnames: []string{"simulated_wet", "wet_cells", "2D_boundary_inflow", "2D_boundary_outflow"}},
			{Name: "mass_error", Prefix: "!!Info2 Mass %error =", Kind: simlog.KindFloatSplit, Delimiter: "%", Retention: simlog.RetainAll},

			{Name: "simulation_time_elapsed", Prefix: "!!output2 Simulation time elapsed (s):", Kind: simlog.KindFloat, Retention: simlog.RetainLatest},
		},
	}
}

// Names lists the built-in format names.
func Names() []string {
	return []string{"lf1-unsteady", "lf1-steady", "lf2"}
}

// ByName returns a built-in format by its name.
func ByName(name string) (simlog.Format, error) {
	switch name {
	case "lf1-unsteady":
		return LF1Unsteady(), nil
	case "lf1-steady":
		return LF1Steady(), nil
	case "lf2":
		return LF2(), nil
	default:
		return simlog.Format{}, fmt.Errorf("unknown format %q", name)
	}
}

// Lookup returns the built-in format for a log file suffix ("lf1" or
// "lf2") and flow type.
func Lookup(suffix string, steady bool) (simlog.Format, error) {
	switch {
	case suffix == "lf1" && !steady:
		return LF1Unsteady(), nil
	case suffix == "lf1" && steady:
		return LF1Steady(), nil
	case suffix == "lf2" && steady:
		return LF2(), nil
	default:
		flow := "unsteady"
		if steady {
			flow = "steady"
		}
		return simlog.Format{}, fmt.Errorf("unexpected log file type %q for %s flow", suffix, flow)
	}
}

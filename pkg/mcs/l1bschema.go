package mcs

import "github.com/mars-clim/gomcs/pkg/table"

// l1bStateColumns are the engineering, state and geometry columns of an L1B
// file, in file order, preceding the radiance columns.
var l1bStateColumns = []string{
	"1", "Date", "UTC", "SCLK", "PKT_count",
	"Last_az_cmd", "Last_el_cmd", "Gqual",
	"Solar_lat", "Solar_lon", "Solar_zen",
	"SC_lat", "SC_lon", "SC_rad",
	"Scene_lat", "Scene_lon", "Scene_rad", "Scene_alt",
	"Vert_lat", "Vert_lon", "Limb_ang",
	"Safing", "Safed", "Freezing", "Frozen", "Rolling", "Dumping", "Moving",
	"Temp_Fault", "Mode",
	"OST_index", "EST_index", "ROT_index", "EOCT_index", "SST_index",
	"FPA_temp", "FPB_temp", "Baffle_A_temp", "Baffle_B_temp",
	"BB_1_temp", "OBA_1_temp",
	"Error_Time", "Error_ID", "Error_Detail", "Error_count",
	"Commands_received", "Commands_executed", "Commands_rejected",
	"Last_command_rec", "Cmd", "Req_ID", "Last_time_command", "Last_EQX_prediction",
	"Hybrid_temp", "FPA_temp_cyc", "FPB_temp_cyc",
	"Baffle_A_temp_cyc", "Baffle_B_temp_cyc",
	"OBA_1_temp_cyc", "OBA_2_temp", "BB_1_temp_cyc", "BB_2_temp",
	"Solar_target_temp", "Yoke_temp", "El_actuator_temp", "Az_actuator_temp",
	"-15V", "+15V", "Solar_base_temp", "+5V", "Rqual",
}

var l1bIntColumns = []string{
	"1", "PKT_count", "Gqual",
	"Safing", "Safed", "Freezing", "Frozen", "Rolling", "Dumping", "Moving",
	"Temp_Fault", "Mode",
	"OST_index", "EST_index", "ROT_index", "EOCT_index", "SST_index",
	"Error_count", "Commands_received", "Commands_executed", "Commands_rejected",
	"Rqual",
}

var l1bStringColumns = []string{
	"Date", "UTC",
	"Error_Time", "Error_ID", "Error_Detail",
	"Last_command_rec", "Cmd", "Req_ID", "Last_time_command", "Last_EQX_prediction",
}

// L1BColumns returns the declared column names of an L1B file, in file
// order: the state columns followed by one radiance column per channel and
// detector.
func L1BColumns() []string {
	cols := append([]string{}, l1bStateColumns...)
	for _, ch := range Channels {
		cols = append(cols, RadColNames(ch)...)
	}
	return cols
}

// L1BRadColumns returns the radiance column subset of the L1B schema.
func L1BRadColumns() []string {
	cols := make([]string, 0, len(Channels)*NDetectors)
	for _, ch := range Channels {
		cols = append(cols, RadColNames(ch)...)
	}
	return cols
}

// L1BColumnKinds returns the column type map of the L1B schema. Radiance
// and all remaining numeric columns are floats.
func L1BColumnKinds() map[string]table.Kind {
	kinds := make(map[string]table.Kind)
	for _, c := range l1bIntColumns {
		kinds[c] = table.Int
	}
	for _, c := range l1bStringColumns {
		kinds[c] = table.String
	}
	return kinds
}

// Header-derived columns broadcast onto every row of a parsed L1B file.
const (
	ColSolarDist = "Solar_dist"
	ColLsubS     = "L_sub_s"
)

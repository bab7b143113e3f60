package mcs

import (
	"fmt"
	"strings"

	"github.com/mars-clim/gomcs/pkg/table"
)

// RecordSchema declares one data record kind packed into an L2 file: its
// ordered column names, the number of consecutive lines each profile
// occupies, and the column types.
type RecordSchema struct {
	Name    string
	Lines   int
	Columns []string
	Kinds   map[string]table.Kind
}

// HasColumn reports whether the schema declares the named column.
func (s RecordSchema) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Data record kind names.
const (
	DDR1 = "DDR1"
	DDR2 = "DDR2"
	DDR3 = "DDR3"
	DDR4 = "DDR4"
)

var ddr1Columns = []string{
	"1", "Date", "UTC", "SCLK", "L_s", "Solar_dist", "Orb_num", "Gqual",
	"Solar_lat", "Solar_lon", "Solar_zen", "LTST",
	"Profile_lat", "Profile_lon", "Profile_rad", "Profile_alt",
	"Limb_ang", "Are_rad",
	"Surf_lat", "Surf_lon", "Surf_rad",
	"T_surf", "T_surf_err", "T_near_surf", "T_near_surf_err",
	"Dust_column", "Dust_column_err",
	"H2Ovap_column", "H2Ovap_column_err",
	"H2Oice_column", "H2Oice_column_err",
	"CO2ice_column", "CO2ice_column_err",
	"p_surf", "p_surf_err", "p_ret_alt", "p_ret", "p_ret_err",
	"Rqual", "P_qual", "T_qual", "Dust_qual",
	"H2Ovap_qual", "H2Oice_qual", "CO2ice_qual", "surf_qual", "Obs_qual",
	"Ref_SCLK_0", "Ref_SCLK_1", "Ref_SCLK_2", "Ref_SCLK_3", "Ref_SCLK_4",
	"Ref_SCLK_5", "Ref_SCLK_6", "Ref_SCLK_7", "Ref_SCLK_8", "Ref_SCLK_9",
	"Ref_Date_0", "Ref_UTC_0", "Ref_Date_1", "Ref_UTC_1",
	"Ref_Date_2", "Ref_UTC_2", "Ref_Date_3", "Ref_UTC_3",
	"Ref_Date_4", "Ref_UTC_4", "Ref_Date_5", "Ref_UTC_5",
	"Ref_Date_6", "Ref_UTC_6", "Ref_Date_7", "Ref_UTC_7",
	"Ref_Date_8", "Ref_UTC_8", "Ref_Date_9", "Ref_UTC_9",
}

var ddr2Columns = []string{
	"1", "Pres", "T", "T_err", "Dust", "Dust_err",
	"H2Ovap", "H2Ovap_err", "H2Oice", "H2Oice_err",
	"CO2ice", "CO2ice_err", "Alt", "Lat", "Lon",
}

var ddr4Columns = []string{
	"1", "T_resid", "p_resid", "Dust_resid",
	"H2Ovap_resid", "H2Oice_resid", "CO2ice_resid",
}

func ddr3Columns() []string {
	cols := []string{"1"}
	for _, ch := range Channels {
		cols = append(cols, "Rad_"+ch, "Rad_"+ch+"_calc")
	}
	return cols
}

func ddr1Kinds() map[string]table.Kind {
	kinds := map[string]table.Kind{"1": table.Int, "Orb_num": table.Int}
	for _, c := range ddr1Columns {
		if strings.Contains(c, "qual") {
			kinds[c] = table.Int
		}
		if strings.HasPrefix(c, "Ref_Date") || strings.HasPrefix(c, "Ref_UTC") {
			kinds[c] = table.String
		}
	}
	kinds["Date"] = table.String
	kinds["UTC"] = table.String
	return kinds
}

// L2Schemas returns the declared record schemas of an L2 file in their fixed
// file order. The PDS archive variant declares only DDR1 and DDR2.
func L2Schemas(pds bool) []RecordSchema {
	schemas := []RecordSchema{
		{Name: DDR1, Lines: 1, Columns: ddr1Columns, Kinds: ddr1Kinds()},
		{Name: DDR2, Lines: 105, Columns: ddr2Columns, Kinds: map[string]table.Kind{"1": table.Int}},
	}
	if !pds {
		schemas = append(schemas,
			RecordSchema{Name: DDR3, Lines: 22, Columns: ddr3Columns(), Kinds: map[string]table.Kind{"1": table.Int}},
			RecordSchema{Name: DDR4, Lines: 102, Columns: ddr4Columns, Kinds: map[string]table.Kind{"1": table.Int}},
		)
	}
	return schemas
}

// L2Schema looks up one record schema by kind name.
func L2Schema(name string, pds bool) (RecordSchema, error) {
	for _, s := range L2Schemas(pds) {
		if s.Name == name {
			return s, nil
		}
	}
	return RecordSchema{}, fmt.Errorf("mcs: unknown data record kind %q", name)
}

// ProfileStride returns the number of lines one profile occupies, summed
// over all declared record kinds.
func ProfileStride(schemas []RecordSchema) int {
	n := 0
	for _, s := range schemas {
		n += s.Lines
	}
	return n
}

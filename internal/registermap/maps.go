package registermap

// map03_125 carries the InverterReport (Holding Register) fields.
var map03_125 = map[int]RegisterSpec{
	34:  {ID: 34, Type: RegText, Name: "m_info", Length: 7},
	43:  {ID: 43, Type: RegInteger, Name: "DTC", Length: 1},
	125: {ID: 125, Type: RegText, Name: "device_type", Length: 7},
}

// map04_125 carries the LiveData/BufferedData (Input Register) fields.
var map04_125 = map[int]RegisterSpec{
	0: {ID: 0, Type: RegInteger, Name: "pvstatus", Length: 1, Divisor: 1},
	1: {ID: 1, Type: RegScaledFloat, Name: "in_power", Length: 2, Divisor: 10},

	3:  {ID: 3, Type: RegScaledFloat, Name: "pv1_voltage", Length: 1, Divisor: 10},
	4:  {ID: 4, Type: RegScaledFloat, Name: "pv1_current", Length: 1, Divisor: 10},
	5:  {ID: 5, Type: RegScaledFloat, Name: "pv1_power", Length: 2, Divisor: 10},
	7:  {ID: 7, Type: RegScaledFloat, Name: "pv2_voltage", Length: 1, Divisor: 10},
	8:  {ID: 8, Type: RegScaledFloat, Name: "pv2_current", Length: 1, Divisor: 10},
	9:  {ID: 9, Type: RegScaledFloat, Name: "pv2_power", Length: 2, Divisor: 10},
	11: {ID: 11, Type: RegScaledFloat, Name: "pv3_voltage", Length: 1, Divisor: 10},
	12: {ID: 12, Type: RegScaledFloat, Name: "pv3_current", Length: 1, Divisor: 10},
	13: {ID: 13, Type: RegScaledFloat, Name: "pv3_power", Length: 2, Divisor: 10},
	15: {ID: 15, Type: RegScaledFloat, Name: "pv4_voltage", Length: 1, Divisor: 10},
	16: {ID: 16, Type: RegScaledFloat, Name: "pv4_current", Length: 1, Divisor: 10},
	17: {ID: 17, Type: RegScaledFloat, Name: "pv4_power", Length: 2, Divisor: 10},
	19: {ID: 19, Type: RegScaledFloat, Name: "pv5_voltage", Length: 1, Divisor: 10},
	20: {ID: 20, Type: RegScaledFloat, Name: "pv5_current", Length: 1, Divisor: 10},
	21: {ID: 21, Type: RegScaledFloat, Name: "pv5_power", Length: 2, Divisor: 10},
	23: {ID: 23, Type: RegScaledFloat, Name: "pv6_voltage", Length: 1, Divisor: 10},
	24: {ID: 24, Type: RegScaledFloat, Name: "pv6_current", Length: 1, Divisor: 10},
	25: {ID: 25, Type: RegScaledFloat, Name: "pv6_power", Length: 2, Divisor: 10},
	27: {ID: 27, Type: RegScaledFloat, Name: "pv7_voltage", Length: 1, Divisor: 10},
	28: {ID: 28, Type: RegScaledFloat, Name: "pv7_current", Length: 1, Divisor: 10},
	29: {ID: 29, Type: RegScaledFloat, Name: "pv7_power", Length: 2, Divisor: 10},
	31: {ID: 31, Type: RegScaledFloat, Name: "pv8_voltage", Length: 1, Divisor: 10},
	32: {ID: 32, Type: RegScaledFloat, Name: "pv8_current", Length: 1, Divisor: 10},
	33: {ID: 33, Type: RegScaledFloat, Name: "pv8_power", Length: 2, Divisor: 10},

	35: {ID: 35, Type: RegScaledFloat, Name: "out_power", Length: 2, Divisor: 10},
	37: {ID: 37, Type: RegScaledFloat, Name: "grid_freq", Length: 1, Divisor: 100},
	38: {ID: 38, Type: RegScaledFloat, Name: "grid_voltage_phase_1", Length: 1, Divisor: 10},

	39: {ID: 39, Type: RegScaledFloat, Name: "grid_out_current_phase_1", Length: 1, Divisor: 10},
	40: {ID: 40, Type: RegScaledFloat, Name: "grid_out_watt_VA_phase_1", Length: 2, Divisor: 10},
	42: {ID: 42, Type: RegScaledFloat, Name: "grid_voltage_phase_2", Length: 1, Divisor: 10},
	43: {ID: 43, Type: RegScaledFloat, Name: "grid_out_current_phase_2", Length: 1, Divisor: 10},
	44: {ID: 44, Type: RegScaledFloat, Name: "grid_out_watt_VA_phase_2", Length: 2, Divisor: 10},
	46: {ID: 46, Type: RegScaledFloat, Name: "grid_voltage_phase_3", Length: 1, Divisor: 10},
	47: {ID: 47, Type: RegScaledFloat, Name: "grid_out_current_phase_3", Length: 1, Divisor: 10},
	48: {ID: 48, Type: RegScaledFloat, Name: "grid_out_watt_VA_phase_3", Length: 2, Divisor: 10},

	50: {ID: 50, Type: RegScaledFloat, Name: "VAC_RS", Length: 1, Divisor: 10},
	51: {ID: 51, Type: RegScaledFloat, Name: "VAC_ST", Length: 1, Divisor: 10},
	52: {ID: 52, Type: RegScaledFloat, Name: "VAC_TR", Length: 1, Divisor: 10},
	53: {ID: 53, Type: RegScaledFloat, Name: "energy_today", Length: 2, Divisor: 10},
	55: {ID: 55, Type: RegScaledFloat, Name: "energy_total", Length: 2, Divisor: 10},
	57: {ID: 57, Type: RegScaledFloat, Name: "working_time", Length: 2, Divisor: 7200},

	59: {ID: 59, Type: RegScaledFloat, Name: "pv1_energy_today", Length: 2, Divisor: 10},
	61: {ID: 61, Type: RegScaledFloat, Name: "pv1_energy_total", Length: 2, Divisor: 10},
	63: {ID: 63, Type: RegScaledFloat, Name: "pv2_energy_today", Length: 2, Divisor: 10},
	65: {ID: 65, Type: RegScaledFloat, Name: "pv2_energy_total", Length: 2, Divisor: 10},
	67: {ID: 67, Type: RegScaledFloat, Name: "pv3_energy_today", Length: 2, Divisor: 10},
	69: {ID: 69, Type: RegScaledFloat, Name: "pv3_energy_total", Length: 2, Divisor: 10},
	71: {ID: 71, Type: RegScaledFloat, Name: "pv4_energy_today", Length: 2, Divisor: 10},
	73: {ID: 73, Type: RegScaledFloat, Name: "pv4_energy_total", Length: 2, Divisor: 10},
	75: {ID: 75, Type: RegScaledFloat, Name: "pv5_energy_total", Length: 2, Divisor: 10},
	77: {ID: 77, Type: RegScaledFloat, Name: "pv5_energy_total", Length: 2, Divisor: 10},
	79: {ID: 79, Type: RegScaledFloat, Name: "pv6_energy_total", Length: 2, Divisor: 10},
	81: {ID: 81, Type: RegScaledFloat, Name: "pv6_energy_total", Length: 2, Divisor: 10},
	83: {ID: 83, Type: RegScaledFloat, Name: "pv7_energy_total", Length: 2, Divisor: 10},
	85: {ID: 85, Type: RegScaledFloat, Name: "pv7_energy_total", Length: 2, Divisor: 10},
	87: {ID: 87, Type: RegScaledFloat, Name: "pv8_energy_total", Length: 2, Divisor: 10},
	89: {ID: 89, Type: RegScaledFloat, Name: "pv8_energy_total", Length: 2, Divisor: 10},
	91: {ID: 91, Type: RegScaledFloat, Name: "pv_energy_total", Length: 2, Divisor: 10},

	93: {ID: 93, Type: RegScaledFloat, Name: "inverter_temp", Length: 1, Divisor: 10},
	94: {ID: 94, Type: RegScaledFloat, Name: "inverter_inside_temp", Length: 1, Divisor: 10},
	95: {ID: 95, Type: RegScaledFloat, Name: "boost_temp", Length: 1, Divisor: 10},
	97: {ID: 97, Type: RegScaledFloat, Name: "batt_v", Length: 1, Divisor: 10},
	98: {ID: 98, Type: RegScaledFloat, Name: "Pbus_volt", Length: 1, Divisor: 10},
	99: {ID: 99, Type: RegScaledFloat, Name: "Nbus_volt", Length: 1, Divisor: 10},
	100: {ID: 100, Type: RegScaledFloat, Name: "power_factor_now", Length: 1, Divisor: 20000},
	101: {ID: 101, Type: RegScaledFloat, Name: "real_out_power_pct", Length: 1, Divisor: 100},
	102: {ID: 102, Type: RegScaledFloat, Name: "out_max_power", Length: 2, Divisor: 10},
	104: {ID: 104, Type: RegScaledFloat, Name: "derating_mode", Length: 1, Divisor: 1},
	105: {ID: 105, Type: RegFaultCode1, Name: "inverter_fault_code", Length: 1, Divisor: 1},
	106: {ID: 106, Type: RegFaultCode8, Name: "inverter_fault_bit", Length: 2, Divisor: 1},
	110: {ID: 110, Type: RegInteger, Name: "inverter_warning_bit", Length: 2, Divisor: 1},

	125: {ID: 125, Type: RegScaledFloat, Name: "pv1_pid_voltage", Length: 1, Divisor: 10},
	126: {ID: 126, Type: RegScaledFloat, Name: "pv1_pid_current", Length: 1, Divisor: 10},
	127: {ID: 127, Type: RegScaledFloat, Name: "pv2_pid_voltage", Length: 1, Divisor: 10},
	128: {ID: 128, Type: RegScaledFloat, Name: "pv2_pid_current", Length: 1, Divisor: 10},
	129: {ID: 129, Type: RegScaledFloat, Name: "pv3_pid_voltage", Length: 1, Divisor: 10},
	130: {ID: 130, Type: RegScaledFloat, Name: "pv3_pid_current", Length: 1, Divisor: 10},
	131: {ID: 131, Type: RegScaledFloat, Name: "pv4_pid_voltage", Length: 1, Divisor: 10},
	132: {ID: 132, Type: RegScaledFloat, Name: "pv4_pid_current", Length: 1, Divisor: 10},
	133: {ID: 133, Type: RegScaledFloat, Name: "pv5_pid_voltage", Length: 1, Divisor: 10},
	134: {ID: 134, Type: RegScaledFloat, Name: "pv5_pid_current", Length: 1, Divisor: 10},
	135: {ID: 135, Type: RegScaledFloat, Name: "pv6_pid_voltage", Length: 1, Divisor: 10},
	136: {ID: 136, Type: RegScaledFloat, Name: "pv6_pid_current", Length: 1, Divisor: 10},
	137: {ID: 137, Type: RegScaledFloat, Name: "pv7_pid_voltage", Length: 1, Divisor: 10},
	138: {ID: 138, Type: RegScaledFloat, Name: "pv7_pid_current", Length: 1, Divisor: 10},
	139: {ID: 139, Type: RegScaledFloat, Name: "pv8_pid_voltage", Length: 1, Divisor: 10},
	140: {ID: 140, Type: RegScaledFloat, Name: "pv8_pid_current", Length: 1, Divisor: 10},
	141: {ID: 141, Type: RegBit16, Name: "pv_pid_status", Length: 1, Divisor: 1},

	142: {ID: 142, Type: RegScaledFloat, Name: "string1_voltage", Length: 1, Divisor: 10},
	143: {ID: 143, Type: RegScaledFloat, Name: "string1_current", Length: 1, Divisor: 10},
	144: {ID: 144, Type: RegScaledFloat, Name: "string2_voltage", Length: 1, Divisor: 10},
	145: {ID: 145, Type: RegScaledFloat, Name: "string2_current", Length: 1, Divisor: 10},
	146: {ID: 146, Type: RegScaledFloat, Name: "string3_voltage", Length: 1, Divisor: 10},
	147: {ID: 147, Type: RegScaledFloat, Name: "string3_current", Length: 1, Divisor: 10},
	148: {ID: 148, Type: RegScaledFloat, Name: "string4_voltage", Length: 1, Divisor: 10},
	149: {ID: 149, Type: RegScaledFloat, Name: "string4_current", Length: 1, Divisor: 10},
	150: {ID: 150, Type: RegScaledFloat, Name: "string5_voltage", Length: 1, Divisor: 10},
	151: {ID: 151, Type: RegScaledFloat, Name: "string5_current", Length: 1, Divisor: 10},
	152: {ID: 152, Type: RegScaledFloat, Name: "string6_voltage", Length: 1, Divisor: 10},
	153: {ID: 153, Type: RegScaledFloat, Name: "string6_current", Length: 1, Divisor: 10},
	154: {ID: 154, Type: RegScaledFloat, Name: "string7_voltage", Length: 1, Divisor: 10},
	155: {ID: 155, Type: RegScaledFloat, Name: "string7_current", Length: 1, Divisor: 10},
	156: {ID: 156, Type: RegScaledFloat, Name: "string8_voltage", Length: 1, Divisor: 10},
	157: {ID: 157, Type: RegScaledFloat, Name: "string8_current", Length: 1, Divisor: 10},

	158: {ID: 158, Type: RegScaledFloat, Name: "string9_voltage", Length: 1, Divisor: 10},
	159: {ID: 159, Type: RegScaledFloat, Name: "string9_current", Length: 1, Divisor: 10},
	160: {ID: 160, Type: RegScaledFloat, Name: "string10_voltage", Length: 1, Divisor: 10},
	161: {ID: 161, Type: RegScaledFloat, Name: "string10_current", Length: 1, Divisor: 10},
	162: {ID: 162, Type: RegScaledFloat, Name: "string11_voltage", Length: 1, Divisor: 10},
	163: {ID: 163, Type: RegScaledFloat, Name: "string11_current", Length: 1, Divisor: 10},
	164: {ID: 164, Type: RegScaledFloat, Name: "string12_voltage", Length: 1, Divisor: 10},
	165: {ID: 165, Type: RegScaledFloat, Name: "string12_current", Length: 1, Divisor: 10},
	166: {ID: 166, Type: RegScaledFloat, Name: "string13_voltage", Length: 1, Divisor: 10},
	167: {ID: 167, Type: RegScaledFloat, Name: "string13_current", Length: 1, Divisor: 10},
	168: {ID: 168, Type: RegScaledFloat, Name: "string14_voltage", Length: 1, Divisor: 10},
	169: {ID: 169, Type: RegScaledFloat, Name: "string14_current", Length: 1, Divisor: 10},
	170: {ID: 170, Type: RegScaledFloat, Name: "string15_voltage", Length: 1, Divisor: 10},
	171: {ID: 171, Type: RegScaledFloat, Name: "string15_current", Length: 1, Divisor: 10},
	172: {ID: 172, Type: RegScaledFloat, Name: "string16_voltage", Length: 1, Divisor: 10},
	173: {ID: 173, Type: RegScaledFloat, Name: "string16_current", Length: 1, Divisor: 10},

	174: {ID: 174, Type: RegBit16, Name: "string_unmatch", Length: 1, Divisor: 1},
	175: {ID: 175, Type: RegBit16, Name: "string_cur_unbalance", Length: 1, Divisor: 1},
	176: {ID: 176, Type: RegBit16, Name: "string_disconnect", Length: 1, Divisor: 1},
	177: {ID: 177, Type: RegBit16, Name: "pid_fault_code", Length: 1, Divisor: 1},
	178: {ID: 178, Type: RegBit16, Name: "string_prompt", Length: 1, Divisor: 1},
	179: {ID: 179, Type: RegInteger, Name: "pv_warn_val", Length: 1, Divisor: 1},

	180: {ID: 180, Type: RegInteger, Name: "DSP_075_warning", Length: 1, Divisor: 1},
	181: {ID: 181, Type: RegInteger, Name: "DSP_075_fault", Length: 1, Divisor: 1},

	200: {ID: 200, Type: RegInteger, Name: "pv_iso_kOhm", Length: 1, Divisor: 1},
	201: {ID: 201, Type: RegScaledFloat, Name: "R_DCI_current", Length: 1, Divisor: 10},
	202: {ID: 202, Type: RegScaledFloat, Name: "S_DCI_current", Length: 1, Divisor: 10},
	203: {ID: 203, Type: RegScaledFloat, Name: "T_DCI_current", Length: 1, Divisor: 10},
	204: {ID: 204, Type: RegScaledFloat, Name: "pid_bus_voltage", Length: 1, Divisor: 10},

	206: {ID: 206, Type: RegBit16, Name: "svg_apf_status_ratio", Length: 1, Divisor: 1},

	229: {ID: 229, Type: RegBit16, Name: "fan_fault", Length: 1, Divisor: 1},

	230: {ID: 230, Type: RegScaledFloat, Name: "out_apparent_power", Length: 2, Divisor: 10},
	232: {ID: 232, Type: RegScaledFloat, Name: "out_reactive_power", Length: 2, Divisor: 10},
	234: {ID: 234, Type: RegScaledFloat, Name: "max_reactive_power", Length: 2, Divisor: 10},
	236: {ID: 236, Type: RegScaledFloat, Name: "tot_reactive_power", Length: 2, Divisor: 10},
}

// map03_45 and map04_45 are the 45-register-section counterparts.
// They are empty placeholders in the reference implementation this
// spec was distilled from (the original author left them "to be added
// later"); Register lets a deployment populate them without touching
// this package.
var map03_45 = map[int]RegisterSpec{}
var map04_45 = map[int]RegisterSpec{}

// MapFor selects the active register map by (packet type, section
// width) as spec §4.4 step 6 directs: InverterReport uses the 03 map,
// LiveData/BufferedData use the 04 map; section width 125 selects the
// 125-variant, anything else selects the 45-variant.
func MapFor(isReport bool, sectionWidth int) map[int]RegisterSpec {
	wide := sectionWidth == 125
	if isReport {
		if wide {
			return map03_125
		}
		return map03_45
	}
	if wide {
		return map04_125
	}
	return map04_45
}

// Register adds or overrides a register spec in one of the four
// static maps, keyed the same way MapFor selects them. It exists so
// the 45-register variants (genuinely empty upstream) can be
// populated by a deployment without a code change; absence of an
// entry never crashes extraction, it only yields a smaller Record.
func Register(isReport bool, sectionWidth int, spec RegisterSpec) {
	wide := sectionWidth == 125
	switch {
	case isReport && wide:
		map03_125[spec.ID] = spec
	case isReport && !wide:
		map03_45[spec.ID] = spec
	case !isReport && wide:
		map04_125[spec.ID] = spec
	default:
		map04_45[spec.ID] = spec
	}
}

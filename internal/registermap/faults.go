package registermap

// fault1Names mirrors Fault1 from the original protocol_enums: a
// small, densely-packed inverter fault code space with an
// "undocumented" fallback for any value not in the table.
var fault1Names = map[int]string{
	0:   "No_error",
	1:   "Error_100",
	2:   "Error_101",
	3:   "Error_102",
	4:   "Error_103",
	5:   "Error_104",
	6:   "Error_105",
	7:   "Error_106",
	8:   "Error_107",
	9:   "Error_108",
	10:  "Error_109",
	11:  "Error_110",
	12:  "Error_111",
	13:  "Error_112",
	14:  "Error_113",
	15:  "Error_114",
	16:  "Error_115",
	17:  "Error_116",
	18:  "Error_117",
	19:  "Error_118",
	20:  "Error_119",
	21:  "Error_120",
	22:  "Error_121",
	23:  "Error_123",
	24:  "Auto_Test_Failed",
	302: "No_AC_Connection",
	203: "PV_Isolation_Low",
	27:  "Residual_I_High",
	28:  "Output_High_DCI",
	29:  "PV_Voltage_High",
	30:  "AC_Voltage_Out_of_Range",
	31:  "AC_Frequency_Out_of_Range",
	32:  "Module_Too_Hot",
}

func fault1Name(v int) string {
	if name, ok := fault1Names[v]; ok {
		return name
	}
	return "Error_Undocummented"
}

// fault8Names mirrors Fault8: a bitmask-style fault code space keyed
// by hex value.
var fault8Names = map[int64]string{
	0x00000000: "No_Error",
	0x00000002: "Communication_Error",
	0x00000008: "StrReverse_or_StrShortage",
	0x00000010: "Model_Init_Fault",
	0x00000020: "Grid_Voltage_Sample_Diff",
	0x00000040: "ISO_Sample_Diff",
	0x00000080: "GFCI_Sample_Diff",
	0x00001000: "AFCI_Fault",
	0x00004000: "AFCI_Module_Fault",
	0x00020000: "RelayCheck_Fault",
	0x00200000: "Communication_Error2",
	0x00400000: "BusVoltage_Error",
	0x00800000: "AutoTest_Failure",
	0x01000000: "No_Utility",
	0x02000000: "PV_Isolation_low",
	0x04000000: "Residual_I_High",
	0x08000000: "Output_DCI_High",
	0x10000000: "PV_Voltage_High",
	0x20000000: "AC_Voltage_OutRange",
	0x40000000: "AC_Frequency_OutRange",
	0x80000000: "High_Temperature",
}

func fault8Name(v int64) string {
	if name, ok := fault8Names[v]; ok {
		return name
	}
	return "Undocumented"
}

// warn8Names mirrors Warn8.
var warn8Names = map[int]string{
	0x0000: "No_Warn",
	0x0001: "Fan_Warn",
	0x0002: "String_Comm_Abnormal",
	0x0004: "String_PID_Conf_Warn",
	0x0010: "DSP_COM_Unmatch",
	0x0040: "SPD_Abnormal",
	0x0080: "GND_N_Conn_Abnormal",
	0x0100: "PV1_PV2_Short_Circuit",
	0x0200: "PV1_PV2_Boost_Drv_Broken",
}

func warn8Name(v int) string {
	if name, ok := warn8Names[v]; ok {
		return name
	}
	return "Undocumented"
}

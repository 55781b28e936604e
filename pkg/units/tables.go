package units

// Lookup tables for the packed zone parameters. Every table is monotonic so the
// encoders can binary search them.

// Time21 holds envelope hold and LFO delay times in seconds (0-21.69 s).
var Time21 = [128]float64{
	0.00, 0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07,
	0.08, 0.09, 0.10, 0.11, 0.12, 0.13, 0.14, 0.15,
	0.16, 0.17, 0.18, 0.19, 0.20, 0.21, 0.22, 0.23,
	0.24, 0.25, 0.26, 0.27, 0.28, 0.29, 0.30, 0.31,
	0.32, 0.33, 0.34, 0.35, 0.36, 0.37, 0.38, 0.39,
	0.40, 0.41, 0.42, 0.43, 0.44, 0.45, 0.46, 0.47,
	0.48, 0.49, 0.50, 0.51, 0.52, 0.53, 0.54, 0.55,
	0.56, 0.57, 0.58, 0.59, 0.60, 0.61, 0.62, 0.63,
	0.64, 0.65, 0.66, 0.67, 0.68, 0.69, 0.70, 0.74,
	0.79, 0.84, 0.89, 0.95, 1.01, 1.07, 1.14, 1.21,
	1.28, 1.36, 1.45, 1.54, 1.63, 1.74, 1.84, 1.96,
	2.08, 2.21, 2.35, 2.49, 2.65, 2.81, 2.99, 3.17,
	3.37, 3.58, 3.80, 4.03, 4.28, 4.55, 4.83, 5.13,
	5.45, 5.79, 6.14, 6.53, 6.93, 7.36, 7.81, 8.30,
	8.81, 9.36, 9.94, 10.55, 11.21, 11.90, 12.64, 13.42,
	14.25, 15.13, 16.07, 17.06, 18.12, 19.24, 20.43, 21.69,
}

// Time163 holds envelope attack, decay and release times in seconds (0-163.69 s).
var Time163 = [128]float64{
	0.00, 0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07,
	0.08, 0.09, 0.10, 0.11, 0.12, 0.13, 0.14, 0.15,
	0.16, 0.17, 0.18, 0.19, 0.20, 0.21, 0.22, 0.23,
	0.24, 0.25, 0.26, 0.27, 0.28, 0.29, 0.30, 0.31,
	0.32, 0.33, 0.34, 0.35, 0.36, 0.37, 0.38, 0.39,
	0.40, 0.41, 0.42, 0.43, 0.44, 0.45, 0.46, 0.47,
	0.48, 0.49, 0.50, 0.54, 0.58, 0.62, 0.67, 0.73,
	0.79, 0.85, 0.91, 0.99, 1.06, 1.15, 1.24, 1.34,
	1.44, 1.55, 1.68, 1.81, 1.95, 2.10, 2.27, 2.44,
	2.63, 2.84, 3.06, 3.30, 3.56, 3.84, 4.14, 4.46,
	4.81, 5.18, 5.59, 6.03, 6.50, 7.00, 7.55, 8.14,
	8.77, 9.46, 10.19, 10.99, 11.85, 12.77, 13.77, 14.84,
	16.00, 17.24, 18.59, 20.03, 21.60, 23.28, 25.09, 27.05,
	29.16, 31.43, 33.88, 36.51, 39.36, 42.43, 45.73, 49.29,
	53.13, 57.27, 61.74, 66.54, 71.73, 77.32, 83.34, 89.83,
	96.83, 104.37, 112.50, 121.26, 130.71, 140.89, 151.86, 163.69,
}

// LFORate holds LFO rates in Hz (0-18.14 Hz).
var LFORate = [128]float64{
	0.00, 0.09, 0.10, 0.11, 0.12, 0.13, 0.14, 0.15,
	0.16, 0.17, 0.18, 0.19, 0.20, 0.21, 0.22, 0.23,
	0.24, 0.25, 0.26, 0.27, 0.28, 0.29, 0.30, 0.31,
	0.32, 0.33, 0.34, 0.35, 0.36, 0.37, 0.38, 0.39,
	0.40, 0.41, 0.42, 0.43, 0.44, 0.45, 0.46, 0.47,
	0.48, 0.49, 0.50, 0.51, 0.52, 0.55, 0.57, 0.60,
	0.62, 0.65, 0.68, 0.71, 0.74, 0.77, 0.80, 0.84,
	0.87, 0.91, 0.95, 0.99, 1.04, 1.08, 1.13, 1.18,
	1.23, 1.28, 1.34, 1.40, 1.46, 1.52, 1.59, 1.66,
	1.73, 1.81, 1.89, 1.97, 2.05, 2.14, 2.24, 2.34,
	2.44, 2.54, 2.65, 2.77, 2.89, 3.02, 3.15, 3.29,
	3.43, 3.58, 3.74, 3.90, 4.07, 4.25, 4.43, 4.63,
	4.83, 5.04, 5.26, 5.49, 5.73, 5.98, 6.24, 6.51,
	6.79, 7.09, 7.40, 7.72, 8.06, 8.41, 8.78, 9.16,
	9.56, 9.98, 10.41, 10.87, 11.34, 11.83, 12.35, 12.89,
	13.45, 14.04, 14.65, 15.29, 15.96, 16.65, 17.38, 18.14,
}

// Cutoff holds VCF cutoff frequencies in Hz, indexed by the raw cutoff byte.
var Cutoff = [256]int{
	57, 58, 60, 61, 62, 64, 65, 67, 69, 70, 72, 73,
	75, 77, 79, 80, 82, 84, 86, 88, 90, 92, 95, 97,
	99, 101, 104, 106, 108, 111, 114, 116, 119, 122, 125, 127,
	130, 133, 137, 140, 143, 146, 150, 153, 157, 160, 164, 168,
	172, 176, 180, 184, 188, 193, 197, 202, 206, 211, 216, 221,
	226, 232, 237, 242, 248, 254, 260, 266, 272, 278, 285, 291,
	298, 305, 312, 319, 327, 335, 342, 350, 358, 367, 375, 384,
	393, 402, 411, 421, 431, 441, 451, 461, 472, 483, 494, 506,
	518, 530, 542, 555, 568, 581, 594, 608, 622, 637, 651, 667,
	682, 698, 714, 731, 748, 765, 783, 801, 820, 839, 858, 878,
	899, 920, 941, 963, 985, 1008, 1032, 1056, 1080, 1105, 1131, 1157,
	1184, 1212, 1240, 1269, 1298, 1328, 1359, 1391, 1423, 1456, 1490, 1525,
	1560, 1596, 1633, 1671, 1710, 1750, 1791, 1832, 1875, 1919, 1963, 2009,
	2056, 2103, 2152, 2202, 2253, 2306, 2359, 2414, 2470, 2528, 2587, 2647,
	2708, 2771, 2836, 2902, 2969, 3038, 3109, 3181, 3255, 3331, 3408, 3487,
	3568, 3651, 3736, 3823, 3912, 4003, 4096, 4191, 4289, 4388, 4490, 4595,
	4702, 4811, 4923, 5037, 5154, 5274, 5397, 5522, 5651, 5782, 5916, 6054,
	6195, 6339, 6486, 6637, 6791, 6949, 7111, 7276, 7445, 7618, 7795, 7976,
	8162, 8352, 8546, 8745, 8948, 9156, 9369, 9587, 9809, 10037, 10271, 10510,
	10754, 11004, 11260, 11522, 11789, 12063, 12344, 12631, 12925, 13225, 13532, 13847,
	14169, 14498, 14835, 15180, 15533, 15894, 16264, 16642, 17029, 17425, 17830, 18244,
	18669, 19103, 19547, 20001,
}

// SymPercent maps the 7-bit sign+magnitude amount encoding to percent.
// Bit 6 is the sign, bits 0-5 the magnitude.
var SymPercent = [128]int{
	0, 2, 3, 5, 6, 8, 10, 11, 13, 14, 16, 17, 19, 21, 22, 24,
	25, 27, 29, 30, 32, 33, 35, 37, 38, 40, 41, 43, 44, 46, 48, 49,
	51, 52, 54, 56, 57, 59, 60, 62, 63, 65, 67, 68, 70, 71, 73, 75,
	76, 78, 79, 81, 83, 84, 86, 87, 89, 90, 92, 94, 95, 97, 98, 100,
	0, -2, -3, -5, -6, -8, -10, -11, -13, -14, -16, -17, -19, -21, -22, -24,
	-25, -27, -29, -30, -32, -33, -35, -37, -38, -40, -41, -43, -44, -46, -48, -49,
	-51, -52, -54, -56, -57, -59, -60, -62, -63, -65, -67, -68, -70, -71, -73, -75,
	-76, -78, -79, -81, -83, -84, -86, -87, -89, -90, -92, -94, -95, -97, -98, -100,
}

// Package astro computes what the sky looks like from a point at a time:
// sidereal time, horizontal coordinates, and per-constellation visibility.
package astro

// Constellation is one fixed catalog entry. RA is in hours, Dec in degrees,
// both for the approximate center of the constellation.
type Constellation struct {
	Name   string  `json:"name"`
	Abbr   string  `json:"abbr"`
	RA     float64 `json:"ra"`
	Dec    float64 `json:"dec"`
	Season string  `json:"season"`
}

// Catalog is the fixed table of constellations checked for visibility.
var Catalog = []Constellation{
	{"Andromeda", "And", 0.8, 37.4, "autumn"},
	{"Aquarius", "Aqr", 22.3, -10.8, "autumn"},
	{"Aquila", "Aql", 19.7, 3.4, "summer"},
	{"Aries", "Ari", 2.6, 20.8, "autumn"},
	{"Auriga", "Aur", 6.0, 42.0, "winter"},
	{"Bootes", "Boo", 14.7, 31.2, "spring"},
	{"Cancer", "Cnc", 8.6, 19.8, "winter"},
	{"Canis Major", "CMa", 6.8, -22.1, "winter"},
	{"Canis Minor", "CMi", 7.7, 6.4, "winter"},
	{"Capricornus", "Cap", 21.0, -18.0, "autumn"},
	{"Cassiopeia", "Cas", 1.0, 60.2, "autumn"},
	{"Centaurus", "Cen", 13.0, -47.3, "spring"},
	{"Cepheus", "Cep", 22.0, 71.0, "autumn"},
	{"Cetus", "Cet", 1.7, -7.2, "autumn"},
	{"Corona Borealis", "CrB", 15.8, 32.6, "summer"},
	{"Crux", "Cru", 12.4, -60.2, "spring"},
	{"Cygnus", "Cyg", 20.6, 42.0, "summer"},
	{"Draco", "Dra", 17.0, 65.0, "summer"},
	{"Eridanus", "Eri", 3.3, -28.8, "winter"},
	{"Gemini", "Gem", 7.0, 22.6, "winter"},
	{"Hercules", "Her", 17.4, 27.5, "summer"},
	{"Hydra", "Hya", 10.2, -14.5, "spring"},
	{"Leo", "Leo", 10.7, 13.1, "spring"},
	{"Libra", "Lib", 15.2, -15.2, "summer"},
	{"Lyra", "Lyr", 18.9, 36.7, "summer"},
	{"Ophiuchus", "Oph", 17.2, -7.5, "summer"},
	{"Orion", "Ori", 5.5, 5.9, "winter"},
	{"Pegasus", "Peg", 22.7, 19.5, "autumn"},
	{"Perseus", "Per", 3.2, 45.0, "winter"},
	{"Pisces", "Psc", 0.9, 11.0, "autumn"},
	{"Sagittarius", "Sgr", 19.0, -25.0, "summer"},
	{"Scorpius", "Sco", 16.9, -30.7, "summer"},
	{"Taurus", "Tau", 4.7, 15.9, "winter"},
	{"Ursa Major", "UMa", 10.7, 55.4, "spring"},
	{"Ursa Minor", "UMi", 15.0, 77.7, "summer"},
	{"Virgo", "Vir", 13.4, -4.2, "spring"},
}

// Package config loads and validates RAIInet match setups.
//
// A setup is a JSON file holding an engine.GameConfig:
//
//	{
//	  "name": "classic",
//	  "description": "Standard abilities and links",
//	  "ability1": "LFDSP",
//	  "ability2": "LFDSP",
//	  "link1": "V1V2V3V4D1D2D3D4",
//	  "link2": "V1V2V3V4D1D2D3D4"
//	}
//
// Empty fields fall back to engine.DefaultGameConfig. Manager caches setups
// from a directory and implements service.ConfigManager. ValidateFile reports
// every problem in a file rather than stopping at the first.
//
// Settings holds the RAIINET_* environment variables. The CLI layers them
// under setup files and flags.
package config

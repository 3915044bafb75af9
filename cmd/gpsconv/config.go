package main

import (
	"fmt"
	"strings"

	"github.com/ChristopherRabotin/geod"
	"github.com/spf13/viper"
)

// Conversion modes.
const (
	modeEll2ECEF = "ell2ecef"
	modeECEF2Ell = "ecef2ell"
	modeECEF2ENU = "ecef2enu"
	modeEll2ENU  = "ell2enu"
	modeENU2ECEF = "enu2ecef"
	modeENU2Ell  = "enu2ell"
	modeEll2UTM  = "ell2utm"
	modeUTM2Ell  = "utm2ell"
	modeECEF2AER = "ecef2aer"
)

// conversion is the parsed scenario configuration.
type conversion struct {
	ellipsoid        geod.Ellipsoid
	workers          int
	mode             string
	lat0, lon0, alt0 float64
	zone             int
	north            bool
}

func (c conversion) String() string {
	switch c.mode {
	case modeECEF2ENU, modeEll2ENU, modeENU2ECEF, modeENU2Ell, modeECEF2AER:
		return fmt.Sprintf("%s on %s @ (%f, %f, %f)", c.mode, c.ellipsoid.Name(), c.lat0, c.lon0, c.alt0)
	case modeUTM2Ell:
		return fmt.Sprintf("%s on %s @ zone %d (north=%v)", c.mode, c.ellipsoid.Name(), c.zone, c.north)
	default:
		return fmt.Sprintf("%s on %s", c.mode, c.ellipsoid.Name())
	}
}

// readConversion reads the conversion from the provided viper configuration.
func readConversion(v *viper.Viper) (conversion, error) {
	v.SetDefault("general.ellipsoid", "wgs84")
	v.SetDefault("utm.north", true)

	var conv conversion
	ellName := v.GetString("general.ellipsoid")
	if strings.ToLower(ellName) == "custom" {
		ell, err := geod.NewEllipsoid("custom", v.GetFloat64("custom.a"), v.GetFloat64("custom.f"))
		if err != nil {
			return conv, fmt.Errorf("custom ellipsoid: %w", err)
		}
		conv.ellipsoid = ell
	} else {
		ell, err := geod.EllipsoidFromString(ellName)
		if err != nil {
			return conv, err
		}
		conv.ellipsoid = ell
	}
	conv.workers = v.GetInt("general.workers")

	conv.mode = strings.ToLower(v.GetString("conversion.mode"))
	switch conv.mode {
	case modeEll2ECEF, modeECEF2Ell, modeEll2UTM:
	case modeECEF2ENU, modeEll2ENU, modeENU2ECEF, modeENU2Ell, modeECEF2AER:
		if v.IsSet("origin.station") {
			station, err := geod.BuiltinStationFromName(v.GetString("origin.station"))
			if err != nil {
				return conv, err
			}
			conv.lat0, conv.lon0, conv.alt0 = station.Position.X, station.Position.Y, station.Position.Z
			break
		}
		for _, key := range []string{"origin.latitude", "origin.longitude"} {
			if !v.IsSet(key) {
				return conv, fmt.Errorf("`%s` is required for mode `%s`", key, conv.mode)
			}
		}
		conv.lat0 = v.GetFloat64("origin.latitude")
		conv.lon0 = v.GetFloat64("origin.longitude")
		conv.alt0 = v.GetFloat64("origin.altitude")
	case modeUTM2Ell:
		if !v.IsSet("utm.zone") {
			return conv, fmt.Errorf("`utm.zone` is required for mode `%s`", conv.mode)
		}
		conv.zone = v.GetInt("utm.zone")
		conv.north = v.GetBool("utm.north")
	default:
		return conv, fmt.Errorf("unknown conversion mode `%s`", conv.mode)
	}
	return conv, nil
}

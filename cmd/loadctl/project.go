package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Project is the YAML file loadctl runs. Input values and radios use the
// element ids of the input page.
type Project struct {
	Backend  string `yaml:"backend"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// OpenID reopens an existing project instead of creating one.
	OpenID int `yaml:"open_id"`

	Input struct {
		Values    map[string]string `yaml:"values"`
		Radios    []string          `yaml:"radios"`
		Zones     []Zone            `yaml:"zones"`
		ZonesXLSX string            `yaml:"zones_xlsx"`
	} `yaml:"input"`

	Wind    []WindZone    `yaml:"wind"`
	Seismic []SeismicZone `yaml:"seismic"`

	Combinations struct {
		Wall Pair `yaml:"wall"`
		Roof Pair `yaml:"roof"`
	} `yaml:"combinations"`

	Report struct {
		PDF  string `yaml:"pdf"`
		XLSX string `yaml:"xlsx"`
	} `yaml:"report"`
}

type Zone struct {
	Zone       int     `yaml:"zone"`
	Elevation  float64 `yaml:"elevation"`
	UnitWeight float64 `yaml:"unit_weight"`
}

type WindZone struct {
	Ct               string `yaml:"ct"`
	Exposure         string `yaml:"exposure"`
	Ce               string `yaml:"ce"`
	InternalPressure string `yaml:"internal_pressure"`
}

type SeismicZone struct {
	Ar string `yaml:"ar"`
	Rp string `yaml:"rp"`
	Cp string `yaml:"cp"`
}

// Pair names a ULS and an SLS combination by label.
type Pair struct {
	ULS string `yaml:"uls"`
	SLS string `yaml:"sls"`
}

func readProject(path string) (Project, error) {
	var p Project
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse %s: %w", path, err)
	}
	if p.Username == "" || p.Password == "" {
		return p, fmt.Errorf("%s: username and password are required", path)
	}
	return p, nil
}

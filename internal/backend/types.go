package backend

import "encoding/json"

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

type RegisterRequest struct {
	Username string
	Password string
	Email    string
}

type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// SaveFile is one saved project.
type SaveFile struct {
	ID           int    `json:"id"`
	JSONData     string `json:"json_data"`
	DateModified string `json:"date_modified"`
}

// SaveDataRequest writes project state. A nil ID asks the backend to create
// a new save file.
type SaveDataRequest struct {
	JSONData string `json:"json_data"`
	ID       *int   `json:"id"`
}

// Site designation modes for the location call.
const (
	SiteDesignationVs30  = "xv"
	SiteDesignationClass = "xs"
)

type LocationRequest struct {
	Address         string `json:"address"`
	SiteDesignation string `json:"site_designation"`
	SeismicValue    any    `json:"seismic_value"`
}

// LocationResult keeps the numbers as sent so they can be shown verbatim.
type LocationResult struct {
	WindVelocityPressure          json.Number  `json:"wind_velocity_pressure"`
	SnowLoad                      json.Number  `json:"snow_load"`
	RainLoad                      json.Number  `json:"rain_load"`
	DesignSpectralAcceleration0_2 json.Number  `json:"design_spectral_acceleration_0_2"`
	DesignSpectralAcceleration1   json.Number  `json:"design_spectral_acceleration_1"`
	Latitude                      *json.Number `json:"latitude,omitempty"`
	Longitude                     *json.Number `json:"longitude,omitempty"`
	Address                       *string      `json:"address,omitempty"`
}

type DimensionsRequest struct {
	Width       float64  `json:"width"`
	Height      *float64 `json:"height"`
	EaveHeight  *float64 `json:"eave_height"`
	RidgeHeight *float64 `json:"ridge_height"`
}

type CladdingRequest struct {
	CTop float64 `json:"c_top"`
	CBot float64 `json:"c_bot"`
}

type RoofRequest struct {
	WRoof           float64 `json:"w_roof"`
	LRoof           float64 `json:"l_roof"`
	Slope           float64 `json:"slope"`
	UniformDeadLoad float64 `json:"uniform_dead_load"`
}

type Zone struct {
	Number    int     `json:"number"`
	Elevation float64 `json:"elevation"`
}

type Material struct {
	Number int     `json:"number"`
	Weight float64 `json:"weight"`
}

// BuildingRequest carries null zones and materials when the backend should
// pick the height zoning itself.
type BuildingRequest struct {
	NumFloor  int        `json:"num_floor"`
	HOpening  *float64   `json:"h_opening"`
	Zones     []Zone     `json:"zones"`
	Materials []Material `json:"materials"`
}

type ImportanceCategoryRequest struct {
	ImportanceCategory string `json:"importance_category"`
}

// HeightZone is one entry of the get_height_zones map.
type HeightZone struct {
	Number      int          `json:"height_zone_number"`
	Elevation   json.Number  `json:"elevation"`
	WindLoad    *WindLoad    `json:"wind_load,omitempty"`
	SeismicLoad *SeismicLoad `json:"seismic_load,omitempty"`
}

type WindLoad struct {
	Zones []ZonePressure `json:"zones"`
}

// ZonePressure is the result for one named structural zone.
type ZonePressure struct {
	Name     string   `json:"name"`
	Pressure Pressure `json:"pressure"`
}

type Pressure struct {
	PosULS json.Number `json:"pos_uls"`
	NegULS json.Number `json:"neg_uls"`
}

type SeismicLoad struct {
	Vp json.Number `json:"vp"`
}

type WindLoadRequest struct {
	Ct                       []float64  `json:"ct"`
	ExposureFactor           []string   `json:"exposure_factor"`
	ManualCeCei              []*float64 `json:"manual_ce_cei"`
	InternalPressureCategory []string   `json:"internal_pressure_category"`
}

type SeismicLoadRequest struct {
	Ar []float64 `json:"ar"`
	Rp []float64 `json:"rp"`
	Cp []float64 `json:"cp"`
}

type WallCombinationRequest struct {
	ULSWallType string `json:"uls_wall_type"`
	SLSWallType string `json:"sls_wall_type"`
}

type RoofCombinationRequest struct {
	ULSRoofType string `json:"uls_roof_type"`
	SLSRoofType string `json:"sls_roof_type"`
}

type SimpleModelRequest struct {
	TotalElevation float64 `json:"total_elevation"`
	RoofAngle      float64 `json:"roof_angle"`
}

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) ServerStatus(ctx context.Context) error {
	return c.call(ctx, "server status", http.MethodGet, "/server_status", nil, nil, false, nil)
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	q := url.Values{"username": {username}, "password": {password}}
	var out LoginResponse
	err := c.call(ctx, "login", http.MethodPost, "/login", q, nil, false, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	q := url.Values{"username": {req.Username}, "password": {req.Password}}
	if req.Email != "" {
		q.Set("email", req.Email)
	}
	return c.call(ctx, "register", http.MethodPost, "/register", q, nil, false, nil)
}

func (c *Client) UserProfile(ctx context.Context) (Profile, error) {
	var out Profile
	err := c.call(ctx, "user profile", http.MethodPost, "/get_user_profile", nil, nil, true, &out)
	return out, err
}

func (c *Client) AllSaveData(ctx context.Context) ([]SaveFile, error) {
	var out []SaveFile
	err := c.call(ctx, "save data list", http.MethodPost, "/get_all_user_save_data", nil, nil, true, &out)
	return out, err
}

func (c *Client) SetSaveData(ctx context.Context, id int, jsonData string) error {
	body := SaveDataRequest{JSONData: jsonData, ID: &id}
	return c.call(ctx, "save data", http.MethodPost, "/set_user_save_data", nil, body, true, nil)
}

// NewSaveData creates an empty save file and returns it with its new id.
func (c *Client) NewSaveData(ctx context.Context) (SaveFile, error) {
	var out SaveFile
	body := SaveDataRequest{JSONData: "{}"}
	err := c.call(ctx, "new project", http.MethodPost, "/set_user_save_data", nil, body, true, &out)
	return out, err
}

func (c *Client) GetSaveData(ctx context.Context, id int) (SaveFile, error) {
	var out SaveFile
	q := url.Values{"id": {strconv.Itoa(id)}}
	err := c.call(ctx, "load save data", http.MethodPost, "/get_user_save_data", q, nil, true, &out)
	return out, err
}

func (c *Client) CurrentSaveFile(ctx context.Context) (SaveFile, error) {
	var out SaveFile
	err := c.call(ctx, "current save file", http.MethodPost, "/get_user_current_save_file", nil, nil, true, &out)
	return out, err
}

func (c *Client) SetCurrentSaveFile(ctx context.Context, id int) error {
	q := url.Values{"current_save_file": {strconv.Itoa(id)}}
	return c.call(ctx, "set current save file", http.MethodPost, "/set_user_current_save_file", q, nil, true, nil)
}

func (c *Client) Location(ctx context.Context, req LocationRequest) (LocationResult, error) {
	var out LocationResult
	err := c.call(ctx, "location", http.MethodPost, "/location", nil, req, true, &out)
	return out, err
}

func (c *Client) Dimensions(ctx context.Context, req DimensionsRequest) error {
	return c.call(ctx, "dimensions", http.MethodPost, "/dimensions", nil, req, true, nil)
}

func (c *Client) Cladding(ctx context.Context, req CladdingRequest) error {
	return c.call(ctx, "cladding", http.MethodPost, "/cladding", nil, req, true, nil)
}

func (c *Client) Roof(ctx context.Context, req RoofRequest) error {
	return c.call(ctx, "roof", http.MethodPost, "/roof", nil, req, true, nil)
}

func (c *Client) Building(ctx context.Context, req BuildingRequest) error {
	return c.call(ctx, "building", http.MethodPost, "/building", nil, req, true, nil)
}

func (c *Client) ImportanceCategory(ctx context.Context, category string) error {
	body := ImportanceCategoryRequest{ImportanceCategory: category}
	return c.call(ctx, "importance category", http.MethodPost, "/importance_category", nil, body, true, nil)
}

// HeightZones returns the backend's height zone map keyed by zone number.
func (c *Client) HeightZones(ctx context.Context) (map[string]HeightZone, error) {
	var out map[string]HeightZone
	err := c.call(ctx, "height zones", http.MethodPost, "/get_height_zones", nil, nil, true, &out)
	return out, err
}

func (c *Client) SetWindLoad(ctx context.Context, req WindLoadRequest) error {
	return c.call(ctx, "wind load", http.MethodPost, "/set_wind_load", nil, req, true, nil)
}

func (c *Client) SetSeismicLoad(ctx context.Context, req SeismicLoadRequest) error {
	return c.call(ctx, "seismic load", http.MethodPost, "/set_seismic_load", nil, req, true, nil)
}

// WallLoadCombinations returns the raw JSON array so the caller can keep the
// key order of each row.
func (c *Client) WallLoadCombinations(ctx context.Context, req WallCombinationRequest) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.call(ctx, "wall load combinations", http.MethodPost, "/get_wall_load_combinations", nil, req, true, &out)
	return out, err
}

func (c *Client) RoofLoadCombinations(ctx context.Context, req RoofCombinationRequest) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.call(ctx, "roof load combinations", http.MethodPost, "/get_roof_load_combinations", nil, req, true, &out)
	return out, err
}

func (c *Client) SimpleModel(ctx context.Context, req SimpleModelRequest) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.call(ctx, "simple model", http.MethodPost, "/simple_model", nil, req, true, &out)
	return out, err
}

func (c *Client) GetSimpleModel(ctx context.Context, id int) (json.RawMessage, error) {
	var out json.RawMessage
	q := url.Values{"id": {strconv.Itoa(id)}}
	err := c.call(ctx, "get simple model", http.MethodGet, "/get_simple_model", q, nil, true, &out)
	return out, err
}

package main

// This file defines structs that mirror the JSON payloads of the external
// APIs. Only the fields the parsers read are declared.

type ResponseSkyOpenWeather struct {
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Main struct {
		Humidity float64 `json:"humidity"`
		Temp     float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type ResponseSkyOpenMeteo struct {
	Current struct {
		CloudCover         float64 `json:"cloud_cover"`
		RelativeHumidity2m float64 `json:"relative_humidity_2m"`
		WindSpeed10m       float64 `json:"wind_speed_10m"`
		Temperature2m      float64 `json:"temperature_2m"`
	} `json:"current"`
}

type ResponseISSPassesN2YO struct {
	Info struct {
		Passescount int `json:"passescount"`
	} `json:"info"`
	Passes []struct {
		StartUTC       int64   `json:"startUTC"`
		EndUTC         int64   `json:"endUTC"`
		Duration       int     `json:"duration"`
		StartAz        float64 `json:"startAz"`
		EndAz          float64 `json:"endAz"`
		MaxEl          float64 `json:"maxEl"`
		Mag            float64 `json:"mag"`
		StartAzCompass string  `json:"startAzCompass"`
		EndAzCompass   string  `json:"endAzCompass"`
	} `json:"passes"`
}

type ResponseISSPassesOpenNotify struct {
	Message  string `json:"message"`
	Response []struct {
		Risetime int64 `json:"risetime"`
		Duration int   `json:"duration"`
	} `json:"response"`
}

type ResponseISSPositionOpenNotify struct {
	Message     string `json:"message"`
	Timestamp   int64  `json:"timestamp"`
	ISSPosition struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"iss_position"`
}
